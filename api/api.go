// Package api embeds the OpenAPI contract of the storefront API.
package api

import _ "embed"

// OpenAPISpec is api/openapi.yaml
//
//go:embed openapi.yaml
var OpenAPISpec []byte
