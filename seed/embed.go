// Package seed embeds the default catalog fixture.
package seed

import _ "embed"

//go:embed catalog.yaml
var Catalog []byte
