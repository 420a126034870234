package router

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/maroccart/backend/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ginParam = regexp.MustCompile(`:([A-Za-z]+)`)

func loadContract(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromData(api.OpenAPISpec)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	return doc
}

// openAPIPath converts /api/products/:id to /api/products/{id}
func openAPIPath(ginPath string) string {
	return ginParam.ReplaceAllString(ginPath, "{$1}")
}

func TestEveryRouteIsDocumented(t *testing.T) {
	doc := loadContract(t)
	s := newTestServer(t)

	documented := 0
	for _, route := range s.engine.Routes() {
		if !strings.HasPrefix(route.Path, DefaultBasePath+"/") || route.Path == OpenAPIPath {
			continue
		}
		path := openAPIPath(route.Path)
		item := doc.Paths.Find(path)
		if !assert.NotNil(t, item, "route %s %s is missing from api/openapi.yaml", route.Method, path) {
			continue
		}
		assert.NotNil(t, item.GetOperation(route.Method), "operation %s %s is missing from api/openapi.yaml", route.Method, path)
		documented++
	}
	assert.Greater(t, documented, 50)
}

func TestDocumentedOperationsAreRouted(t *testing.T) {
	doc := loadContract(t)
	s := newTestServer(t)

	routed := make(map[string]struct{})
	for _, route := range s.engine.Routes() {
		routed[route.Method+" "+openAPIPath(route.Path)] = struct{}{}
	}

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			_, ok := routed[method+" "+path]
			assert.True(t, ok, "documented operation %s %s has no route", method, path)
		}
	}
}

func TestContractOperationIDsAreUnique(t *testing.T) {
	doc := loadContract(t)

	seen := make(map[string]string)
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			require.NotEmpty(t, op.OperationID, "%s %s", method, path)
			if prev, dup := seen[op.OperationID]; dup {
				t.Errorf("operationId %q used by %s and %s %s", op.OperationID, prev, method, path)
			}
			seen[op.OperationID] = method + " " + path
		}
	}
}
