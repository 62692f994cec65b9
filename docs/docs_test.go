package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocumentListsAttributeRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, path := range []string{"/api/recipe/tags", "/api/recipe/ingredients"} {
		assert.Contains(t, doc.Paths[path], "get", path)
		assert.Contains(t, doc.Paths[path], "post", path)
		for _, method := range []string{"get", "put", "patch", "delete"} {
			assert.Contains(t, doc.Paths[path+"/{id}"], method, path)
		}
	}
}
