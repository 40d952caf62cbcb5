package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDraft = `{
	"id": "d1",
	"name": "Variant for Acme",
	"base_resume_id": "m1",
	"sections": [{"id": "s1", "kind": "skills", "content": ["Go"]}],
	"suggestions": [
		{"id": "g1", "section_id": "s1", "change_type": "addition", "content": ["Kubernetes"], "status": "pending"}
	]
}`

func TestValidateBytes_ValidDraft(t *testing.T) {
	assert.NoError(t, ValidateBytes(VariantDraft, []byte(validDraft)))
}

func TestValidateBytes_MissingField(t *testing.T) {
	err := ValidateBytes(VariantDraft, []byte(`{"id": "d1"}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateBytes_WrongStatus(t *testing.T) {
	doc := `{"id": "d1", "name": "n", "base_resume_id": "m1", "sections": [],
		"suggestions": [{"id": "g1", "section_id": "s1", "change_type": "addition", "content": [], "status": "archived"}]}`

	err := ValidateBytes(VariantDraft, []byte(doc))
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}

func TestValidateBytes_MalformedJSON(t *testing.T) {
	err := ValidateBytes(VariantDraft, []byte(`{not json`))
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := ValidateBytes("nonexistent.schema.json", []byte(`{}`))
	require.Error(t, err)

	loadErr, ok := err.(*SchemaLoadError)
	require.True(t, ok, "error should be SchemaLoadError type")
	assert.Equal(t, "nonexistent.schema.json", loadErr.Path)
	assert.Error(t, loadErr.Unwrap())
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(validDraft), 0o644))

	assert.NoError(t, ValidateFile(VariantDraft, path))

	err := ValidateFile(VariantDraft, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Go"}`))

	err := ValidateJSONString(schema, `{"name": 5}`)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestSchemaLoadError_Format(t *testing.T) {
	err := &SchemaLoadError{Path: "x.json", Message: "boom"}
	assert.Equal(t, "failed to load schema x.json: boom", err.Error())
}
