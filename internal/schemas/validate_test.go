package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/manuscript-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for name, schema := range map[string]string{"config": ConfigSchema, "session": SessionSchema} {
		t.Run(name, func(t *testing.T) {
			var v map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(schema), &v))
			assert.Contains(t, v, "$schema")
			assert.Contains(t, v, "properties")
		})
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	err := ValidateConfig([]byte(`{"model": "pro", "port": 8080, "failure_policy": "block", "verbose": true}`))
	assert.NoError(t, err)
}

func TestValidateConfig_Invalid(t *testing.T) {
	err := ValidateConfig([]byte(`{"port": "eighty", "failure_policy": "retry", "unknown": 1}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 3)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateConfig_Malformed(t *testing.T) {
	err := ValidateConfig([]byte(`{"model": `))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output_dir": "out"}`), 0o644))
	assert.NoError(t, ValidateConfigFile(path))

	err := ValidateConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateSession_Snapshot(t *testing.T) {
	s := types.NewSession()
	assert.NoError(t, ValidateSession(s.Snapshot()))

	s.Stage = types.StageReview
	s.RawDraft = "draft"
	s.SelectedTitle = "T"
	s.CandidateTitles = types.Ready("titles")
	s.PrePaper = types.Failed("quota exceeded")
	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.NoError(t, ValidateSession(data))
}

func TestValidateSession_Invalid(t *testing.T) {
	err := ValidateSession(`{"stage": "publish", "stage_number": 9}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{"name": 1}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "port", Message: "Invalid type"}}}
	assert.Equal(t, "validation failed:\n  1. port: Invalid type\n", err.Error())
}
