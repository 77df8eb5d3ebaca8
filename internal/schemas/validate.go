// Package schemas provides JSON Schema validation for configuration files
// and session snapshots. The schemas are embedded at compile time.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ConfigSchema is the JSON Schema of the configuration file.
//
//go:embed config.schema.json
var ConfigSchema string

// SessionSchema is the JSON Schema of a session snapshot.
//
//go:embed session.schema.json
var SessionSchema string

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)", gojsonschema.NewStringLoader(schemaContent), gojsonschema.NewStringLoader(jsonContent))
}

// ValidateConfig validates configuration JSON against the embedded config schema.
func ValidateConfig(jsonContent []byte) error {
	return validate("config.schema.json", gojsonschema.NewStringLoader(ConfigSchema), gojsonschema.NewBytesLoader(jsonContent))
}

// ValidateSession validates a session snapshot (any JSON-marshalable value or
// raw JSON bytes) against the embedded session schema.
func ValidateSession(snapshot any) error {
	var doc gojsonschema.JSONLoader
	switch v := snapshot.(type) {
	case []byte:
		doc = gojsonschema.NewBytesLoader(v)
	case string:
		doc = gojsonschema.NewStringLoader(v)
	default:
		doc = gojsonschema.NewGoLoader(v)
	}
	return validate("session.schema.json", gojsonschema.NewStringLoader(SessionSchema), doc)
}

// ValidateConfigFile reads a configuration file and validates it.
func ValidateConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateConfig(data)
}

func validate(schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
