package tooling

import (
	"encoding/json"
	"fmt"

	invopopSchema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// GenerateSchema generates a JSON Schema string from a Go struct using
// invopop/jsonschema reflection. Used for internal request envelopes; the
// advertised tool descriptors carry hand-written schemas because their wire
// shape is fixed.
func GenerateSchema(input any) (string, error) {
	reflector := invopopSchema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaBytes, err := json.MarshalIndent(reflector.Reflect(input), "", "  ")
	if err != nil {
		return "", fmt.Errorf("schema marshal: %w", err)
	}
	return string(schemaBytes), nil
}

// CompileSchema compiles a JSON Schema string for repeated validation.
func CompileSchema(schemaStr string) (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString("", schemaStr)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return schema, nil
}

// ValidateAgainstSchema validates JSON input against a compiled schema.
func ValidateAgainstSchema(input json.RawMessage, schema *jsonschema.Schema) error {
	var inputData any
	if err := json.Unmarshal(input, &inputData); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	if err := schema.Validate(inputData); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
