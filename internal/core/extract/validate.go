package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/docsense/internal/common"
)

// BuildJSONSchema returns a JSON-Schema describing the output of Extract for
// schema: every field optional, leaves as strings shaped by their type, groups as
// closed objects.
func BuildJSONSchema(schema Schema) map[string]any {
	root := objectProp()
	for _, key := range schema.Keys() {
		parts := strings.Split(key, ".")
		cur := root
		for _, p := range parts[:len(parts)-1] {
			props := cur["properties"].(map[string]any)
			next, ok := props[p].(map[string]any)
			if !ok {
				next = objectProp()
				props[p] = next
			}
			cur = next
		}
		cur["properties"].(map[string]any)[parts[len(parts)-1]] = leafProp(schema[key].Type)
	}
	return root
}

func objectProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           map[string]any{},
	}
}

func leafProp(typ string) map[string]any {
	switch typ {
	case TypeNumber:
		return map[string]any{"type": "string", "pattern": `^-?\d+(\.\d+)?$`}
	case TypeCurrency:
		return map[string]any{"type": "string", "pattern": `^-?\d+\.\d{2}$`}
	case TypeEmail:
		return map[string]any{"type": "string", "pattern": `^[^@\s]+@[^@\s]+\.[^@\s]+$`}
	default:
		return map[string]any{"type": "string", "minLength": 1}
	}
}

// ValidateResult checks the output of Extract for schema against BuildJSONSchema.
func ValidateResult(schema Schema, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := validateJSON(BuildJSONSchema(schema), data); err != nil {
		return common.NewAppError(common.CodeValidation, "extraction result does not match schema", err)
	}
	return nil
}

// validateJSON compiles schemaMap and validates data against it.
func validateJSON(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// schemaFileMeta describes the document accepted by LoadSchemaFile.
func schemaFileMeta() map[string]any {
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"required":             []any{"schemas"},
		"additionalProperties": false,
		"properties": map[string]any{
			"schemas": map[string]any{
				"type":                 "object",
				"minProperties":        1,
				"additionalProperties": map[string]any{"$ref": "#/$defs/schema"},
			},
		},
		"$defs": map[string]any{
			"schema": map[string]any{
				"type":                 "object",
				"minProperties":        1,
				"additionalProperties": map[string]any{"$ref": "#/$defs/field"},
			},
			"field": map[string]any{
				"type":                 "object",
				"required":             []any{"type"},
				"additionalProperties": false,
				"properties": map[string]any{
					"type":    map[string]any{"type": "string", "enum": stringsToAny(fieldTypes)},
					"pattern": map[string]any{"type": "string"},
					"label":   map[string]any{"type": "string"},
				},
			},
		},
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
