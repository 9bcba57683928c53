package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Embedded schema names.
const (
	SchemaCreate = "create.json"
	SchemaUpdate = "update.json"
)

// BodyValidator validates decoded JSON request bodies against one schema.
type BodyValidator struct {
	name     string
	schema   *jsonschema.Schema
	required []string
}

// NewBodyValidator compiles a JSON Schema document.
// Fields listed under "required" are checked for presence before the schema
// runs so that a missing field is reported as such rather than as a schema error.
func NewBodyValidator(name string, schemaJSON []byte) (*BodyValidator, error) {
	var head struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(schemaJSON, &head); err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(name, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	return &BodyValidator{name: name, schema: schema, required: head.Required}, nil
}

// NewEmbeddedValidator compiles one of the schemas shipped with the package.
func NewEmbeddedValidator(name string) (*BodyValidator, error) {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %s: %w", name, err)
	}
	return NewBodyValidator(name, data)
}

// MustCreateValidator returns the validator for create request bodies.
func MustCreateValidator() *BodyValidator { return mustEmbedded(SchemaCreate) }

// MustUpdateValidator returns the validator for update request bodies.
func MustUpdateValidator() *BodyValidator { return mustEmbedded(SchemaUpdate) }

func mustEmbedded(name string) *BodyValidator {
	v, err := NewEmbeddedValidator(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the schema name the validator was built from.
func (v *BodyValidator) Name() string {
	return v.name
}

// Validate checks body. Required fields are reported first; schema errors
// are only collected when every required field is present.
func (v *BodyValidator) Validate(body map[string]any) *Result {
	result := &Result{Valid: true}

	for _, field := range v.required {
		if _, ok := body[field]; !ok {
			result.AddError(NewRequiredError(field))
		}
	}
	if result.HasErrors() {
		return result
	}

	if err := v.schema.Validate(body); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			parseSchemaErrors(validationErr, result)
		} else {
			result.AddError(&FieldError{
				Location: LocationBody,
				Code:     ErrCodeSchema,
				Message:  err.Error(),
			})
		}
	}

	result.sortErrors()
	return result
}

// parseSchemaErrors extracts the leaf errors from a JSON Schema validation error.
func parseSchemaErrors(err *jsonschema.ValidationError, result *Result) {
	if len(err.Causes) == 0 {
		result.AddError(&FieldError{
			Field:    extractFieldFromPath(err.InstanceLocation),
			Location: LocationBody,
			Code:     ErrCodeSchema,
			Message:  err.Message,
		})
		return
	}

	for _, cause := range err.Causes {
		parseSchemaErrors(cause, result)
	}
}

// extractFieldFromPath converts a JSON Pointer to dot notation.
func extractFieldFromPath(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	path = strings.TrimPrefix(path, "/")
	return strings.ReplaceAll(path, "/", ".")
}
