package validation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// LoadDocument parses and validates an OpenAPI 3 document (YAML or JSON).
func LoadDocument(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// OpenAPIValidator checks responses against an OpenAPI document.
type OpenAPIValidator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewOpenAPIValidator builds a validator for an already loaded document.
func NewOpenAPIValidator(doc *openapi3.T) (*OpenAPIValidator, error) {
	if doc == nil {
		return nil, errors.New("OpenAPI document is required")
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	return &OpenAPIValidator{doc: doc, router: router}, nil
}

// Document returns the underlying OpenAPI document.
func (v *OpenAPIValidator) Document() *openapi3.T {
	return v.doc
}

// ValidateResponse validates a response produced for r.
func (v *OpenAPIValidator) ValidateResponse(r *http.Request, status int, headers http.Header, body []byte) *Result {
	result := &Result{Valid: true}

	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		result.AddError(&FieldError{
			Location: LocationResponse,
			Code:     ErrCodeNoRoute,
			Message:  fmt.Sprintf("no matching route found: %s", err.Error()),
		})
		return result
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
		},
		Status: status,
		Header: headers,
		Options: &openapi3filter.Options{
			MultiError:            true,
			IncludeResponseStatus: true,
		},
	}
	input.SetBodyBytes(body)

	if err := openapi3filter.ValidateResponse(r.Context(), input); err != nil {
		parseOpenAPIErrors(err, result)
	}
	return result
}

// parseOpenAPIErrors converts kin-openapi errors to FieldErrors.
func parseOpenAPIErrors(err error, result *Result) {
	var multiErr openapi3.MultiError
	if errors.As(err, &multiErr) {
		for _, e := range multiErr {
			parseOpenAPIErrors(e, result)
		}
		return
	}

	fe := &FieldError{
		Location: LocationResponse,
		Code:     ErrCodeOpenAPI,
		Message:  err.Error(),
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		fe.Field = formatJSONPath(schemaErr.JSONPointer())
		fe.Message = schemaErr.Reason
		fe.Code = ErrCodeSchema
	}

	result.AddError(fe)
}

// formatJSONPath converts ["items", "0", "id"] to $.items[0].id.
func formatJSONPath(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("$")
	for _, part := range parts {
		if part == "" {
			continue
		}
		if isNumeric(part) {
			sb.WriteString("[" + part + "]")
		} else {
			sb.WriteString("." + part)
		}
	}
	return sb.String()
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
