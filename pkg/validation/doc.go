// Package validation checks todo request bodies and the service's OpenAPI document.
//
// Request bodies are validated against embedded JSON Schemas (Draft 2020-12)
// compiled with santhosh-tekuri/jsonschema:
//
//	v := validation.MustCreateValidator()
//	result := v.Validate(body)
//	if !result.Valid {
//	    first := result.Errors[0]
//	    log.Printf("%s: %s", first.Field, first.Message)
//	}
//
// The OpenAPI document served by the API is loaded and checked with
// kin-openapi. An OpenAPIValidator built from the same document can verify
// that recorded responses match it.
package validation
