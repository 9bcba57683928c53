package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/todod/pkg/validation"
)

//go:embed openapi.yaml
var openapiYAML []byte

// openapiDocument is the parsed API description and its JSON rendering.
type openapiDocument struct {
	doc  *openapi3.T
	json []byte
}

func loadOpenAPIDocument() (*openapiDocument, error) {
	doc, err := validation.LoadDocument(openapiYAML)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OpenAPI document: %w", err)
	}
	return &openapiDocument{doc: doc, json: data}, nil
}

// OpenAPI returns the API's OpenAPI document.
func (a *API) OpenAPI() *openapi3.T {
	return a.openapi.doc
}

// handleOpenAPIJSON handles GET /openapi.json.
func (a *API) handleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.openapi.json)
}

// handleOpenAPIYAML handles GET /openapi.yaml.
func (a *API) handleOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiYAML)
}
