package api

import "net/http"

// registerRoutes sets up all API routes.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleBanner)

	mux.HandleFunc("GET /todos", a.handleListTodos)
	mux.HandleFunc("POST /todos", a.handleCreateTodo)
	mux.HandleFunc("GET /todos/{id}", a.handleGetTodo)
	mux.HandleFunc("PUT /todos/{id}", a.handleUpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", a.handleDeleteTodo)

	mux.HandleFunc("GET /healthz", a.handleHealth)
	mux.Handle("GET /metrics", a.registry.Handler())
	mux.HandleFunc("GET /openapi.json", a.handleOpenAPIJSON)
	mux.HandleFunc("GET /openapi.yaml", a.handleOpenAPIYAML)

	// Everything else, including unsupported methods on known paths.
	mux.HandleFunc("/", a.handleNotFound)
}
