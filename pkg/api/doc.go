// Package api serves the todo HTTP API.
//
// Routes:
//
//	GET    /              plain-text banner
//	GET    /todos         list all items
//	POST   /todos         create an item (201 + Location)
//	GET    /todos/{id}    fetch one item
//	PUT    /todos/{id}    partially update an item
//	DELETE /todos/{id}    delete an item (204)
//	GET    /healthz       liveness and item count
//	GET    /metrics       Prometheus text exposition
//	GET    /openapi.json  OpenAPI document (also /openapi.yaml)
//
// Errors are JSON objects of the form {"error": "...", "details": "..."}.
// Handler panics are recovered and answered with 500.
package api
