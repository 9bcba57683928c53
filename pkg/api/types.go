package api

// Banner is the body of GET /.
const Banner = "Todo API (todod)"

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int64  `json:"uptime"`
	Items  int    `json:"items"`
}

// Error messages returned to clients.
const (
	msgInvalidJSON     = "Invalid JSON"
	msgInvalidID       = "Invalid id"
	msgNotFound        = "Not found"
	msgTodoNotFound    = "Todo not found"
	msgPayloadTooLarge = "Payload too large"
	msgInternal        = "Internal server error"
)
