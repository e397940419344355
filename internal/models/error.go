package models

// ErrorResponse is the error body every storefront endpoint may return.
// Message is human-readable and surfaced verbatim by the client.
type ErrorResponse struct {
	Message string `json:"message"`
}
