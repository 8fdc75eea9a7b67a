package types

// ErrorBody is the error payload the storefront backend sends with non-2xx responses.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// MessageBody is the bare acknowledgement returned by several endpoints.
type MessageBody struct {
	Message string `json:"message"`
}
