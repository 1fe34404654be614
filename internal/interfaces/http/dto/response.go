package dto

// ErrorInfo carries a machine-readable error code and message
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the standard API response wrapper
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// OK wraps data in a success response
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Err wraps an error code and message in a failure response
func Err(code, message string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message}}
}

// Error codes used by the API
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidSignature = "INVALID_SIGNATURE"
	CodeNotFound         = "NOT_FOUND"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeInternal         = "INTERNAL_ERROR"
)
