package dto

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one rejected field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a validation error response carrying
// one detail per rejected field. The top-level message is the first
// field message so clients showing only `message` stay useful.
func NewValidationErrorResponse(requestID string, details []ValidationDetail) ErrorResponse {
	message := "Request validation failed"
	if len(details) > 0 {
		message = details[0].Message
	}
	resp := NewErrorResponse(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}

// MessageResponse is the `{message}` body of simple acknowledgements
type MessageResponse struct {
	Message string `json:"message"`
}

// NotFoundResponse is returned for unmatched routes
type NotFoundResponse struct {
	Message string `json:"message"`
}
