// Package utils carries the response envelope every HTTP handler of the
// booking service writes. The shape is part of the wire contract with the web
// frontend: it reads success/message first and only then looks at data or
// error, so the envelope never varies per endpoint.
package utils

import "time"

// APIResponse is the uniform envelope. Data carries the endpoint payload on
// success; Error carries the diagnostic detail on failure. Both are omitted
// when empty so the two shapes never mix.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ErrorResponse pairs the user-facing message with the underlying detail. The
// message is what frontends display; the detail is for operators reading
// responses in logs or curl.
func ErrorResponse(message, detail string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: time.Now(),
	}
}
