package response

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// Response is the envelope of every API answer.
//
//	success: {success: true, data: {...}, message, code: 200, request_id}
//	failure: {success: false, error: "ERROR_CODE", message, code: 4xx/5xx, field, request_id}
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Field     string      `json:"field,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}
