package models

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status    string            `json:"status"`
	Data      any               `json:"data"`
	Message   string            `json:"message"`
	ErrorCode string            `json:"errorCode,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// SuccessResponse builds a success envelope.
func SuccessResponse(message string, data any) Response {
	return Response{
		Status:  StatusSuccess,
		Data:    data,
		Message: message,
	}
}

// ErrorResponse builds an error envelope. fieldErrors may be nil.
func ErrorResponse(code, message string, fieldErrors map[string]string) Response {
	return Response{
		Status:    StatusError,
		Message:   message,
		ErrorCode: code,
		Errors:    fieldErrors,
	}
}
