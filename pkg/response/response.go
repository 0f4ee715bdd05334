package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SuccessBody is the uniform success envelope.
type SuccessBody[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the uniform error envelope. Message is always an array so
// validation responses and single-message errors share one shape.
type ErrorBody struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    []string    `json:"message"`
	Errors     interface{} `json:"errors,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Success writes a success envelope with the given status.
func Success[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, SuccessBody[T]{Success: true, Data: data, Message: message})
}

// Error writes an error envelope with the given status. details lands in the
// errors field (validation uses a field->message map).
func Error(c *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, errBody(c, status, message, details))
}

// AbortError writes the error envelope and aborts the handler chain. Used by
// middleware.
func AbortError(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, errBody(c, status, message, details))
}

func errBody(c *gin.Context, status int, message string, details interface{}) ErrorBody {
	return ErrorBody{
		Success:    false,
		StatusCode: status,
		Message:    []string{message},
		Errors:     details,
		Timestamp:  time.Now().UTC(),
		RequestID:  c.GetString("request_id"),
	}
}
