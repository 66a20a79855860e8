package response

import (
	"net/http"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Errors   interface{} `json:"errors,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// requestID prefers the ID the logger middleware assigned.
func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

func write(c *gin.Context, status int, resp APIResponse) {
	resp.Meta = &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID(c),
	}
	c.JSON(status, resp)
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	write(c, statusCode, APIResponse{Success: true, Message: message, Data: data})
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// OKWithWarning is a 200 whose side effect (a print, a notification) did
// not go through.
func OKWithWarning(c *gin.Context, message string, data interface{}, warning string) {
	write(c, http.StatusOK, APIResponse{
		Success:  true,
		Message:  message,
		Data:     data,
		Warnings: []string{warning},
	})
}

// Page answers with one page of a list and its pagination block.
func Page[T any](c *gin.Context, message string, result *pagination.PaginatedResult[T]) {
	Success(c, http.StatusOK, message, result)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps err to its AppError status. Anything that is not an AppError
// is attached to the context, so the request logger records the cause,
// and answered as a bare 500.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp := APIResponse{Message: appErr.Message}
	if len(appErr.Errors) > 0 {
		resp.Errors = appErr.Errors
	}
	write(c, appErr.Code, resp)
}

func ValidationError(c *gin.Context, fields []apperror.FieldError) {
	write(c, http.StatusUnprocessableEntity, APIResponse{
		Message: "Validation failed",
		Errors:  fields,
	})
}

func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, APIResponse{Message: message})
}
