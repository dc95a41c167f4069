package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// APIResponse is the envelope every register endpoint answers with
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains metadata about the response
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) *Meta {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func send(c *gin.Context, statusCode int, body APIResponse) {
	body.Meta = newMeta(c)
	c.JSON(statusCode, body)
}

// SuccessWithPagination sends one page of a listing
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	send(c, statusCode, APIResponse{Success: true, Message: message, Data: result})
}

// Error maps err onto its application error. Field errors go out as a
// validation response so the client can highlight the offending inputs.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if len(appErr.Errors) > 0 {
		ValidationError(c, appErr.Message, appErr.Errors)
		return
	}
	ErrorWithCode(c, appErr.Code, appErr.Message)
}

// ErrorWithCode sends a failure with no field detail
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	send(c, statusCode, APIResponse{Success: false, Message: message})
}

// ValidationError sends a 422 listing every rejected field
func ValidationError(c *gin.Context, message string, fieldErrors []apperror.FieldError) {
	if message == "" {
		message = "Validation failed"
	}
	send(c, http.StatusUnprocessableEntity, APIResponse{Success: false, Message: message, Errors: fieldErrors})
}

func Created(c *gin.Context, message string, data interface{}) {
	send(c, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

func OK(c *gin.Context, message string, data interface{}) {
	send(c, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NotFound answers requests for routes the register API does not serve
func NotFound(c *gin.Context) {
	ErrorWithCode(c, http.StatusNotFound, "No route for "+c.Request.Method+" "+c.Request.URL.Path)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, message)
}
