package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a request-level failure that already knows its HTTP status.
// Handlers return it for problems with the request itself; failures of the
// pipeline travel as *AppError instead.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError names one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a failed struct validation.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying a details payload.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	e := New(statusCode, errorCode, message)
	e.Details = details
	return e
}

// Request errors shared by the handlers.
var (
	ErrMissingFile       = NewWithDetails(http.StatusBadRequest, "MISSING_PARAMETER", "multipart field \"file\" is required", "file")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
)

// InvalidRequestWithError reports a body that could not be decoded.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ErrValidation reports a single invalid field or query parameter.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed",
		ValidationError{Field: field, Message: message})
}

// NewValidationErrors reports every field a struct validation rejected.
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed",
		ValidationErrors{Errors: errs})
}

// ErrUnsupportedMediaType reports a request body in a content type the
// endpoint does not read.
func ErrUnsupportedMediaType(contentType string, allowed []string) *APIError {
	return NewWithDetails(http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
		fmt.Sprintf("Unsupported content type %q", contentType),
		map[string]interface{}{
			"content_type": contentType,
			"allowed":      allowed,
		})
}
