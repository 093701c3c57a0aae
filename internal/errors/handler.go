package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Common error types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeServiceDown      = "/errors/service-unavailable"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
	TypeUnsupportedMedia = "/errors/unsupported-media-type"
)

// Domain-specific error types
const (
	TypeUnreadableFile  = "/errors/dataset/unreadable-file"
	TypeUnsupportedFile = "/errors/dataset/unsupported-file"
	TypeNoDataset       = "/errors/dataset/not-loaded"
	TypeUpstream        = "/errors/upstream"
	TypeStorage         = "/errors/storage"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if reqID != "" {
		problem.WithExtension("trace_id", reqID)
	}
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			"The request body exceeds the maximum allowed size",
			r.URL.Path,
		).WithExtension("limit", maxBytesErr.Limit)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// appErrorToProblem maps application error types onto HTTP semantics
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	var problem *ProblemDetails

	switch {
	case errors.Is(appErr, ErrUnreadableFile):
		problem = NewProblemDetails(http.StatusUnprocessableEntity, TypeUnreadableFile,
			"Unreadable File", appErr.Message, r.URL.Path)
	case errors.Is(appErr, ErrFileTooLarge):
		problem = NewProblemDetails(http.StatusRequestEntityTooLarge, TypePayloadTooLarge,
			"Payload Too Large", appErr.Message, r.URL.Path)
	case errors.Is(appErr, ErrUnsupportedFileType):
		problem = NewProblemDetails(http.StatusUnsupportedMediaType, TypeUnsupportedFile,
			"Unsupported File Type", appErr.Message, r.URL.Path)
	case errors.Is(appErr, ErrNoDataset):
		problem = NewProblemDetails(http.StatusNotFound, TypeNoDataset,
			"No Dataset Loaded", "Upload a file or generate demo data first", r.URL.Path)
	case errors.Is(appErr, ErrSheetsUnavailable):
		problem = NewProblemDetails(http.StatusServiceUnavailable, TypeServiceDown,
			"Service Unavailable", appErr.Message, r.URL.Path)
	default:
		switch appErr.Type {
		case ErrTypeValidation:
			problem = NewProblemDetails(http.StatusBadRequest, TypeValidation,
				"Validation Failed", appErr.Message, r.URL.Path)
		case ErrTypeParsing:
			problem = NewProblemDetails(http.StatusUnprocessableEntity, TypeUnreadableFile,
				"Unprocessable Entity", appErr.Message, r.URL.Path)
		case ErrTypeNotFound:
			problem = NewProblemDetails(http.StatusNotFound, TypeNotFound,
				"Resource Not Found", appErr.Message, r.URL.Path)
		case ErrTypeNetwork:
			problem = NewProblemDetails(http.StatusBadGateway, TypeUpstream,
				"Upstream Error", appErr.Message, r.URL.Path)
		case ErrTypeStorage:
			problem = NewProblemDetails(http.StatusInternalServerError, TypeStorage,
				"Storage Error", "The dataset store failed", r.URL.Path)
		default:
			problem = NewProblemDetails(http.StatusInternalServerError, TypeInternal,
				"Internal Server Error", "An unexpected error occurred while processing your request", r.URL.Path)
		}
	}

	if appErr.Code != "" {
		problem.WithExtension("error_code", appErr.Code)
	}
	return problem
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "MISSING_PARAMETER":
		problemType = TypeValidation
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	case "PAYLOAD_TOO_LARGE":
		problemType = TypePayloadTooLarge
	case "SERVICE_UNAVAILABLE":
		problemType = TypeServiceDown
	case "UNSUPPORTED_MEDIA_TYPE":
		problemType = TypeUnsupportedMedia
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// Middleware recovers panics raised by downstream handlers
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.HandlePanic(w, r, rec)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
