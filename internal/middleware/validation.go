package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/tomtap1997/dashbord-tr/internal/errors"
)

// ValidationMiddleware provides request validation using struct tags
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodySize  int64
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	_ = v.RegisterValidation("sheetid", isSpreadsheetID)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationMiddleware{
		validator:    v,
		logger:       logger.With(slog.String("component", "validation_middleware")),
		errorHandler: errorHandler,
		maxBodySize:  1 << 20,
	}
}

// DecodeAndValidate reads a JSON body into dst and validates it. An empty
// body leaves dst at its zero value, which is then validated as is.
func (m *ValidationMiddleware) DecodeAndValidate(r *http.Request, dst interface{}) error {
	if r.Body != nil && r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, m.maxBodySize)
		if err := render.DecodeJSON(r.Body, dst); err != nil && !errors.Is(err, io.EOF) {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return err
			}
			m.logger.DebugContext(r.Context(), "invalid request body",
				slog.String("error", err.Error()),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			return apierrors.InvalidRequestWithError(err)
		}
	}
	return m.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (m *ValidationMiddleware) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// ContentTypeValidator ensures requests have proper content type
func ContentTypeValidator(errorHandler *apierrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apierrors.ErrUnsupportedMediaType(contentType, contentTypes))
		})
	}
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "sheetid":
		return fmt.Sprintf("%s must be a Google Sheets spreadsheet ID", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isSpreadsheetID accepts the URL-safe alphabet Google uses for document IDs.
func isSpreadsheetID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" {
		return false
	}
	for _, ch := range id {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
		default:
			return false
		}
	}
	return true
}

// QueryParamValidator validates query parameters
type QueryParamValidator struct {
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	return &QueryParamValidator{errorHandler: errorHandler}
}

// ValidateEnum validates an enum query parameter case-insensitively and
// returns the canonical allowed value.
func (v *QueryParamValidator) ValidateEnum(w http.ResponseWriter, r *http.Request, param string, allowed []string, defaultValue string) (string, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return defaultValue, true
	}

	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a, true
		}
	}

	v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, fmt.Sprintf("%s must be one of: %s", param, strings.Join(allowed, ", "))))
	return "", false
}
