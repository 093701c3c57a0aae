package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// UnreadableFileMessage is shown to users whenever a workbook cannot be decoded.
const UnreadableFileMessage = "ไม่สามารถอ่านไฟล์ได้ กรุณาตรวจสอบว่าไฟล์ถูกต้อง (Excel/CSV)"

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches AppErrors that share a non-empty Code, so wrapped instances
// still compare equal to the package sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return t.Code != "" && t.Code == e.Code
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for the failures callers branch on.
var (
	ErrUnreadableFile      = &AppError{Type: ErrTypeParsing, Code: "UNREADABLE_FILE", Message: UnreadableFileMessage}
	ErrUnsupportedFileType = &AppError{Type: ErrTypeValidation, Code: "UNSUPPORTED_FILE_TYPE", Message: "unsupported file type"}
	ErrEmptyUpload         = &AppError{Type: ErrTypeValidation, Code: "EMPTY_UPLOAD", Message: "uploaded file is empty"}
	ErrFileTooLarge        = &AppError{Type: ErrTypeValidation, Code: "FILE_TOO_LARGE", Message: "payload too large"}
	ErrNoDataset           = &AppError{Type: ErrTypeNotFound, Code: "NO_DATASET", Message: "no dataset loaded"}
	ErrSheetsUnavailable   = &AppError{Type: ErrTypeConfig, Code: "SHEETS_UNAVAILABLE", Message: "google sheets import is not configured"}
)

// NewUnreadableFileError wraps a decoder failure in the single fatal
// extraction error.
func NewUnreadableFileError(filename string, cause error) *AppError {
	return (&AppError{
		Type:    ErrTypeParsing,
		Code:    ErrUnreadableFile.Code,
		Message: UnreadableFileMessage,
		Cause:   cause,
	}).WithContext("file", filename)
}

// NewUnsupportedFileTypeError reports an extension the decoders do not handle.
func NewUnsupportedFileTypeError(ext string) *AppError {
	return (&AppError{
		Type:    ErrTypeValidation,
		Code:    ErrUnsupportedFileType.Code,
		Message: fmt.Sprintf("unsupported file type %q", ext),
	}).WithContext("extension", ext)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
