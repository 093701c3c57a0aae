package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("count must be positive"),
			want: "[VALIDATION] count must be positive",
		},
		{
			name: "with cause",
			err:  NewParsingError("decode failed", io.ErrUnexpectedEOF),
			want: "[PARSING] decode failed: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnreadableFileError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := NewUnreadableFileError("survey.xlsx", cause)

	assert.True(t, errors.Is(err, ErrUnreadableFile))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNoDataset))
	assert.Equal(t, UnreadableFileMessage, err.Message)
	assert.Equal(t, "survey.xlsx", err.Context["file"])

	wrapped := fmt.Errorf("load upload: %w", err)
	assert.True(t, errors.Is(wrapped, ErrUnreadableFile))

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppError_IsWithoutCode(t *testing.T) {
	a := NewStorageError("insert failed", nil)
	b := NewStorageError("insert failed", nil)

	assert.True(t, errors.Is(a, a))
	assert.False(t, errors.Is(a, b))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewUnsupportedFileTypeError(".pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))
	assert.Equal(t, ".pdf", err.Context["extension"])

	err = (&AppError{Type: ErrTypeConfig}).WithContext("key", "value")
	assert.Equal(t, "value", err.Context["key"])
}
