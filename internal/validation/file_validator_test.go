package validation

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
)

func newTestValidator() *FileValidator {
	return NewFileValidator(slog.Default(), config.UploadConfig{
		MaxBytes:   1024,
		Extensions: []string{".xlsx", ".XLSM", "xls", ".csv", " "},
	})
}

func TestFileValidator_ValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  *apperrors.AppError
		wantType apperrors.ErrorType
	}{
		{name: "xlsx accepted", filename: "survey.xlsx", size: 100},
		{name: "upper-case extension accepted", filename: "SURVEY.XLSX", size: 100},
		{name: "xlsm accepted", filename: "survey.xlsm", size: 100},
		{name: "legacy xls accepted", filename: "survey.xls", size: 100},
		{name: "csv accepted", filename: "survey.csv", size: 100},
		{name: "unknown size skips size checks", filename: "survey.csv", size: -1},
		{name: "exactly at limit", filename: "survey.csv", size: 1024},
		{name: "pdf rejected", filename: "survey.pdf", size: 100, wantErr: apperrors.ErrUnsupportedFileType},
		{name: "no extension rejected", filename: "survey", size: 100, wantErr: apperrors.ErrUnsupportedFileType},
		{name: "empty upload", filename: "survey.xlsx", size: 0, wantErr: apperrors.ErrEmptyUpload},
		{name: "too large", filename: "survey.xlsx", size: 1025, wantErr: apperrors.ErrFileTooLarge},
		{name: "blank name", filename: "  ", size: 100, wantType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestValidator().ValidateUpload(tt.filename, tt.size)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			case tt.wantType != "":
				var appErr *apperrors.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, tt.wantType, appErr.Type)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_Accepts(t *testing.T) {
	v := newTestValidator()

	assert.True(t, v.Accepts("a.xlsx"))
	assert.True(t, v.Accepts(filepath.Join("dir", "b.CSV")))
	assert.False(t, v.Accepts("~$a.xlsx"))
	assert.False(t, v.Accepts("notes.txt"))
	assert.Equal(t, int64(1024), v.MaxBytes())
}

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "test.txt")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestValidator().ValidateInputDirectory(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   bool
	}{
		{
			name: "existing directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "nested directory is created",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new", "nested", "dir")
			},
		},
		{
			name: "parent is a file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "blocker")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return filepath.Join(file, "out")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setupFunc(t)
			err := newTestValidator().ValidateOutputDirectory(dir)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
			assert.NoFileExists(t, filepath.Join(dir, ".write_test"))
		})
	}
}

func TestFileValidator_ListInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", "~$b.xlsx", "notes.txt", "c.XLSM"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.csv"), 0755))

	files, err := newTestValidator().ListInputFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.xlsx"),
		filepath.Join(dir, "c.XLSM"),
	}, files)

	empty, err := newTestValidator().ListInputFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = newTestValidator().ListInputFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
