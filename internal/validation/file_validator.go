package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
)

// FileValidator checks survey files before they reach the decoders. The HTTP
// upload path and the batch processor share it.
type FileValidator struct {
	logger     *slog.Logger
	extensions map[string]bool
	maxBytes   int64
}

// NewFileValidator creates a validator for the configured upload rules.
// Extensions are compared case-insensitively.
func NewFileValidator(logger *slog.Logger, cfg config.UploadConfig) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			exts[ext] = true
		}
	}
	return &FileValidator{
		logger:     logger,
		extensions: exts,
		maxBytes:   cfg.MaxBytes,
	}
}

// Accepts reports whether the file name carries an allowed extension and is
// not an Office lock file.
func (v *FileValidator) Accepts(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	return v.extensions[strings.ToLower(filepath.Ext(base))]
}

// ValidateUpload checks an uploaded file's name and declared size. A negative
// size means unknown and skips the size checks.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return apperrors.NewAppValidationError("file name is required")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !v.extensions[ext] {
		v.logger.Warn("Rejected upload extension",
			slog.String("file", filename),
			slog.String("extension", ext))
		return apperrors.NewUnsupportedFileTypeError(ext)
	}

	switch {
	case size == 0:
		return apperrors.ErrEmptyUpload
	case v.maxBytes > 0 && size > v.maxBytes:
		v.logger.Warn("Rejected oversized upload",
			slog.String("file", filename),
			slog.Int64("size", size),
			slog.Int64("max_bytes", v.maxBytes))
		return (&apperrors.AppError{
			Type:    apperrors.ErrFileTooLarge.Type,
			Code:    apperrors.ErrFileTooLarge.Code,
			Message: fmt.Sprintf("file exceeds the %d byte limit", v.maxBytes),
		}).WithContext("size", size)
	}

	return nil
}

// MaxBytes returns the configured upload limit.
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateInputDirectory validates that the input directory exists
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Info("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ListInputFiles returns the accepted survey files directly inside dir,
// sorted by name. Subdirectories are not walked.
func (v *FileValidator) ListInputFiles(dir string) ([]string, error) {
	if err := v.ValidateInputDirectory(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !v.Accepts(e.Name()) {
			v.logger.Debug("Skipping file",
				slog.String("file", e.Name()))
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		v.logger.Warn("No survey files found",
			slog.String("directory", dir))
	} else {
		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", len(files)))
	}
	return files, nil
}
