package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the resolved file system locations used by the binaries.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// ResolvePaths turns the configured directories into absolute paths. Relative
// entries are joined onto BaseDir, which defaults to the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir %q: %w", base, err)
	}

	return &Paths{
		BaseDir:    abs,
		DataDir:    resolveAgainst(abs, c.Paths.DataDir, DefaultDataDir),
		ReportsDir: resolveAgainst(abs, c.Paths.ReportsDir, DefaultReportsDir),
		LogsDir:    resolveAgainst(abs, c.Paths.LogsDir, DefaultLogsDir),
	}, nil
}

func resolveAgainst(base, path, fallback string) string {
	if strings.TrimSpace(path) == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.DataDir, p.ReportsDir, p.LogsDir}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		))
}
