package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tomtap1997/dashbord-tr/internal/config"
)

// logSink owns the process logger and the file it may write to.
type logSink struct {
	once   sync.Once
	logger *slog.Logger

	mu   sync.Mutex
	file *os.File
}

var sink = &logSink{}

// InitializeLogger builds the process logger from cfg and installs it as the
// slog default. Only the first call has any effect.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	sink.once.Do(func() {
		var w io.Writer
		w, err = sink.open(cfg)
		if err != nil {
			return
		}
		sink.logger = NewLogger(w, cfg)
		slog.SetDefault(sink.logger)
	})
	return sink.logger, err
}

// GetLogger returns the process logger, or slog.Default before
// InitializeLogger has run.
func GetLogger() *slog.Logger {
	if sink.logger == nil {
		return slog.Default()
	}
	return sink.logger
}

// NewLogger builds a logger writing to w. Records logged with a context carry
// the context's trace ID.
func NewLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Development,
		Level:     levelFromString(cfg.Level),
	}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(traceHandler{h})
}

// CloseLogFile closes the log file opened by InitializeLogger, if any.
func CloseLogFile() error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if sink.file == nil {
		return nil
	}
	err := sink.file.Close()
	sink.file = nil
	return err
}

// ResetLoggerForTesting lets a test initialize the logger again.
func ResetLoggerForTesting() {
	CloseLogFile()
	sink.logger = nil
	sink.once = sync.Once{}
}

// open picks the writer for cfg.Output: console, file or both.
func (s *logSink) open(cfg config.LoggingConfig) (io.Writer, error) {
	out := strings.ToLower(cfg.Output)
	if out != "file" && out != "both" {
		return os.Stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	s.mu.Lock()
	s.file = f
	s.mu.Unlock()

	if out == "both" {
		return io.MultiWriter(os.Stdout, f), nil
	}
	return f, nil
}

// traceHandler adds trace_id to every record whose context carries one.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}

// levelFromString maps a config level name; unknown names log at info.
func levelFromString(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
