package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tomtap1997/dashbord-tr/internal/config"
)

// utf8BOM makes Excel open UTF-8 CSV files with Thai text intact.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes CSV files relative to the configured reports directory.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. A nil paths value means
// relative file paths are used as given.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool
}

// EncodeCSV writes headers and records to w. The BOM is written first when
// requested.
func EncodeCSV(w io.Writer, headers []string, records [][]string, bom bool) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.ResolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	headers := options.Headers
	if options.Append {
		headers = nil
	}
	if err := EncodeCSV(file, headers, options.Records, options.BOMPrefix && !options.Append); err != nil {
		return err
	}
	return file.Sync()
}

// WriteSimpleCSV writes a BOM-prefixed CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter writes CSV rows one at a time.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a BOM-prefixed CSV file and writes the header row.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.ResolvePath(filePath)

	w.logger.Info("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// ResolvePath maps a relative file path into the reports directory.
func (w *CSVWriter) ResolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
