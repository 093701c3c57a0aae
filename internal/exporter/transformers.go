package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// TransformerHeaders is the export column order. Names match the JSON
// field names of domain.TransformerRecord.
var TransformerHeaders = []string{
	"id",
	"location",
	"kva",
	"peakLoadPercent",
	"endVoltage",
	"voltageDropPercent",
	"systemLoss",
	"phaseCount",
	"unbalancePercent",
	"status",
}

// SourceHeader prefixes combined exports that merge several input files.
const SourceHeader = "source"

// SourceRecords groups the records extracted from one input.
type SourceRecords struct {
	Source  string
	Records []domain.TransformerRecord
}

// TransformerExporter writes transformer datasets as CSV files.
type TransformerExporter struct {
	csvWriter *CSVWriter
}

// NewTransformerExporter creates an exporter rooted at the reports directory.
func NewTransformerExporter(paths *config.Paths, logger *slog.Logger) *TransformerExporter {
	return &TransformerExporter{csvWriter: NewCSVWriter(paths, logger)}
}

// ExportFile writes one dataset to filePath.
func (e *TransformerExporter) ExportFile(records []domain.TransformerRecord, filePath string) error {
	if err := e.csvWriter.WriteSimpleCSV(filePath, TransformerHeaders, RecordsToRows(records)); err != nil {
		return fmt.Errorf("failed to export transformers to %s: %w", filePath, err)
	}
	return nil
}

// ExportCombined streams every group into a single file, tagging each row
// with its source. Groups are written in the order given.
func (e *TransformerExporter) ExportCombined(groups []SourceRecords, filePath string) (int, error) {
	headers := append([]string{SourceHeader}, TransformerHeaders...)
	stream, err := e.csvWriter.CreateStreamWriter(filePath, headers)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, g := range groups {
		for _, r := range g.Records {
			if err := stream.WriteRecord(append([]string{g.Source}, RecordToRow(r)...)); err != nil {
				stream.Close()
				return written, fmt.Errorf("failed to write %s row %d: %w", g.Source, written, err)
			}
			written++
		}
	}

	return written, stream.Close()
}

// WriteTransformersCSV writes a BOM-prefixed CSV export to w.
func WriteTransformersCSV(w io.Writer, records []domain.TransformerRecord) error {
	return EncodeCSV(w, TransformerHeaders, RecordsToRows(records), true)
}

// RecordsToRows converts records into CSV rows in input order.
func RecordsToRows(records []domain.TransformerRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, RecordToRow(r))
	}
	return rows
}

// RecordToRow converts a record into a CSV row following TransformerHeaders.
func RecordToRow(r domain.TransformerRecord) []string {
	return []string{
		r.ID,
		r.Location,
		formatFloat(r.RatedCapacityKVA),
		formatFloat(r.PeakLoadPercent),
		formatFloat(r.EndVoltage),
		formatFloat(r.VoltageDropPercent),
		formatFloat(r.SystemLoss),
		formatInt(r.PhaseCount),
		formatFloat(r.UnbalancePercent),
		string(r.Status),
	}
}
