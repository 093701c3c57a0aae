package dataprocessing

import (
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// Field names used in diagnostics, matching the record's JSON names.
const (
	FieldCapacity   = "kva"
	FieldPeakLoad   = "peakLoadPercent"
	FieldUnbalance  = "unbalancePercent"
	FieldEndVoltage = "endVoltage"
	FieldSystemLoss = "systemLoss"
)

// Extractor turns a survey sheet into transformer records. It holds no
// per-call state and is safe for concurrent use.
type Extractor struct {
	layout ColumnLayout
	filter RowFilter
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLayout overrides the column offsets.
func WithLayout(layout ColumnLayout) ExtractorOption {
	return func(e *Extractor) { e.layout = layout }
}

// WithReservedWords replaces the header denylist.
func WithReservedWords(words []string) ExtractorOption {
	return func(e *Extractor) { e.filter = NewRowFilter(words) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRand sets the source used for placeholder identifiers.
func WithRand(rng *rand.Rand) ExtractorOption {
	return func(e *Extractor) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// NewExtractor returns an extractor using the default survey layout.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		layout: DefaultColumnLayout(),
		filter: NewRowFilter(nil),
		logger: slog.Default(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewExtractorFromConfig builds an extractor from the extraction settings.
func NewExtractorFromConfig(cfg config.ExtractionConfig, logger *slog.Logger) (*Extractor, error) {
	layout := LayoutFromConfig(cfg)
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return NewExtractor(
		WithLayout(layout),
		WithReservedWords(cfg.ReservedWords),
		WithLogger(logger),
	), nil
}

// Layout returns the column layout in use.
func (e *Extractor) Layout() ColumnLayout {
	return e.layout
}

// ExtractionResult is the output of a strict extraction.
type ExtractionResult struct {
	Records     []domain.TransformerRecord `json:"records"`
	Diagnostics []domain.RowDiagnostic     `json:"diagnostics"`
	RowsScanned int                        `json:"rowsScanned"`
}

// Rejected counts dropped rows.
func (r ExtractionResult) Rejected() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.DropsRow() {
			n++
		}
	}
	return n
}

// RejectedByReason counts dropped rows per reason.
func (r ExtractionResult) RejectedByReason() map[string]int {
	counts := make(map[string]int)
	for _, d := range r.Diagnostics {
		if d.DropsRow() {
			counts[string(d.Reason)]++
		}
	}
	return counts
}

// Extract returns the transformer records found in sheet, in row order.
// Malformed rows are dropped and malformed cells take their defaults.
func (e *Extractor) Extract(sheet Sheet) []domain.TransformerRecord {
	return e.extract(sheet, nil)
}

// ExtractWorkbook extracts the first sheet of wb.
func (e *Extractor) ExtractWorkbook(wb Workbook) []domain.TransformerRecord {
	sheet, ok := wb.FirstSheet()
	if !ok {
		return []domain.TransformerRecord{}
	}
	return e.Extract(sheet)
}

// ExtractStrict returns the same records as Extract together with a
// diagnostic for every dropped row and every defaulted field.
func (e *Extractor) ExtractStrict(sheet Sheet) ExtractionResult {
	diags := make([]domain.RowDiagnostic, 0)
	records := e.extract(sheet, &diags)
	return ExtractionResult{
		Records:     records,
		Diagnostics: diags,
		RowsScanned: len(sheet.Rows),
	}
}

// ExtractWorkbookStrict is ExtractStrict over the first sheet of wb.
func (e *Extractor) ExtractWorkbookStrict(wb Workbook) ExtractionResult {
	sheet, _ := wb.FirstSheet()
	return e.ExtractStrict(sheet)
}

func (e *Extractor) extract(sheet Sheet, diags *[]domain.RowDiagnostic) []domain.TransformerRecord {
	records := make([]domain.TransformerRecord, 0, len(sheet.Rows))
	note := func(d domain.RowDiagnostic) {
		if diags != nil {
			*diags = append(*diags, d)
		}
	}

	rejected := 0
	for i, row := range sheet.Rows {
		rowNum := i + 1

		if len(row) == 0 || row.Blank() {
			rejected++
			note(domain.RowDiagnostic{Row: rowNum, Reason: domain.ReasonEmptyRow})
			continue
		}

		first := row.At(e.layout.ID)
		candidate := strings.TrimSpace(first.String())
		if reason := e.filter.Reason(candidate); reason != "" {
			rejected++
			note(domain.RowDiagnostic{Row: rowNum, Identifier: candidate, Reason: reason})
			continue
		}

		id := e.identifier(first)
		if utf8.RuneCountInString(id) < MinIdentifierLength {
			rejected++
			note(domain.RowDiagnostic{Row: rowNum, Identifier: candidate, Reason: domain.ReasonNonCanonicalID})
			continue
		}

		records = append(records, e.record(row, rowNum, id, note))
	}

	e.logger.Debug("extracted sheet",
		slog.String("sheet", sheet.Name),
		slog.Int("rows", len(sheet.Rows)),
		slog.Int("records", len(records)),
		slog.Int("rejected", rejected))

	return records
}

func (e *Extractor) record(row Row, rowNum int, id string, note func(domain.RowDiagnostic)) domain.TransformerRecord {
	number := func(field string, col int, def float64) float64 {
		cell := row.At(col)
		v, ok := coerceNumber(cell)
		if ok {
			return v
		}
		if !cell.IsBlank() {
			note(domain.RowDiagnostic{Row: rowNum, Identifier: id, Reason: domain.ReasonCoercedDefault, Field: field, Value: cell.String()})
		}
		return def
	}

	kva := number(FieldCapacity, e.layout.Capacity, 0)
	load := number(FieldPeakLoad, e.layout.PeakLoad, 0)
	unbalance := number(FieldUnbalance, e.layout.Unbalance, 0)
	voltage := number(FieldEndVoltage, e.layout.EndVoltage, domain.NominalVoltage)

	// Loss is only trusted when the cell is a native number.
	var loss float64
	if cell := row.At(e.layout.Loss); cell.Kind == CellNumber && !math.IsInf(cell.Number, 0) && !math.IsNaN(cell.Number) {
		loss = cell.Number
	} else if !cell.IsBlank() {
		note(domain.RowDiagnostic{Row: rowNum, Identifier: id, Reason: domain.ReasonCoercedDefault, Field: FieldSystemLoss, Value: cell.String()})
	}

	return domain.TransformerRecord{
		ID:                 id,
		Location:           e.location(row),
		RatedCapacityKVA:   kva,
		PeakLoadPercent:    load,
		EndVoltage:         voltage,
		VoltageDropPercent: domain.VoltageDropPercent(voltage),
		SystemLoss:         loss,
		PhaseCount:         domain.DefaultPhaseCount,
		UnbalancePercent:   unbalance,
		Status:             domain.ClassifyLoad(load),
	}
}

func (e *Extractor) location(row Row) string {
	if s := strings.TrimSpace(row.At(e.layout.Location).String()); s != "" {
		return s
	}
	if s := strings.TrimSpace(row.At(e.layout.LocationFallback).String()); s != "" {
		return s
	}
	return domain.UnspecifiedLocation
}

func (e *Extractor) identifier(c Cell) string {
	if c.IsEmpty() {
		e.mu.Lock()
		defer e.mu.Unlock()
		return PlaceholderIdentifier(e.rng)
	}
	return CanonicalizeIdentifier(c.String())
}
