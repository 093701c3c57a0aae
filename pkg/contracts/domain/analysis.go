package domain

import "time"

// StatusSlice is one wedge of the status pie chart.
type StatusSlice struct {
	Name   string            `json:"name"`
	Status TransformerStatus `json:"status"`
	Value  int               `json:"value"`
	Color  string            `json:"color"`
}

// ScatterPoint plots peak load against voltage drop, sized by capacity.
type ScatterPoint struct {
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Z      float64           `json:"z"`
	Name   string            `json:"name"`
	Status TransformerStatus `json:"status"`
}

// Summary aggregates a dataset for the dashboard cards and charts.
type Summary struct {
	Total                  int            `json:"total"`
	Critical               int            `json:"critical"`
	Warning                int            `json:"warning"`
	Normal                 int            `json:"normal"`
	AverageLoad            float64        `json:"avgLoad"`
	MedianLoad             float64        `json:"medianLoad"`
	P95Load                float64        `json:"p95Load"`
	TotalLoss              float64        `json:"totalLoss"`
	UnbalanceIssues        int            `json:"unbalanceIssues"`
	LoadVoltageCorrelation float64        `json:"loadVoltageCorrelation"`
	StatusDistribution     []StatusSlice  `json:"statusDistribution"`
	LoadVoltagePoints      []ScatterPoint `json:"loadVoltagePoints"`
}

// FilterCriteria selects rows for the transformer table.
type FilterCriteria struct {
	// Status is "", "ALL", a status name, or "UNBALANCE".
	Status string `json:"status,omitempty" validate:"omitempty,oneof=ALL all NORMAL Normal normal WARNING Warning warning CRITICAL Critical critical UNBALANCE unbalance"`
	Query  string `json:"q,omitempty" validate:"max=200"`
}

// BriefCounts is the headline block of a Brief.
type BriefCounts struct {
	TotalTransformers      int `json:"totalTransformers"`
	CriticalCount          int `json:"criticalCount"`
	WarningCount           int `json:"warningCount"`
	UnbalanceCriticalCount int `json:"unbalanceCriticalCount"`
}

// CriticalItem is a compact view of an overloaded transformer.
type CriticalItem struct {
	ID                 string  `json:"id"`
	PeakLoadPercent    float64 `json:"load"`
	VoltageDropPercent float64 `json:"voltageDrop"`
	Location           string  `json:"location"`
}

// UnbalanceItem is a compact view of an unbalanced transformer.
type UnbalanceItem struct {
	ID               string  `json:"id"`
	PeakLoadPercent  float64 `json:"load"`
	UnbalancePercent float64 `json:"unbalance"`
}

// LossItem is a compact view of a high-loss transformer.
type LossItem struct {
	ID         string  `json:"id"`
	SystemLoss float64 `json:"loss"`
	Location   string  `json:"location"`
}

// Brief is the condensed payload handed to report writers.
type Brief struct {
	Summary                BriefCounts     `json:"summary"`
	CriticalTransformers   []CriticalItem  `json:"criticalTransformers"`
	UnbalancedTransformers []UnbalanceItem `json:"unbalancedTransformers"`
	HighLossTransformers   []LossItem      `json:"highLossTransformers"`
	GeneratedAt            time.Time       `json:"generatedAt"`
}

// DatasetSource names where a dataset came from.
type DatasetSource string

const (
	SourceUpload    DatasetSource = "upload"
	SourceSynthetic DatasetSource = "synthetic"
	SourceSheets    DatasetSource = "sheets"
	SourceFile      DatasetSource = "file"
)

// DatasetInfo describes the dataset currently loaded.
type DatasetInfo struct {
	ID          string        `json:"id" db:"id"`
	Source      DatasetSource `json:"source" db:"source"`
	Name        string        `json:"name" db:"name"`
	Checksum    string        `json:"checksum" db:"checksum"`
	RecordCount int           `json:"recordCount" db:"record_count"`
	Rejected    int           `json:"rejectedRows" db:"rejected_rows"`
	LoadedAt    time.Time     `json:"loadedAt" db:"loaded_at"`
}

// DiagnosticReason explains why a row was dropped or a field defaulted.
type DiagnosticReason string

const (
	ReasonEmptyRow        DiagnosticReason = "empty_row"
	ReasonShortIdentifier DiagnosticReason = "short_identifier"
	ReasonReservedWord    DiagnosticReason = "reserved_word"
	ReasonNonCanonicalID  DiagnosticReason = "non_canonical_identifier"
	ReasonCoercedDefault  DiagnosticReason = "coerced_default"
)

// RowDiagnostic is one finding from a strict extraction. Row is 1-based to
// match what spreadsheet users see.
type RowDiagnostic struct {
	Row        int              `json:"row"`
	Identifier string           `json:"identifier,omitempty"`
	Reason     DiagnosticReason `json:"reason"`
	Field      string           `json:"field,omitempty"`
	Value      string           `json:"value,omitempty"`
}

// DropsRow reports whether the diagnostic removed the row from the output.
func (d RowDiagnostic) DropsRow() bool {
	return d.Reason != ReasonCoercedDefault
}
