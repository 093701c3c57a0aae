// Package api contains the HTTP request and response contracts of the
// transformer dashboard API, version v1.
package api

import (
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// MaxDemoCount caps the synthetic dataset size a client may request.
const MaxDemoCount = 10000

// DemoRequest asks for a generated dataset. A zero count uses the configured
// default; a nil seed uses the configured seed or a time-based one.
type DemoRequest struct {
	Count int    `json:"count" validate:"omitempty,min=1,max=10000"`
	Seed  *int64 `json:"seed,omitempty"`
}

// SheetsImportRequest imports a dataset from a Google Sheets spreadsheet.
// Range uses A1 notation and defaults to the first sheet.
type SheetsImportRequest struct {
	SpreadsheetID string `json:"spreadsheetId" validate:"required,min=10,max=200,sheetid"`
	Range         string `json:"range,omitempty" validate:"max=200"`
}

// DatasetResponse describes the current dataset.
type DatasetResponse struct {
	Dataset  domain.DatasetInfo `json:"dataset"`
	Rejected map[string]int     `json:"rejectedByReason,omitempty"`
}

// TransformersResponse is a filtered view of the current dataset.
type TransformersResponse struct {
	Items    []domain.TransformerRecord `json:"items"`
	Total    int                        `json:"total"`
	Filtered int                        `json:"filtered"`
}

// DiagnosticsResponse lists the row diagnostics of the last load.
type DiagnosticsResponse struct {
	Dataset     domain.DatasetInfo     `json:"dataset"`
	Rejected    map[string]int         `json:"rejectedByReason"`
	Diagnostics []domain.RowDiagnostic `json:"diagnostics"`
}
