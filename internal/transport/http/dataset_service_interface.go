package http

import (
	"context"
	"io"

	"github.com/tomtap1997/dashbord-tr/internal/storage"
	api "github.com/tomtap1997/dashbord-tr/pkg/contracts/api/v1"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations the API exposes
type DatasetServiceInterface interface {
	LoadUpload(ctx context.Context, r io.Reader, filename string, size int64) (*storage.Dataset, error)
	LoadDemo(ctx context.Context, count int, seed *int64) (*storage.Dataset, error)
	LoadSheets(ctx context.Context, spreadsheetID, readRange string) (*storage.Dataset, error)

	DatasetInfo(ctx context.Context) (api.DatasetResponse, error)
	Transformers(ctx context.Context, criteria domain.FilterCriteria) (api.TransformersResponse, error)
	Summary(ctx context.Context) (domain.Summary, error)
	Brief(ctx context.Context) (domain.Brief, error)
	Diagnostics(ctx context.Context) (api.DiagnosticsResponse, error)

	ReportMarkdown(ctx context.Context) (string, error)
	ReportHTML(ctx context.Context) ([]byte, error)
	ExportCSV(ctx context.Context, w io.Writer) (*storage.Dataset, error)
	ExportXLSX(ctx context.Context, w io.Writer) (*storage.Dataset, error)
}
