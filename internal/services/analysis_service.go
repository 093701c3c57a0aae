package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/dataprocessing"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/internal/exporter"
	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
	"github.com/tomtap1997/dashbord-tr/internal/storage"
	"github.com/tomtap1997/dashbord-tr/internal/synthetic"
	"github.com/tomtap1997/dashbord-tr/internal/validation"
	api "github.com/tomtap1997/dashbord-tr/pkg/contracts/api/v1"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/events"
)

const tracerName = "github.com/tomtap1997/dashbord-tr/internal/services"

// Broadcaster pushes dataset events to connected dashboards.
type Broadcaster interface {
	Broadcast(ctx context.Context, msgType events.MessageType, data interface{})
}

// SheetsFetcher reads a spreadsheet range as a workbook. The returned title
// names the dataset.
type SheetsFetcher interface {
	Fetch(ctx context.Context, spreadsheetID, readRange string) (dataprocessing.Workbook, string, error)
}

// AnalysisDeps are the collaborators of AnalysisService. Store, Extractor and
// Validator are required; the rest may be nil.
type AnalysisDeps struct {
	Store       storage.DatasetStore
	Extractor   *dataprocessing.Extractor
	Validator   *validation.FileValidator
	Sheets      SheetsFetcher
	Broadcaster Broadcaster
	Metrics     *infrastructure.PipelineMetrics
	Generator   config.GeneratorConfig
	Logger      *slog.Logger
	Now         func() time.Time
}

// AnalysisService loads transformer datasets and answers every dashboard
// query about the current one.
type AnalysisService struct {
	store       storage.DatasetStore
	extractor   *dataprocessing.Extractor
	validator   *validation.FileValidator
	sheets      SheetsFetcher
	broadcaster Broadcaster
	metrics     *infrastructure.PipelineMetrics
	genCfg      config.GeneratorConfig
	generator   *synthetic.Generator
	tracer      trace.Tracer
	logger      *slog.Logger
	now         func() time.Time
}

// NewAnalysisService creates the service.
func NewAnalysisService(deps AnalysisDeps) (*AnalysisService, error) {
	if deps.Store == nil || deps.Extractor == nil || deps.Validator == nil {
		return nil, fmt.Errorf("analysis service requires a store, an extractor and a validator")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	var gen *synthetic.Generator
	if deps.Generator.Seed != 0 {
		gen = synthetic.NewSeededGenerator(deps.Generator.Seed)
	} else {
		gen = synthetic.NewGenerator(nil)
	}

	return &AnalysisService{
		store:       deps.Store,
		extractor:   deps.Extractor,
		validator:   deps.Validator,
		sheets:      deps.Sheets,
		broadcaster: deps.Broadcaster,
		metrics:     deps.Metrics,
		genCfg:      deps.Generator,
		generator:   gen,
		tracer:      otel.Tracer(tracerName),
		logger:      deps.Logger.With(slog.String("component", "analysis_service")),
		now:         deps.Now,
	}, nil
}

// LoadUpload decodes an uploaded survey file, extracts it and makes it the
// current dataset. size is the declared upload size, or -1 when unknown.
func (s *AnalysisService) LoadUpload(ctx context.Context, r io.Reader, filename string, size int64) (*storage.Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.LoadUpload",
		trace.WithAttributes(attribute.String("file.name", filename), attribute.Int64("file.size", size)))
	defer span.End()

	return s.load(ctx, domain.SourceUpload, filename, func(ctx context.Context) (dataprocessing.ExtractionResult, error) {
		if err := s.validator.ValidateUpload(filename, size); err != nil {
			return dataprocessing.ExtractionResult{}, err
		}
		wb, err := dataprocessing.Decode(r, filename)
		if err != nil {
			return dataprocessing.ExtractionResult{}, err
		}
		return s.extractor.ExtractWorkbookStrict(wb), nil
	})
}

// LoadDemo replaces the current dataset with generated records. A zero count
// uses the configured count. With a seed the output is reproducible.
func (s *AnalysisService) LoadDemo(ctx context.Context, count int, seed *int64) (*storage.Dataset, error) {
	if count <= 0 {
		count = s.genCfg.Count
	}
	if count > api.MaxDemoCount {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("count must be at most %d", api.MaxDemoCount))
	}

	ctx, span := s.tracer.Start(ctx, "analysis.LoadDemo", trace.WithAttributes(attribute.Int("demo.count", count)))
	defer span.End()

	gen := s.generator
	if seed != nil {
		gen = synthetic.NewGenerator(rand.New(rand.NewSource(*seed)))
	}

	name := fmt.Sprintf("demo-%d", count)
	return s.load(ctx, domain.SourceSynthetic, name, func(context.Context) (dataprocessing.ExtractionResult, error) {
		records := gen.Generate(count)
		return dataprocessing.ExtractionResult{Records: records, RowsScanned: len(records)}, nil
	})
}

// LoadSheets imports a Google Sheets range. An empty range reads the first
// sheet.
func (s *AnalysisService) LoadSheets(ctx context.Context, spreadsheetID, readRange string) (*storage.Dataset, error) {
	if s.sheets == nil {
		return nil, apperrors.ErrSheetsUnavailable
	}

	ctx, span := s.tracer.Start(ctx, "analysis.LoadSheets",
		trace.WithAttributes(attribute.String("sheets.id", spreadsheetID), attribute.String("sheets.range", readRange)))
	defer span.End()

	var title string
	ds, err := s.load(ctx, domain.SourceSheets, spreadsheetID, func(ctx context.Context) (dataprocessing.ExtractionResult, error) {
		wb, t, err := s.sheets.Fetch(ctx, spreadsheetID, readRange)
		if err != nil {
			return dataprocessing.ExtractionResult{}, err
		}
		title = t
		return s.extractor.ExtractWorkbookStrict(wb), nil
	})
	if err != nil {
		return nil, err
	}
	if title != "" {
		s.logger.InfoContext(ctx, "Imported spreadsheet",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("sheet", title))
	}
	return ds, nil
}

// load runs one dataset load: produce, store, record metrics and notify.
// A failed load leaves the current dataset untouched.
func (s *AnalysisService) load(ctx context.Context, source domain.DatasetSource, name string, produce func(context.Context) (dataprocessing.ExtractionResult, error)) (*storage.Dataset, error) {
	start := time.Now()
	logger := s.logger.With(
		slog.String("source", string(source)),
		slog.String("name", name),
		slog.String("trace_id", infrastructure.GetTraceID(ctx)),
	)

	result, err := produce(ctx)
	if err == nil {
		ds := storage.NewDataset(source, name, result.Records, result.Diagnostics, s.now())
		if err = s.store.Save(ctx, ds); err == nil {
			critical, warning := countUrgent(ds.Records)
			s.metrics.RecordDatasetLoad(ctx, string(source), ds.RecordCount, critical, result.RejectedByReason(), time.Since(start), nil)

			logger.InfoContext(ctx, "Dataset loaded",
				slog.String("dataset_id", ds.ID),
				slog.Int("records", ds.RecordCount),
				slog.Int("rows_scanned", result.RowsScanned),
				slog.Int("rejected", ds.Rejected),
				slog.Duration("duration", time.Since(start)))

			if s.broadcaster != nil {
				s.broadcaster.Broadcast(ctx, events.MessageTypeDatasetLoaded, events.DatasetLoaded{
					Dataset:  ds.DatasetInfo,
					Critical: critical,
					Warning:  warning,
				})
			}
			return ds, nil
		}
	}

	infrastructure.RecordError(ctx, err)
	s.metrics.RecordDatasetLoad(ctx, string(source), 0, 0, nil, time.Since(start), err)
	logger.WarnContext(ctx, "Dataset load failed", slog.String("error", err.Error()))

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, events.MessageTypeDatasetFailed, events.DatasetFailed{
			Source:  source,
			Name:    name,
			Message: userMessage(err),
		})
	}
	return nil, err
}

// Current returns the current dataset.
func (s *AnalysisService) Current(ctx context.Context) (*storage.Dataset, error) {
	return s.store.Current(ctx)
}

// DatasetInfo describes the current dataset.
func (s *AnalysisService) DatasetInfo(ctx context.Context) (api.DatasetResponse, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return api.DatasetResponse{}, err
	}
	return DatasetResponse(ds), nil
}

// DatasetResponse describes ds for API clients.
func DatasetResponse(ds *storage.Dataset) api.DatasetResponse {
	return api.DatasetResponse{Dataset: ds.DatasetInfo, Rejected: rejectedByReason(ds.Diagnostics)}
}

// Transformers filters the current dataset.
func (s *AnalysisService) Transformers(ctx context.Context, criteria domain.FilterCriteria) (api.TransformersResponse, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return api.TransformersResponse{}, err
	}

	items, err := dataprocessing.Filter(ds.Records, criteria)
	if err != nil {
		return api.TransformersResponse{}, err
	}
	return api.TransformersResponse{Items: items, Total: len(ds.Records), Filtered: len(items)}, nil
}

// Summary computes the dashboard figures of the current dataset.
func (s *AnalysisService) Summary(ctx context.Context) (domain.Summary, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return dataprocessing.Summarize(ds.Records), nil
}

// Brief builds the maintenance brief of the current dataset.
func (s *AnalysisService) Brief(ctx context.Context) (domain.Brief, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return domain.Brief{}, err
	}
	return dataprocessing.BuildBrief(ds.Records, s.now()), nil
}

// Diagnostics returns the row diagnostics recorded when the current dataset
// was loaded. Generated datasets have none.
func (s *AnalysisService) Diagnostics(ctx context.Context) (api.DiagnosticsResponse, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return api.DiagnosticsResponse{}, err
	}

	diags := ds.Diagnostics
	if diags == nil {
		diags = []domain.RowDiagnostic{}
	}
	return api.DiagnosticsResponse{
		Dataset:     ds.DatasetInfo,
		Rejected:    rejectedByReason(diags),
		Diagnostics: diags,
	}, nil
}

// ReportMarkdown renders the maintenance report of the current dataset.
func (s *AnalysisService) ReportMarkdown(ctx context.Context) (string, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return "", err
	}
	brief := dataprocessing.BuildBrief(ds.Records, s.now())
	return exporter.RenderReportMarkdown(brief, dataprocessing.Summarize(ds.Records)), nil
}

// ReportHTML renders the maintenance report as a standalone HTML page.
func (s *AnalysisService) ReportHTML(ctx context.Context) ([]byte, error) {
	md, err := s.ReportMarkdown(ctx)
	if err != nil {
		return nil, err
	}
	return exporter.RenderReportHTML(md), nil
}

// ExportCSV writes the current dataset as CSV and returns its name.
func (s *AnalysisService) ExportCSV(ctx context.Context, w io.Writer) (*storage.Dataset, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	return ds, exporter.WriteTransformersCSV(w, ds.Records)
}

// ExportXLSX writes the current dataset as an XLSX workbook.
func (s *AnalysisService) ExportXLSX(ctx context.Context, w io.Writer) (*storage.Dataset, error) {
	ds, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	return ds, exporter.WriteTransformersXLSX(w, ds.Records)
}

func countUrgent(records []domain.TransformerRecord) (critical, warning int) {
	for _, r := range records {
		switch r.Status {
		case domain.StatusCritical:
			critical++
		case domain.StatusWarning:
			warning++
		}
	}
	return critical, warning
}

func rejectedByReason(diags []domain.RowDiagnostic) map[string]int {
	out := make(map[string]int)
	for _, d := range diags {
		if d.DropsRow() {
			out[string(d.Reason)]++
		}
	}
	return out
}

func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "dataset load failed"
}
