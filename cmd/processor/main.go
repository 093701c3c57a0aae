// Command processor runs the transformer extraction over a directory of
// survey exports without the web dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/dataprocessing"
	"github.com/tomtap1997/dashbord-tr/internal/exporter"
	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
	"github.com/tomtap1997/dashbord-tr/internal/synthetic"
	"github.com/tomtap1997/dashbord-tr/internal/validation"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

const (
	combinedDir      = "combined"
	combinedFileName = "transformers_combined.csv"
	reportFileName   = "maintenance_report.md"
	demoFileName     = "demo_transformers.csv"
)

// options are the command line settings of one run.
type options struct {
	InDir   string
	OutDir  string
	Workers int
	Strict  bool
	Demo    int
	Seed    int64
}

// fileResult is the outcome of one input file.
type fileResult struct {
	Input       string
	Output      string
	Records     []domain.TransformerRecord
	Diagnostics []domain.RowDiagnostic
	Err         error
}

// summary reports what a run produced.
type summary struct {
	Files    int
	Failed   int
	Records  int
	Rejected int
	Combined string
	Report   string
}

func main() {
	inDir := flag.String("in", "", "input directory of survey exports (defaults to the data directory)")
	outDir := flag.String("out", "", "output directory for CSV files (defaults to the reports directory)")
	workers := flag.Int("workers", runtime.NumCPU(), "number of files extracted concurrently")
	strict := flag.Bool("strict", false, "write a diagnostics CSV next to each export")
	demo := flag.Int("demo", 0, "write N generated transformers instead of reading input files")
	seed := flag.Int64("seed", 0, "random seed for -demo (0 picks one)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opts := options{
		InDir:   *inDir,
		OutDir:  *outDir,
		Workers: *workers,
		Strict:  *strict,
		Demo:    *demo,
		Seed:    *seed,
	}
	if opts.InDir == "" {
		opts.InDir = paths.DataDir
	}
	if opts.OutDir == "" {
		opts.OutDir = paths.ReportsDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)
	logger = infrastructure.LoggerFromContext(ctx)

	start := time.Now()
	sum, err := run(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.Int("files", sum.Files),
		slog.Int("failed", sum.Failed),
		slog.Int("records", sum.Records),
		slog.Int("rejected", sum.Rejected),
		slog.String("combined", sum.Combined),
		slog.String("report", sum.Report),
		slog.Duration("duration", time.Since(start)))

	fmt.Printf("Extracted %d transformers from %d files\n", sum.Records, sum.Files)
	if sum.Failed > 0 {
		os.Exit(2)
	}
}

// run executes one batch. Files that cannot be decoded are logged and
// counted; only output failures abort the run.
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) (summary, error) {
	validator := validation.NewFileValidator(logger, cfg.Upload)
	if err := validator.ValidateOutputDirectory(opts.OutDir); err != nil {
		return summary{}, err
	}
	exp := exporter.NewTransformerExporter(nil, logger)

	if opts.Demo > 0 {
		return runDemo(opts, exp, logger)
	}

	extractor, err := dataprocessing.NewExtractorFromConfig(cfg.Extraction, logger)
	if err != nil {
		return summary{}, fmt.Errorf("invalid extraction layout: %w", err)
	}

	inputs, err := validator.ListInputFiles(opts.InDir)
	if err != nil {
		return summary{}, err
	}

	results, err := extractAll(ctx, extractor, inputs, opts.Workers, logger)
	if err != nil {
		return summary{}, err
	}

	sum := summary{Files: len(results)}
	names := outputNames(inputs)
	var groups []exporter.SourceRecords
	var all []domain.TransformerRecord

	for i := range results {
		res := &results[i]
		if res.Err != nil {
			sum.Failed++
			infrastructure.WithError(logger, res.Err).Error("Failed to read survey file",
				slog.String("file", res.Input))
			continue
		}

		res.Output = filepath.Join(opts.OutDir, names[i]+"_transformers.csv")
		if err := exp.ExportFile(res.Records, res.Output); err != nil {
			return sum, err
		}
		if opts.Strict {
			diagPath := filepath.Join(opts.OutDir, names[i]+"_diagnostics.csv")
			if err := writeDiagnostics(res.Diagnostics, diagPath, logger); err != nil {
				return sum, err
			}
		}

		rejected := countRejected(res.Diagnostics)
		logger.Info("File processed",
			slog.String("file", filepath.Base(res.Input)),
			slog.Int("records", len(res.Records)),
			slog.Int("rejected", rejected),
			slog.String("output", res.Output))

		sum.Records += len(res.Records)
		sum.Rejected += rejected
		groups = append(groups, exporter.SourceRecords{Source: filepath.Base(res.Input), Records: res.Records})
		all = append(all, res.Records...)
	}

	if err := os.MkdirAll(filepath.Join(opts.OutDir, combinedDir), 0755); err != nil {
		return sum, fmt.Errorf("failed to create combined directory: %w", err)
	}
	sum.Combined = filepath.Join(opts.OutDir, combinedDir, combinedFileName)
	if _, err := exp.ExportCombined(groups, sum.Combined); err != nil {
		return sum, err
	}

	sum.Report = filepath.Join(opts.OutDir, reportFileName)
	if err := writeReport(all, sum.Report); err != nil {
		return sum, err
	}
	return sum, nil
}

// runDemo writes one generated dataset and its report.
func runDemo(opts options, exp *exporter.TransformerExporter, logger *slog.Logger) (summary, error) {
	gen := synthetic.NewGenerator(nil)
	if opts.Seed != 0 {
		gen = synthetic.NewSeededGenerator(opts.Seed)
	}
	records := gen.Generate(opts.Demo)

	out := filepath.Join(opts.OutDir, demoFileName)
	if err := exp.ExportFile(records, out); err != nil {
		return summary{}, err
	}
	logger.Info("Demo dataset written",
		slog.Int("records", len(records)),
		slog.Int64("seed", opts.Seed),
		slog.String("output", out))

	report := filepath.Join(opts.OutDir, reportFileName)
	if err := writeReport(records, report); err != nil {
		return summary{}, err
	}
	return summary{Records: len(records), Combined: out, Report: report}, nil
}

// extractAll decodes and extracts every input with at most workers files in
// flight. Results keep the input order.
func extractAll(ctx context.Context, extractor *dataprocessing.Extractor, inputs []string, workers int, logger *slog.Logger) ([]fileResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]fileResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = extractFile(extractor, input, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func extractFile(extractor *dataprocessing.Extractor, input string, logger *slog.Logger) fileResult {
	res := fileResult{Input: input}

	wb, err := dataprocessing.ParseFile(input)
	if err != nil {
		res.Err = err
		return res
	}

	out := extractor.ExtractWorkbookStrict(wb)
	res.Records = out.Records
	res.Diagnostics = out.Diagnostics
	logger.Debug("Extracted workbook",
		slog.String("file", filepath.Base(input)),
		slog.Int("rows_scanned", out.RowsScanned))
	return res
}

// outputNames derives export names from the input file names. Inputs that
// share a stem keep their extension so outputs never overwrite each other.
func outputNames(inputs []string) []string {
	stems := make(map[string]int, len(inputs))
	for _, in := range inputs {
		stems[stem(in)]++
	}

	names := make([]string, len(inputs))
	for i, in := range inputs {
		s := stem(in)
		if stems[s] > 1 {
			s += "_" + strings.TrimPrefix(strings.ToLower(filepath.Ext(in)), ".")
		}
		names[i] = s
	}
	return names
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func countRejected(diags []domain.RowDiagnostic) int {
	n := 0
	for _, d := range diags {
		if d.DropsRow() {
			n++
		}
	}
	return n
}

func writeDiagnostics(diags []domain.RowDiagnostic, path string, logger *slog.Logger) error {
	rows := make([][]string, len(diags))
	for i, d := range diags {
		rows[i] = []string{fmt.Sprint(d.Row), d.Identifier, string(d.Reason), d.Field, d.Value}
	}
	w := exporter.NewCSVWriter(nil, logger)
	return w.WriteSimpleCSV(path, []string{"row", "identifier", "reason", "field", "value"}, rows)
}

func writeReport(records []domain.TransformerRecord, path string) error {
	brief := dataprocessing.BuildBrief(records, time.Now())
	md := exporter.RenderReportMarkdown(brief, dataprocessing.Summarize(records))
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
