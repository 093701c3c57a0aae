package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	ServiceName    = "transformer-dashboard"
	ServiceVersion = "1.0.0"
	MeterName      = "github.com/tomtap1997/dashbord-tr"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		TraceExporter:  "stdout",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  false,
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes tracing and metrics. Disabled signals fall back
// to no-op implementations so callers never have to nil-check.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := createResource(cfg)

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if cfg.EnableTracing {
		if err := initializeTracing(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.PrometheusHTTP = promhttp.Handler()

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetMeterProvider(mp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", cfg.MetricExporter))

	return nil
}

// PipelineMetrics holds the instruments recorded by the dataset pipeline and
// the HTTP layer.
type PipelineMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	DatasetLoadsTotal  metric.Int64Counter
	DatasetLoadErrors  metric.Int64Counter
	RecordsExtracted   metric.Int64Counter
	RowsRejected       metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
	CriticalRecords    metric.Int64Gauge
}

// CreatePipelineMetrics creates application-specific metrics
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}

	m := &PipelineMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoadsTotal, err = meter.Int64Counter(
		"dataset_loads_total",
		metric.WithDescription("Total number of datasets loaded, by source"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoadErrors, err = meter.Int64Counter(
		"dataset_load_errors_total",
		metric.WithDescription("Total number of dataset loads that failed"),
	); err != nil {
		return nil, err
	}

	if m.RecordsExtracted, err = meter.Int64Counter(
		"transformer_records_total",
		metric.WithDescription("Transformer records produced by extraction or generation"),
	); err != nil {
		return nil, err
	}

	if m.RowsRejected, err = meter.Int64Counter(
		"extraction_rows_rejected_total",
		metric.WithDescription("Sheet rows dropped by the row filter, by reason"),
	); err != nil {
		return nil, err
	}

	if m.ExtractionDuration, err = meter.Float64Histogram(
		"extraction_duration_seconds",
		metric.WithDescription("Time spent decoding and extracting a workbook"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.CriticalRecords, err = meter.Int64Gauge(
		"transformer_critical_records",
		metric.WithDescription("CRITICAL records in the current dataset"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDatasetLoad records a finished dataset load
func (m *PipelineMetrics) RecordDatasetLoad(ctx context.Context, source string, records, critical int, rejected map[string]int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	srcAttr := metric.WithAttributes(attribute.String("source", source))
	if err != nil {
		m.DatasetLoadErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("error.type", fmt.Sprintf("%T", err)),
		))
		return
	}

	m.DatasetLoadsTotal.Add(ctx, 1, srcAttr)
	m.RecordsExtracted.Add(ctx, int64(records), srcAttr)
	m.ExtractionDuration.Record(ctx, duration.Seconds(), srcAttr)
	m.CriticalRecords.Record(ctx, int64(critical))
	for reason, n := range rejected {
		m.RowsRejected.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}
