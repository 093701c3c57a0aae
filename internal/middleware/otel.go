package middleware

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
)

// OTelMiddleware provides OpenTelemetry instrumentation for HTTP requests
type OTelMiddleware struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewOTelMiddleware creates a new OpenTelemetry middleware. The metrics are
// shared with the dataset pipeline so one meter backs /metrics.
func NewOTelMiddleware(providers *infrastructure.OTelProviders, metrics *infrastructure.PipelineMetrics) (*OTelMiddleware, error) {
	if providers == nil {
		return nil, fmt.Errorf("otel providers are required")
	}
	if metrics == nil {
		var err error
		if metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter); err != nil {
			return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
		}
	}

	logger := providers.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OTelMiddleware{
		tracer:  providers.Tracer,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Handler returns the middleware handler function
func (m *OTelMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		ctx, span := m.tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.URLPathKey.String(r.URL.Path),
				semconv.ServerAddressKey.String(r.Host),
				semconv.UserAgentOriginalKey.String(r.UserAgent()),
				semconv.HTTPRequestBodySizeKey.Int64(r.ContentLength),
				semconv.ClientAddressKey.String(GetRealIP(r)),
			),
		)
		defer span.End()

		if span.SpanContext().IsValid() {
			ctx = infrastructure.WithTraceID(ctx, span.SpanContext().TraceID().String())
		}
		r = r.WithContext(ctx)

		ww := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start)

		// The route pattern is only known once chi has routed the request
		route := getRoutePattern(r)
		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.Int("status_code", ww.statusCode),
		)
		m.metrics.HTTPRequestsTotal.Add(ctx, 1, attrs)
		m.metrics.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)

		span.SetName(fmt.Sprintf("%s %s", r.Method, route))
		span.SetAttributes(
			semconv.HTTPRouteKey.String(route),
			semconv.HTTPResponseStatusCodeKey.Int(ww.statusCode),
			semconv.HTTPResponseBodySizeKey.Int64(ww.bytesWritten),
		)
		if ww.statusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.statusCode))
		}

		m.logger.DebugContext(ctx, "HTTP request traced",
			slog.String("route", route),
			slog.Int("status_code", ww.statusCode),
			slog.Duration("duration", duration),
			slog.String("trace_id", infrastructure.GetTraceID(ctx)),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture response details
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Hijack passes the connection through for websocket upgrades.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.wroteHeader = true
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// getRoutePattern extracts the route pattern from request context
func getRoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

// WebSocketTraceMiddleware creates tracing middleware for WebSocket connections
func WebSocketTraceMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracer := otel.Tracer("github.com/tomtap1997/dashbord-tr/websocket")
			ctx, span := tracer.Start(r.Context(), "websocket_upgrade",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(r.URL.Path),
					attribute.String("connection.type", "websocket"),
					attribute.String("origin", r.Header.Get("Origin")),
				),
			)
			defer span.End()

			logger.InfoContext(ctx, "WebSocket upgrade attempt",
				slog.String("origin", r.Header.Get("Origin")),
				slog.String("remote_addr", GetRealIP(r)),
				slog.String("trace_id", GetRequestID(ctx)),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRealIP extracts the real IP address from the request
func GetRealIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
