package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID middleware generates a unique request ID for each request.
// The ID is stored under chi's request ID key so chi helpers and the error
// handler see it too. This should be the FIRST middleware in the chain.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
		ctx = infrastructure.WithTraceID(ctx, requestID)

		// An active span wins over the request ID
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			ctx = infrastructure.WithTraceID(ctx, span.SpanContext().TraceID().String())
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context, falling back to the
// trace ID.
func GetRequestID(ctx context.Context) string {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return reqID
	}
	return infrastructure.GetTraceID(ctx)
}

// StructuredLogger provides Chi-compatible structured logging middleware using slog.
// This should come AFTER RequestID and RealIP middlewares.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			reqLogger := logger
			if traceID := GetRequestID(ctx); traceID != "" {
				reqLogger = logger.With("trace_id", traceID)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLogger.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			reqLogger.Log(ctx, level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// problem is the RFC 7807 body the middlewares answer with directly.
type problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail"`
	TraceID string `json:"trace_id,omitempty"`
}

func writeProblem(w http.ResponseWriter, r *http.Request, p problem) {
	p.TraceID = GetRequestID(r.Context())
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Recoverer recovers from panics and logs them with slog.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					logger.ErrorContext(r.Context(), "panic recovered",
						"panic", rvr,
						"stack", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
					)

					writeProblem(w, r, problem{
						Type:   "/errors/internal",
						Title:  "Internal Server Error",
						Status: http.StatusInternalServerError,
						Detail: "An unexpected error occurred",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter provides rate limiting functionality with logging
type RateLimiter struct {
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimiter creates a new rate limiter with logging
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Handler implements rate limiting middleware
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow() {
			rl.logger.WarnContext(r.Context(), "rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			w.Header().Set("Retry-After", "1")
			writeProblem(w, r, problem{
				Type:   "/errors/rate-limit",
				Title:  "Too Many Requests",
				Status: http.StatusTooManyRequests,
				Detail: "Rate limit exceeded. Please retry shortly",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
	Logger           *slog.Logger
}

// CORSConfigFromSecurity builds the CORS settings for the dashboard API.
func CORSConfigFromSecurity(sec config.SecurityConfig, logger *slog.Logger) CORSConfig {
	return CORSConfig{
		AllowedOrigins: sec.AllowedOrigins,
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
		Logger:         logger,
	}
}

// CORS middleware with logging
func CORS(cfg CORSConfig) func(next http.Handler) http.Handler {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Accept", "Content-Type", RequestIDHeader}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 300
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := len(cfg.AllowedOrigins) == 0
			wildcard := false
			for _, allowedOrigin := range cfg.AllowedOrigins {
				if allowedOrigin == "*" {
					allowed, wildcard = true, true
					break
				}
				if strings.EqualFold(strings.TrimSuffix(allowedOrigin, "/"), origin) {
					allowed = true
					break
				}
			}

			switch {
			case allowed && origin != "":
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))

			if len(cfg.ExposedHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposedHeaders, ", "))
			}

			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))

			if r.Method == http.MethodOptions {
				if cfg.Logger != nil {
					cfg.Logger.DebugContext(r.Context(), "CORS preflight request",
						"origin", origin,
						"allowed", allowed,
					)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related headers
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self' ws: wss:")

		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// Compress provides response compression middleware using Chi's implementation
func Compress(level int) func(next http.Handler) http.Handler {
	return middleware.Compress(level)
}

// RealIP extracts the real client IP using Chi's implementation
func RealIP(next http.Handler) http.Handler {
	return middleware.RealIP(next)
}
