package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/internal/storage"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts"
)

// HubStats is the part of the websocket hub the health endpoints report on.
type HubStats interface {
	ClientCount() int
	Stats() map[string]interface{}
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	store     storage.DatasetStore
	hub       HubStats
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. hub may be nil.
func NewHealthService(store storage.DatasetStore, hub HubStats, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized", slog.String("version", contracts.Version))

	return &HealthService{
		version:   contracts.Version,
		store:     store,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the dataset store is reachable. An empty
// store is still ready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["storage"] = hs.checkStorageHealth(ctx)
	status.Services["websocket"] = hs.checkWebSocketHealth()
	status.Services["dataset"] = hs.checkDatasetHealth(ctx)

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status == "not_ready" {
			status.Status = "not_ready"
			break
		}
	}

	if status.Status != "ready" {
		hs.logger.WarnContext(ctx, "Readiness check failed", slog.Any("services", status.Services))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      info.Version,
		"api_version":  info.APIVersion,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkStorageHealth(ctx context.Context) ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset store not initialized"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := hs.store.Ping(pingCtx); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Storage error: %v", err),
		}
	}
	return ServiceHealth{Status: "ready", Message: "Dataset store is reachable"}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "disabled", Message: "WebSocket hub not configured"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clients connected", hs.hub.ClientCount()),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// checkDatasetHealth is informational; a missing dataset never blocks
// readiness.
func (hs *HealthService) checkDatasetHealth(ctx context.Context) ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: "empty"}
	}
	ds, err := hs.store.Current(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoDataset):
		return ServiceHealth{Status: "empty", Message: "No dataset loaded"}
	case err != nil:
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%s dataset %q with %d records", ds.Source, ds.Name, ds.RecordCount),
	}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	detail := map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
	}
	if hs.hub != nil {
		detail["websocket"] = hs.hub.Stats()
	}
	return detail
}
