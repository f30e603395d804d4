package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"vgsales/internal/config"
	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts"
)

// ClientCounter reports connected websocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	store     DatasetStore
	hub       ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// Health states.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusDegraded = "degraded"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// NewHealthService creates a health service. hub may be nil.
func NewHealthService(version string, paths *config.Paths, store DatasetStore, hub ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if version == "" {
		version = contracts.Version
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		store:     store,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether a real dataset is being served. The process
// keeps serving the empty fallback dataset, which is reported as degraded.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset":   hs.checkDataset(),
			"websocket": hs.checkWebSocket(),
			"storage":   hs.checkStorage(),
		},
	}

	for name, svc := range status.Services {
		if svc.Status == StatusReady {
			continue
		}
		if name == "dataset" && svc.Status == StatusDegraded {
			status.Status = StatusDegraded
			continue
		}
		status.Status = StatusNotReady
		break
	}

	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "Readiness check not ready",
			slog.String("status", status.Status))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
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
		"version":      hs.version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"api_version":  info.APIVersion,
		"data_format":  info.DataFormat,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset store not initialized"}
	}
	st := hs.store.Status()
	if st.Fallback {
		msg := "dataset not loaded, serving empty fallback"
		if st.Error != "" {
			msg = fmt.Sprintf("%s: %s", msg, st.Error)
		}
		if st.Path != "" && !config.FileExists(st.Path) {
			msg = fmt.Sprintf("%s (data file %s not found)", msg, st.Path)
		}
		return ServiceHealth{Status: StatusDegraded, Message: msg}
	}
	msg := fmt.Sprintf("%d records loaded", st.Records)
	if st.Error != "" {
		msg = fmt.Sprintf("%s, last reload failed: %s", msg, st.Error)
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: msg,
		Uptime:  time.Since(st.LoadedAt).Round(time.Second).String(),
	}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: StatusReady, Message: "websocket disabled"}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d clients connected", hs.hub.ClientCount()),
		Uptime:  time.Since(hs.startTime).Round(time.Second).String(),
	}
}

func (hs *HealthService) checkStorage() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: StatusReady, Message: "no directories configured"}
	}
	for _, dir := range []string{hs.paths.LogsDir, hs.paths.ExportsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("directory unavailable: %s", dir)}
		}
		if !info.IsDir() {
			return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("not a directory: %s", dir)}
		}
	}
	return ServiceHealth{Status: StatusReady, Message: "directories available"}
}
