package usecase

import (
	"context"
	"log/slog"

	"prodcatalog/src/core/ports"
)

// HealthService reports the health of the application and its dependencies.
type HealthService struct {
	storage ports.HealthChecker
	log     *slog.Logger
}

// NewHealthService creates a new HealthService. storage may be nil when the
// application runs without durable storage (e.g. the in-memory backend).
func NewHealthService(storage ports.HealthChecker, log *slog.Logger) *HealthService {
	return &HealthService{storage: storage, log: log}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check performs a health check of all application components.
// Returns the overall health status.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:     "ok",
		Components: make(map[string]ComponentHealth),
	}

	if s.storage != nil {
		if err := s.storage.Health(ctx); err != nil {
			s.log.Warn("storage health check failed", "error", err)
			status.Status = "degraded"
			status.Components["database"] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Components["database"] = ComponentHealth{Status: "healthy"}
		}
	}

	return status
}
