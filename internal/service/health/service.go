package health

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/ports"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckResult is one dependency probe.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadyResponse is the readiness payload with per-dependency checks.
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Service handles health checks
type Service struct {
	db        *sql.DB
	cache     ports.Cache
	startTime time.Time
	log       *zap.Logger
}

func NewService(db *sql.DB, cache ports.Cache, log *zap.Logger) *Service {
	return &Service{
		db:        db,
		cache:     cache,
		startTime: time.Now(),
		log:       log,
	}
}

// Health reports process liveness and uptime.
func (s *Service) Health(ctx context.Context) HealthResponse {
	return HealthResponse{
		Status:    StatusHealthy,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready probes the database and cache.
func (s *Service) Ready(ctx context.Context) ReadyResponse {
	checks := make(map[string]CheckResult)
	ready := true

	if s.db != nil {
		result := CheckResult{Status: StatusHealthy}
		if err := s.db.PingContext(ctx); err != nil {
			result = CheckResult{Status: StatusUnhealthy, Message: err.Error()}
			ready = false
		}
		checks["database"] = result
	}

	if s.cache != nil {
		result := CheckResult{Status: StatusHealthy}
		if err := s.cache.Ping(); err != nil {
			result = CheckResult{Status: StatusUnhealthy, Message: err.Error()}
			ready = false
		}
		checks["cache"] = result
	}

	status := StatusHealthy
	if !ready {
		status = StatusUnhealthy
	}

	return ReadyResponse{
		Ready:     ready,
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}
