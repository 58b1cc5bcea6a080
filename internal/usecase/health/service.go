package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentDatabase  = "database"
	ComponentImageHost = "image_host"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	images ImageHostChecker
}

// New creates a Service. images can be nil.
func New(db DBPinger, images ImageHostChecker) *Service {
	return &Service{db: db, images: images}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		log.Warn("Health check failed", zap.String("component", ComponentDatabase), zap.Error(err))
		checks[ComponentDatabase] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentDatabase] = CheckOK
	}

	if s.images != nil && s.images.Enabled() {
		if err := s.images.HealthCheck(ctx); err != nil {
			log.Warn("Health check failed", zap.String("component", ComponentImageHost), zap.Error(err))
			checks[ComponentImageHost] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[ComponentImageHost] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
