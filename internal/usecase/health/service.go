package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the preset store is reachable.
	Healthy Status = "ok"
	// Degraded indicates the preset store failed its ping.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Driver string
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	driver string
}

// New creates a Service for the store behind the named driver.
func New(db DBPinger, driver string) *Service {
	return &Service{db: db, driver: driver}
}

// Check pings the preset store.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"database": CheckOK}
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Degraded
	}

	return Report{Status: status, Driver: s.driver, Checks: checks}
}
