package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
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

// Check names.
const (
	CheckStore  = "store"
	CheckAssist = "assist"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store  StorePinger
	assist AssistChecker
}

// New creates a Service. assist can be nil (not configured or not probed).
func New(store StorePinger, assist AssistChecker) *Service {
	return &Service{store: store, assist: assist}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks[CheckStore] = CheckError
	} else {
		checks[CheckStore] = CheckOK
	}

	if s.assist != nil {
		if err := s.assist.HealthCheck(ctx); err != nil {
			checks[CheckAssist] = CheckError
		} else {
			checks[CheckAssist] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
