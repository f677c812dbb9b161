package health

import "context"

// StorePinger checks counter store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// AssistChecker checks assist provider availability.
type AssistChecker interface {
	HealthCheck(ctx context.Context) error
}
