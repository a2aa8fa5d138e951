package ports

import "context"

// HealthChecker is a component the readiness probe asks about: the postgres
// and redis stores and the circuit breaker in front of them.
type HealthChecker interface {
	// Name identifies the component in readiness output, e.g. "postgres"
	// or "redis-breaker".
	Name() string

	// HealthCheck returns nil when the component can serve traffic. It
	// must return once ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry aggregates the checkers behind GET /health/ready.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll returns one entry per registered name; nil means healthy.
	CheckAll(ctx context.Context) map[string]error
}
