// Package health runs the readiness checks of the service's backing
// components (stores, caches, circuit breakers).
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// DefaultCheckTimeout bounds each individual check.
const DefaultCheckTimeout = 2 * time.Second

var _ ports.HealthRegistry = (*Registry)(nil)

// Registry holds checkers by name. Registering a second checker under a
// name replaces the first. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	checkers map[string]ports.HealthChecker
	timeout  time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout replaces DefaultCheckTimeout. Non-positive values are ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		checkers: make(map[string]ports.HealthChecker),
		timeout:  DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Register(checker ports.HealthChecker) {
	name := checker.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.checkers[name]; !seen {
		r.order = append(r.order, name)
	}
	r.checkers[name] = checker
}

// CheckAll runs every check concurrently, each under the registry timeout
// derived from ctx. A nil entry means the component is healthy.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	pending := make([]ports.HealthChecker, 0, len(r.order))
	for _, name := range r.order {
		pending = append(pending, r.checkers[name])
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]error, len(pending))
		g       errgroup.Group
	)
	for _, c := range pending {
		g.Go(func() error {
			err := r.runCheck(ctx, c)
			mu.Lock()
			results[c.Name()] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Registry) runCheck(ctx context.Context, c ports.HealthChecker) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return c.HealthCheck(ctx)
}
