// Package storeclient decorates a remote ports.Store with circuit breaking,
// rate limiting, retry with exponential backoff, and OpenTelemetry tracing.
//
// Each call is processed in this order:
//
//	Rate Limiter → Circuit Breaker → OTEL Span → Retry (reads only) → Store
//
// Construction:
//
//	store := storeclient.New(pgStore, "postgres", &cfg.Resilience, metrics, logger)
//
// Failures keep the domain taxonomy: NOT_FOUND and CONFLICT pass through
// untouched and never count against the breaker; breaker rejections and
// exhausted retries surface as domain.ErrUnavailable.
package storeclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Store operation names used in spans, metrics, and logs.
const (
	opCreate  = "create"
	opRead    = "read"
	opReplace = "replace"
	opDelete  = "delete"
)

// retryConfig holds the retry policy values extracted from config.RetryConfig
// using unexported types to avoid leaking the config package through the API.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Client is a resilient ports.Store decorator for network-backed stores.
type Client struct {
	next     ports.Store
	name     string
	breaker  *gobreaker.CircuitBreaker[[]byte]
	limiter  *rate.Limiter // nil when rate limiting is disabled
	timeout  time.Duration
	retryCfg retryConfig
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

var _ ports.Store = (*Client)(nil)

// New wraps next with the resilience policies in cfg.
//
// The name identifies the backend in traces, metrics, and health reports
// (e.g., "postgres"). If metrics is nil, metric recording is skipped.
func New(next ports.Store, name string, cfg *config.ResilienceConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Client{
		next:    next,
		name:    name,
		breaker: cb,
		limiter: limiter,
		timeout: cfg.Timeout,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Create implements ports.Store. Creates are never retried: a retry after a
// lost acknowledgement would report CONFLICT for the caller's own write.
func (c *Client) Create(ctx context.Context, key ports.Key, value []byte) error {
	_, err := c.do(ctx, opCreate, key, false, func(ctx context.Context) ([]byte, error) {
		return nil, c.next.Create(ctx, key, value)
	})
	return err
}

// Read implements ports.Store. Reads are retried on infrastructure failures.
func (c *Client) Read(ctx context.Context, key ports.Key) ([]byte, error) {
	return c.do(ctx, opRead, key, true, func(ctx context.Context) ([]byte, error) {
		return c.next.Read(ctx, key)
	})
}

// Replace implements ports.Store.
func (c *Client) Replace(ctx context.Context, key ports.Key, value []byte) error {
	_, err := c.do(ctx, opReplace, key, false, func(ctx context.Context) ([]byte, error) {
		return nil, c.next.Replace(ctx, key, value)
	})
	return err
}

// Delete implements ports.Store.
func (c *Client) Delete(ctx context.Context, key ports.Key) error {
	_, err := c.do(ctx, opDelete, key, false, func(ctx context.Context) ([]byte, error) {
		return nil, c.next.Delete(ctx, key)
	})
	return err
}

// Name returns the health check name for the breaker (e.g.,
// "postgres-breaker"). Together with HealthCheck it satisfies
// ports.HealthChecker.
func (c *Client) Name() string {
	return c.name + "-breaker"
}

// HealthCheck reports the backend's availability based on the circuit
// breaker state. No call reaches the store.
func (c *Client) HealthCheck(_ context.Context) error {
	state := c.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.name)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.name, state)
	}
}

func (c *Client) do(
	ctx context.Context,
	op string,
	key ports.Key,
	retry bool,
	call func(context.Context) ([]byte, error),
) ([]byte, error) {
	start := time.Now()

	out, err := c.execute(ctx, op, key, retry, call)

	c.recordMetrics(ctx, op, start, err)
	return out, err
}

func (c *Client) execute(
	ctx context.Context,
	op string,
	key ports.Key,
	retry bool,
	call func(context.Context) ([]byte, error),
) ([]byte, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() ([]byte, error) {
		spanCtx, span := c.startSpan(ctx, op, key)
		defer span.End()

		attempts := 1
		if retry {
			attempts = c.retryCfg.maxAttempts
		}

		b, callErr := c.doWithRetry(spanCtx, op, key, attempts, call)
		finishSpan(span, callErr)
		return b, callErr
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, c.name, err)
	}
	return out, err
}

// waitForRateLimit blocks until the rate limiter allows the call or the
// context is done. Returns nil immediately when rate limiting is disabled.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The limiter refuses waits that would outlive the deadline.
		return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, c.name, err)
	}
	return nil
}

// startSpan creates an OTEL client span for one store operation.
func (c *Client) startSpan(ctx context.Context, op string, key ports.Key) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("storeclient")

	return tracer.Start(ctx, "store "+op+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("store.operation", op),
			attribute.String("store.key.kind", key.Kind),
			attribute.String("peer.service", c.name),
		),
	)
}

// finishSpan records the outcome on the span. NOT_FOUND and CONFLICT are
// regular answers and do not mark the span as failed.
func finishSpan(span trace.Span, err error) {
	if err == nil || isDomainAnswer(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordMetrics records store request duration and count metrics.
// Metrics are recorded outside the circuit breaker so that circuit-open
// rejections are captured. Safe to call with nil metrics.
func (c *Client) recordMetrics(ctx context.Context, op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case err != nil:
		if kind, ok := domain.KindOf(domain.Normalize(err)); ok {
			result = kind.String()
		}
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStoreOp.String(op),
		telemetry.AttrPeerService.String(c.name),
		telemetry.AttrResult.String(result),
	)

	c.metrics.StoreRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.metrics.StoreRequestTotal.Add(ctx, 1, attrs)
}

// countsAsSuccess tells the breaker which outcomes are healthy. Only
// infrastructure failures count toward tripping.
func countsAsSuccess(err error) bool {
	if err == nil || isDomainAnswer(err) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// isDomainAnswer reports whether err is a definite answer from a healthy
// store rather than an infrastructure failure.
func isDomainAnswer(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrValidation)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
