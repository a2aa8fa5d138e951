package storeclient

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// doWithRetry runs call up to attempts times using exponential backoff with
// ±25% jitter between attempts. Each attempt is bounded by the client timeout.
func (c *Client) doWithRetry(
	ctx context.Context,
	op string,
	key ports.Key,
	attempts int,
	call func(context.Context) ([]byte, error),
) ([]byte, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := range attempts {
		if attempt > 0 {
			if err := c.waitForRetry(ctx, op, key, attempt, attempts, lastErr); err != nil {
				return nil, err
			}
		}

		out, err := c.attempt(ctx, call)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isRetryable(ctx, err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, call func(context.Context) ([]byte, error)) ([]byte, error) {
	if c.timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return call(ctx)
}

// waitForRetry calculates the backoff delay, logs the retry attempt at WARN
// level, and waits for the delay or context cancellation.
func (c *Client) waitForRetry(ctx context.Context, op string, key ports.Key, attempt, attempts int, lastErr error) error {
	delay := backoff(attempt, c.retryCfg)

	logger := logging.FromContextOr(ctx, c.logger)
	logger.WarnContext(ctx, "retrying store operation",
		slog.String("operation", "storeclient."+op),
		slog.String("key", key.String()),
		slog.String("peer_service", c.name),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", attempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff calculates the delay for a given retry attempt using exponential
// backoff with ±25% jitter. The attempt parameter is 1-indexed (attempt 1 is
// the first retry).
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))

	// Cap at max interval before applying jitter.
	if delay > float64(cfg.maxInterval) {
		delay = float64(cfg.maxInterval)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

// isRetryable determines whether a failed attempt may be repeated.
// Definite answers (NOT_FOUND, CONFLICT, VALIDATION) and cancellation of the
// caller's context are final. A per-attempt timeout is retryable.
func isRetryable(ctx context.Context, err error) bool {
	if err == nil || isDomainAnswer(err) {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
