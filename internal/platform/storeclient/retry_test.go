package storeclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
)

func TestBackoff_ExponentialIncrease(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     10 * time.Second,
		multiplier:      2.0,
	}

	// Run multiple samples to account for jitter.
	const samples = 100
	for attempt := 1; attempt <= 3; attempt++ {
		baseDelay := float64(100*time.Millisecond) * float64(int(1)<<(attempt-1))
		minExpected := time.Duration(baseDelay * (1 - jitterFraction))
		maxExpected := time.Duration(baseDelay * (1 + jitterFraction))

		for range samples {
			delay := backoff(attempt, cfg)
			if delay < minExpected || delay > maxExpected {
				t.Errorf("attempt %d: delay %v not in [%v, %v]", attempt, delay, minExpected, maxExpected)
			}
		}
	}
}

func TestBackoff_CappedAtMaxInterval(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		multiplier:      2.0,
	}

	maxWithJitter := time.Duration(float64(cfg.maxInterval) * (1 + jitterFraction))

	for range 100 {
		if delay := backoff(10, cfg); delay > maxWithJitter {
			t.Errorf("delay %v exceeds max interval with jitter %v", delay, maxWithJitter)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"nil", context.Background(), nil, false},
		{"not found", context.Background(), domain.ErrNotFound, false},
		{"wrapped conflict", context.Background(), fmt.Errorf("insert: %w", domain.ErrConflict), false},
		{"validation", context.Background(), domain.NewValidationError("id", domain.MsgRequired), false},
		{"canceled", context.Background(), context.Canceled, false},
		{"caller context done", canceled, errors.New("i/o timeout"), false},
		{"attempt deadline", context.Background(), context.DeadlineExceeded, true},
		{"generic", context.Background(), errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isRetryable(tt.ctx, tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSecureRandFloat64_InRange(t *testing.T) {
	t.Parallel()

	for range 1000 {
		v := secureRandFloat64()
		if v < 0 || v >= 1 {
			t.Fatalf("secureRandFloat64() = %v, want [0, 1)", v)
		}
	}
}
