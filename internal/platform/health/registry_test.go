package health_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-accounts-service/internal/platform/health"
	"github.com/jsamuelsen11/go-accounts-service/mocks"
)

// fixedChecker is a checker whose result is a fixed error.
type fixedChecker struct {
	name string
	err  error
}

func (p fixedChecker) Name() string { return p.name }
func (p fixedChecker) HealthCheck(context.Context) error { return p.err }

var errRefused = errors.New("connection refused")

func TestCheckAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checkers []fixedChecker
		want     map[string]error
	}{
		{
			name: "no checkers",
			want: map[string]error{},
		},
		{
			name:     "all healthy",
			checkers: []fixedChecker{{name: "postgres"}, {name: "postgres-breaker"}},
			want:     map[string]error{"postgres": nil, "postgres-breaker": nil},
		},
		{
			name:     "one failing",
			checkers: []fixedChecker{{name: "redis", err: errRefused}, {name: "redis-breaker"}},
			want:     map[string]error{"redis": errRefused, "redis-breaker": nil},
		},
		{
			name:     "later registration replaces earlier",
			checkers: []fixedChecker{{name: "redis"}, {name: "redis", err: errRefused}},
			want:     map[string]error{"redis": errRefused},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := health.New()
			for _, c := range tt.checkers {
				r.Register(c)
			}

			got := r.CheckAll(context.Background())
			if got == nil {
				t.Fatal("CheckAll() returned nil map")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("CheckAll() = %v, want %v", got, tt.want)
			}
			for name, want := range tt.want {
				err, ok := got[name]
				if !ok {
					t.Errorf("no result for %q", name)
					continue
				}
				if !errors.Is(err, want) {
					t.Errorf("result[%q] = %v, want %v", name, err, want)
				}
			}
		})
	}
}

func TestCheckAll_PassesCallerContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("postgres")
	checker.EXPECT().HealthCheck(mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() != nil
	})).Return(context.Canceled)

	r := health.New()
	r.Register(checker)

	if err := r.CheckAll(ctx)["postgres"]; !errors.Is(err, context.Canceled) {
		t.Errorf("postgres = %v, want context.Canceled", err)
	}
}

func TestCheckAll_BoundsSlowChecks(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	hung := mocks.NewMockHealthChecker(t)
	hung.EXPECT().Name().Return("postgres")
	hung.EXPECT().HealthCheck(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	r := health.New(health.WithCheckTimeout(20 * time.Millisecond))
	r.Register(hung)
	r.Register(fixedChecker{name: "redis"})

	start := time.Now()
	got := r.CheckAll(context.Background())

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("CheckAll took %v, want it bounded by the check timeout", elapsed)
	}
	if !errors.Is(got["postgres"], context.DeadlineExceeded) {
		t.Errorf("postgres = %v, want deadline exceeded", got["postgres"])
	}
	if got["redis"] != nil {
		t.Errorf("redis = %v, want nil", got["redis"])
	}
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(fixedChecker{name: fmt.Sprintf("store-%d", i%5)})
		}()
		go func() {
			defer wg.Done()
			r.CheckAll(context.Background())
		}()
	}
	wg.Wait()

	if n := len(r.CheckAll(context.Background())); n != 5 {
		t.Errorf("registered names = %d, want 5", n)
	}
}
