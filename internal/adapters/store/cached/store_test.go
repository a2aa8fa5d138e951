package cached_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/cached"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

var key = ports.Key{Kind: "account", ID: "1"}

// countingStore counts Read calls reaching the wrapped store and can hold
// them until release is closed.
type countingStore struct {
	ports.Store
	reads   atomic.Int32
	release chan struct{}
}

func (c *countingStore) Read(ctx context.Context, k ports.Key) ([]byte, error) {
	c.reads.Add(1)
	if c.release != nil {
		<-c.release
	}
	return c.Store.Read(ctx, k)
}

// failingCache fails every operation.
type failingCache struct{}

var errCacheDown = errors.New("cache down")

func (failingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errCacheDown }
func (failingCache) Set(context.Context, string, []byte) error         { return errCacheDown }
func (failingCache) Delete(context.Context, string) error              { return errCacheDown }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func caches(t *testing.T) map[string]cached.Cache {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]cached.Cache{
		"memory": cached.NewMemoryCache(time.Minute),
		"redis":  cached.NewRedisCache(rdb, "cache:", time.Minute),
	}
}

func TestStore_ReadThrough(t *testing.T) {
	t.Parallel()

	for name, cache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			inner := &countingStore{Store: memory.New()}
			s := cached.New(inner, cache, testLogger())

			if err := s.Create(ctx, key, []byte("v1")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			for range 3 {
				got, err := s.Read(ctx, key)
				if err != nil || string(got) != "v1" {
					t.Fatalf("Read() = %q, %v; want v1", got, err)
				}
			}
			if n := inner.reads.Load(); n != 1 {
				t.Errorf("backing reads = %d, want 1", n)
			}
		})
	}
}

func TestStore_WritesInvalidate(t *testing.T) {
	t.Parallel()

	for name, cache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := cached.New(memory.New(), cache, testLogger())

			if err := s.Create(ctx, key, []byte("v1")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if _, err := s.Read(ctx, key); err != nil {
				t.Fatalf("Read() error = %v", err)
			}

			if err := s.Replace(ctx, key, []byte("v2")); err != nil {
				t.Fatalf("Replace() error = %v", err)
			}
			if got, _ := s.Read(ctx, key); string(got) != "v2" {
				t.Errorf("Read() after Replace = %q, want v2", got)
			}

			if err := s.Delete(ctx, key); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Read(ctx, key); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("Read() after Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := cached.New(memory.New(), cached.NewMemoryCache(time.Minute), testLogger())

	if _, err := s.Read(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read(absent) error = %v, want ErrNotFound", err)
	}
	if err := s.Create(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got, err := s.Read(ctx, key); err != nil || string(got) != "v1" {
		t.Errorf("Read() after Create = %q, %v; want v1", got, err)
	}
}

func TestStore_CacheFailuresDoNotFailOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := cached.New(memory.New(), failingCache{}, testLogger())

	if err := s.Create(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got, err := s.Read(ctx, key); err != nil || string(got) != "v1" {
		t.Fatalf("Read() = %q, %v; want v1", got, err)
	}
	if err := s.Replace(ctx, key, []byte("v2")); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestStore_ConcurrentMissesCoalesce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := memory.New()
	if err := base.Create(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inner := &countingStore{Store: base, release: make(chan struct{})}
	s := cached.New(inner, cached.NewMemoryCache(time.Minute), testLogger())

	const readers = 16
	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := s.Read(ctx, key); err != nil || string(got) != "v1" {
				t.Errorf("Read() = %q, %v; want v1", got, err)
			}
		}()
	}

	// Let the readers pile up on the in-flight backing read.
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	if n := inner.reads.Load(); n != 1 {
		t.Errorf("backing reads = %d, want 1", n)
	}
}

func TestStore_ReadHonorsCallerCancellation(t *testing.T) {
	t.Parallel()

	base := memory.New()
	if err := base.Create(context.Background(), key, []byte("v1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inner := &countingStore{Store: base, release: make(chan struct{})}
	t.Cleanup(func() { close(inner.release) })

	s := cached.New(inner, cached.NewMemoryCache(time.Minute), testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.Read(ctx, key); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Read() error = %v, want context.DeadlineExceeded", err)
	}
}

// stalledStore lets its first Read fetch from the wrapped store, then holds
// the fetched value until release is closed.
type stalledStore struct {
	ports.Store
	calls   atomic.Int32
	fetched chan struct{}
	release chan struct{}
}

func newStalledStore(next ports.Store) *stalledStore {
	return &stalledStore{Store: next, fetched: make(chan struct{}), release: make(chan struct{})}
}

func (s *stalledStore) Read(ctx context.Context, k ports.Key) ([]byte, error) {
	b, err := s.Store.Read(ctx, k)
	if s.calls.Add(1) == 1 {
		close(s.fetched)
		<-s.release
	}
	return b, err
}

func TestStore_WriteDuringMissIsNotMasked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		write func(context.Context, *cached.Store) error
		check func(*testing.T, []byte, error)
	}{
		{
			name:  "replace",
			write: func(ctx context.Context, s *cached.Store) error { return s.Replace(ctx, key, []byte("new")) },
			check: func(t *testing.T, got []byte, err error) {
				if err != nil || string(got) != "new" {
					t.Errorf("Read() after Replace = %q, %v, want new", got, err)
				}
			},
		},
		{
			name:  "delete",
			write: func(ctx context.Context, s *cached.Store) error { return s.Delete(ctx, key) },
			check: func(t *testing.T, got []byte, err error) {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("Read() after Delete = %q, %v, want ErrNotFound", got, err)
				}
			},
		},
	}

	for _, tt := range tests {
		for name, cache := range caches(t) {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				t.Parallel()

				ctx := context.Background()
				inner := memory.New()
				if err := inner.Create(ctx, key, []byte("old")); err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				stalled := newStalledStore(inner)
				s := cached.New(stalled, cache, testLogger())

				first := make(chan []byte, 1)
				go func() {
					b, _ := s.Read(ctx, key)
					first <- b
				}()

				<-stalled.fetched
				if err := tt.write(ctx, s); err != nil {
					t.Fatalf("write error = %v", err)
				}
				close(stalled.release)

				if got := <-first; string(got) != "old" {
					t.Errorf("overlapping Read() = %q, want old", got)
				}

				got, err := s.Read(ctx, key)
				tt.check(t, got, err)
			})
		}
	}
}
