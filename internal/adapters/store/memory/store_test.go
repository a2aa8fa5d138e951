package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

var key = ports.Key{Kind: "account", ID: "1"}

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	if _, err := s.Read(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read(absent) error = %v, want ErrNotFound", err)
	}
	if err := s.Create(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, key, []byte("other")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Create(dup) error = %v, want ErrConflict", err)
	}

	got, err := s.Read(ctx, key)
	if err != nil || string(got) != "v1" {
		t.Fatalf("Read() = %q, %v; want v1 unchanged after conflict", got, err)
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
	if err := s.Delete(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete(absent) error = %v, want ErrNotFound", err)
	}
	if err := s.Replace(ctx, key, []byte("v3")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Replace(absent) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ValuesAreCopied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	in := []byte("abc")
	if err := s.Create(ctx, key, in); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	in[0] = 'x'

	out, _ := s.Read(ctx, key)
	out[1] = 'y'

	again, _ := s.Read(ctx, key)
	if string(again) != "abc" {
		t.Errorf("stored value = %q, want abc", again)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := memory.New()
	if err := s.Create(ctx, key, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Create() error = %v, want context.Canceled", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_ConcurrentCreateSingleWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	const workers = 32
	var (
		wg        sync.WaitGroup
		wins      atomic.Int32
		conflicts atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := s.Create(ctx, key, []byte("v")); {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, domain.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("Create() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 || conflicts.Load() != workers-1 {
		t.Errorf("wins = %d, conflicts = %d; want 1 and %d", wins.Load(), conflicts.Load(), workers-1)
	}
}
