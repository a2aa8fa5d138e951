// Package cached decorates a ports.Store with a read-through cache.
//
// Reads consult the cache first and coalesce concurrent misses for the same
// key into one backing read. Replace and Delete invalidate the entry after
// the backing write. Create does not populate the cache. Cache errors are
// logged and never fail an operation.
//
// A backing read that overlaps an invalidation never leaves its value in the
// cache: every invalidation advances an epoch, and a fill whose epoch moved
// while it ran is skipped or undone.
package cached

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Store is a caching ports.Store decorator.
type Store struct {
	next   ports.Store
	cache  Cache
	group  singleflight.Group
	epoch  atomic.Uint64
	logger *slog.Logger
}

var _ ports.Store = (*Store)(nil)

// New wraps next with cache.
func New(next ports.Store, cache Cache, logger *slog.Logger) *Store {
	return &Store{next: next, cache: cache, logger: logger}
}

// Create implements ports.Store.
func (s *Store) Create(ctx context.Context, key ports.Key, value []byte) error {
	return s.next.Create(ctx, key, value)
}

// Read implements ports.Store.
func (s *Store) Read(ctx context.Context, key ports.Key) ([]byte, error) {
	ck := key.String()

	if b, ok, err := s.cache.Get(ctx, ck); err != nil {
		s.warn(ctx, "cache get failed", key, err)
	} else if ok {
		return b, nil
	}

	// The shared read must outlive any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(ck, func() (any, error) {
		started := s.epoch.Load()
		b, err := s.next.Read(shared, key)
		if err != nil {
			return nil, err
		}
		s.fill(shared, key, b, started)
		return b, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		b, _ := res.Val.([]byte)
		return append([]byte(nil), b...), nil
	}
}

// Replace implements ports.Store.
func (s *Store) Replace(ctx context.Context, key ports.Key, value []byte) error {
	err := s.next.Replace(ctx, key, value)
	s.invalidate(ctx, key)
	return err
}

// Delete implements ports.Store.
func (s *Store) Delete(ctx context.Context, key ports.Key) error {
	err := s.next.Delete(ctx, key)
	s.invalidate(ctx, key)
	return err
}

// fill caches b for key unless an invalidation happened since started. The
// epoch is checked again after Set: an invalidation that ran between the
// check and the Set may have deleted before the Set landed, so the entry is
// dropped.
func (s *Store) fill(ctx context.Context, key ports.Key, b []byte, started uint64) {
	if s.epoch.Load() != started {
		return
	}
	ck := key.String()
	if err := s.cache.Set(ctx, ck, b); err != nil {
		s.warn(ctx, "cache set failed", key, err)
		return
	}
	if s.epoch.Load() != started {
		if err := s.cache.Delete(ctx, ck); err != nil {
			s.warn(ctx, "cache invalidation failed", key, err)
		}
	}
}

func (s *Store) invalidate(ctx context.Context, key ports.Key) {
	ck := key.String()
	s.epoch.Add(1)
	s.group.Forget(ck)
	if err := s.cache.Delete(context.WithoutCancel(ctx), ck); err != nil {
		s.warn(ctx, "cache invalidation failed", key, err)
	}
}

func (s *Store) warn(ctx context.Context, msg string, key ports.Key, err error) {
	logging.FromContextOr(ctx, s.logger).WarnContext(ctx, msg,
		slog.String("operation", "cached.Store"),
		slog.String("key", key.String()),
		slog.Any("error", err),
	)
}
