// Package redis provides a ports.Store on top of Redis string keys.
//
// Identity uniqueness relies on SETNX and updates on SET XX, so every
// operation is a single atomic round trip. Keys are laid out as
// <prefix><kind>:<id>.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Store implements ports.Store with a go-redis client.
type Store struct {
	rdb    goredis.UniversalClient
	prefix string
}

var _ ports.Store = (*Store)(nil)

// NewClient builds a go-redis client from configuration and verifies the
// connection with PING.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// New returns a Store that namespaces every key with prefix.
func New(rdb goredis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Create implements ports.Store.
func (s *Store) Create(ctx context.Context, key ports.Key, value []byte) error {
	ok, err := s.rdb.SetNX(ctx, s.redisKey(key), value, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, key)
	}
	return nil
}

// Read implements ports.Store.
func (s *Store) Read(ctx context.Context, key ports.Key) ([]byte, error) {
	value, err := s.rdb.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Replace implements ports.Store.
func (s *Store) Replace(ctx context.Context, key ports.Key, value []byte) error {
	ok, err := s.rdb.SetXX(ctx, s.redisKey(key), value, 0).Result()
	if err != nil {
		return fmt.Errorf("redis set xx %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return nil
}

// Delete implements ports.Store.
func (s *Store) Delete(ctx context.Context, key ports.Key) error {
	n, err := s.rdb.Del(ctx, s.redisKey(key)).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "redis"
}

// HealthCheck implements ports.HealthChecker with a PING.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) redisKey(key ports.Key) string {
	return s.prefix + key.Kind + ":" + key.ID
}
