// Package bootstrap wires the store stack, repositories, dispatcher, and
// health registry into a samber/do injector. The HTTP service and
// accountsctl share it so both execute requests through the same pipeline.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/cached"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/postgres"
	redisstore "github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/redis"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/accounts"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/runtime"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/health"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/storeclient"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
	"github.com/jsamuelsen11/go-accounts-service/internal/repository"

	goredis "github.com/redis/go-redis/v9"
)

// ErrUnknownBackend is returned when the configured store or cache backend
// is not one of the supported names.
var ErrUnknownBackend = errors.New("unknown backend")

// Backends owns the connections opened for the configured store. Close
// releases them in reverse order of opening.
type Backends struct {
	// Store is the fully decorated store repositories should use.
	Store ports.Store
	// Checkers are the health checkers contributed by the store stack.
	Checkers []ports.HealthChecker

	closers []func()
}

// Close releases every connection held by b. Safe to call more than once.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// OpenBackends opens the store selected by cfg.Store.Backend and decorates
// it: remote backends go through a storeclient (breaker, rate limit, read
// retries) and, when enabled, reads go through the configured cache.
func OpenBackends(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	var rdb *goredis.Client
	openRedis := func() (*goredis.Client, error) {
		if rdb != nil {
			return rdb, nil
		}
		client, err := redisstore.NewClient(ctx, &cfg.Store.Redis)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		rdb = client
		return rdb, nil
	}

	var store ports.Store
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = memory.New()
	case config.BackendRedis:
		client, err := openRedis()
		if err != nil {
			return nil, err
		}
		rs := redisstore.New(client, cfg.Store.Redis.KeyPrefix)
		b.Checkers = append(b.Checkers, rs)
		store = rs
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, &cfg.Store.Postgres)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		ps := postgres.New(pool)
		b.Checkers = append(b.Checkers, ps)
		store = ps
	default:
		return nil, fmt.Errorf("%w: store %q", ErrUnknownBackend, cfg.Store.Backend)
	}

	if cfg.Store.Remote() {
		client := storeclient.New(store, cfg.Store.Backend, &cfg.Resilience, metrics, logger)
		b.Checkers = append(b.Checkers, client)
		store = client
	}

	if cfg.Cache.Enabled {
		var cache cached.Cache
		switch cfg.Cache.Backend {
		case config.BackendMemory:
			cache = cached.NewMemoryCache(cfg.Cache.TTL)
		case config.BackendRedis:
			client, err := openRedis()
			if err != nil {
				b.Close()
				return nil, fmt.Errorf("opening redis cache: %w", err)
			}
			cache = cached.NewRedisCache(client, cfg.Store.Redis.KeyPrefix+"cache:", cfg.Cache.TTL)
		default:
			b.Close()
			return nil, fmt.Errorf("%w: cache %q", ErrUnknownBackend, cfg.Cache.Backend)
		}
		store = cached.New(store, cache, logger)
	}

	b.Store = store
	return b, nil
}

// Provide registers the application graph on injector. The injector must
// already hold *config.Config, *slog.Logger, and *telemetry.Metrics (which
// may be nil). ctx bounds the initial connection attempts.
func Provide(ctx context.Context, injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Backends, error) {
		cfg := do.MustInvoke[*config.Config](i)
		logger := do.MustInvoke[*slog.Logger](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return OpenBackends(ctx, cfg, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.AccountRepository, error) {
		backends, err := do.Invoke[*Backends](i)
		if err != nil {
			return nil, err
		}
		return repository.NewAccountRepository(backends.Store), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Dispatcher, error) {
		repo, err := do.Invoke[ports.AccountRepository](i)
		if err != nil {
			return nil, err
		}
		logger := do.MustInvoke[*slog.Logger](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		d, err := NewDispatcher(repo, metrics, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		backends, err := do.Invoke[*Backends](i)
		if err != nil {
			return nil, err
		}
		registry := health.New()
		for _, checker := range backends.Checkers {
			registry.Register(checker)
		}
		return registry, nil
	})
}

// NewDispatcher registers every application module against repo and builds
// the dispatcher with telemetry, logging, and panic recovery middleware.
func NewDispatcher(repo ports.AccountRepository, metrics *telemetry.Metrics, logger *slog.Logger) (*runtime.Dispatcher, error) {
	reg := runtime.NewRegistry()
	reg.Use(
		runtime.Telemetry(metrics),
		runtime.Logging(logger),
		runtime.Recovery(logger),
	)

	if err := accounts.Register(reg, repo, logger); err != nil {
		return nil, fmt.Errorf("registering accounts: %w", err)
	}

	logger.Info("dispatcher ready", slog.Any("requests", reg.Registered()))
	return reg.Build(), nil
}
