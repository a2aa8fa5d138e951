package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// problems collects every invalid setting so one Load reports them all.
type problems []error

func (p *problems) require(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p *problems) oneOf(key, got string, allowed ...string) {
	p.require(slices.Contains(allowed, got),
		"%s must be one of %s, got %q", key, strings.Join(allowed, ", "), got)
}

// Validate reports every invalid setting, joined into one error.
func (c *Config) Validate() error {
	var p problems

	c.Server.check(&p)
	c.Log.check(&p)
	c.Store.check(&p)
	c.Cache.check(&p, c.Store.Redis)
	c.Resilience.check(&p)
	c.Telemetry.check(&p)

	return errors.Join(p...)
}

func (s *ServerConfig) check(p *problems) {
	p.require(s.Port > 0 && s.Port <= 65535, "server.port %d is outside 1-65535", s.Port)
	p.require(s.ReadTimeout > 0, "server.read_timeout must be positive")
	p.require(s.WriteTimeout > 0, "server.write_timeout must be positive")
	p.require(s.RequestTimeout >= 0, "server.request_timeout must not be negative")
}

func (l *LogConfig) check(p *problems) {
	// An empty level defers to log.debug.
	p.oneOf("log.level", l.Level, "", "debug", "info", "warn", "error")
	p.oneOf("log.format", l.Format, "json", "text")
}

func (s *StoreConfig) check(p *problems) {
	p.oneOf("store.backend", s.Backend, BackendMemory, BackendRedis, BackendPostgres)

	switch s.Backend {
	case BackendRedis:
		p.require(s.Redis.Addr != "", "store.redis.addr is required for the redis backend")
	case BackendPostgres:
		pg := s.Postgres
		p.require(pg.DSN != "", "store.postgres.dsn is required for the postgres backend")
		p.require(pg.MaxConns >= 1, "store.postgres.max_conns must be at least 1, got %d", pg.MaxConns)
		p.require(pg.MinConns >= 0 && pg.MinConns <= pg.MaxConns,
			"store.postgres.min_conns %d is outside 0-max_conns", pg.MinConns)
	}
}

func (c *CacheConfig) check(p *problems, redis RedisConfig) {
	if !c.Enabled {
		return
	}
	p.oneOf("cache.backend", c.Backend, BackendMemory, BackendRedis)
	p.require(c.TTL > 0, "cache.ttl must be positive when the cache is enabled")
	if c.Backend == BackendRedis {
		p.require(redis.Addr != "", "store.redis.addr is required for the redis cache")
	}
}

func (r *ResilienceConfig) check(p *problems) {
	p.require(r.Timeout > 0, "resilience.timeout must be positive")
	p.require(r.Retry.MaxAttempts >= 1, "resilience.retry.max_attempts must be at least 1, got %d", r.Retry.MaxAttempts)
	p.require(r.Retry.Multiplier > 0, "resilience.retry.multiplier must be positive, got %g", r.Retry.Multiplier)
	p.require(r.CircuitBreaker.MaxFailures >= 1,
		"resilience.circuit_breaker.max_failures must be at least 1, got %d", r.CircuitBreaker.MaxFailures)

	rl := r.RateLimit
	p.require(rl.RequestsPerSecond >= 0, "resilience.rate_limit.requests_per_second must not be negative")
	p.require(rl.RequestsPerSecond == 0 || rl.BurstSize >= 1,
		"resilience.rate_limit.burst_size must be at least 1 when limiting, got %d", rl.BurstSize)
}

func (t *TelemetryConfig) check(p *problems) {
	if !t.Enabled {
		return
	}
	p.oneOf("telemetry.exporter", t.Exporter, "stdout", "otlp")
	p.require(t.Exporter != "otlp" || t.Endpoint != "", "telemetry.endpoint is required for the otlp exporter")
}
