package config

const (
	defaultServerPort = 8080

	defaultPostgresMaxConns = 10
	defaultPostgresMinConns = 1

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultRateLimitBurst = 50
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"app.name":    "accounts-service",
		"app.version": "0.0.0",

		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "10s",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "30s",
		"server.allowed_origins": []string{},

		"log.level":  "",
		"log.format": "json",
		"log.debug":  false,

		"store.backend":                    BackendMemory,
		"store.postgres.dsn":               "",
		"store.postgres.max_conns":         defaultPostgresMaxConns,
		"store.postgres.min_conns":         defaultPostgresMinConns,
		"store.postgres.conn_max_lifetime": "30m",
		"store.redis.addr":                 "localhost:6379",
		"store.redis.db":                   0,
		"store.redis.password":             "",
		"store.redis.key_prefix":           "accounts:",

		"cache.enabled": false,
		"cache.backend": BackendMemory,
		"cache.ttl":     "5m",

		"resilience.timeout":                         "5s",
		"resilience.retry.max_attempts":              defaultRetryMaxAttempts,
		"resilience.retry.initial_interval":          "100ms",
		"resilience.retry.max_interval":              "2s",
		"resilience.retry.multiplier":                defaultRetryMultiplier,
		"resilience.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"resilience.circuit_breaker.timeout":         "30s",
		"resilience.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"resilience.rate_limit.requests_per_second":  0,
		"resilience.rate_limit.burst_size":           defaultRateLimitBurst,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "accounts-service",
	}
}
