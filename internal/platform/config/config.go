// Package config holds the accounts service settings and loads them from
// layered YAML profiles plus APP_* environment overrides (see Load).
package config

import "time"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	App        AppConfig        `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Store      StoreConfig      `koanf:"store"`
	Cache      CacheConfig      `koanf:"cache"`
	Resilience ResilienceConfig `koanf:"resilience"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

// ServerConfig configures the HTTP listener. RequestTimeout bounds each
// request through the timeout middleware; zero disables it.
type ServerConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
}

// LogConfig selects the slog level and output format. Debug picks the
// debug level when Level is empty.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Debug  bool   `koanf:"debug"`
}

// StoreConfig selects and configures the entity store backend.
type StoreConfig struct {
	Backend  string         `koanf:"backend"`
	Postgres PostgresConfig `koanf:"postgres"`
	Redis    RedisConfig    `koanf:"redis"`
}

// PostgresConfig holds pgx pool settings.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// RedisConfig holds go-redis client settings. It is shared by the redis
// store backend and the redis cache backend.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	DB        int    `koanf:"db"`
	Password  string `koanf:"password"`
	KeyPrefix string `koanf:"key_prefix"`
}

// CacheConfig configures the read-through cache in front of the store.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`
}

// ResilienceConfig holds the policies applied to remote store backends.
type ResilienceConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig shapes the exponential backoff applied to store reads.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig trips the store breaker after MaxFailures
// consecutive failures and probes again after Timeout.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds token bucket settings. A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig switches OpenTelemetry export on and picks the exporter.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// Remote reports whether the configured store backend is reached over the network.
func (s StoreConfig) Remote() bool {
	return s.Backend == BackendRedis || s.Backend == BackendPostgres
}
