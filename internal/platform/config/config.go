package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	dErrors "leadcrm/pkg/domain-errors"
)

// DefaultJWTSigningKey is only acceptable outside production.
const DefaultJWTSigningKey = "dev-secret-key-change-in-production"

// Config is the full process configuration, loaded from the environment.
type Config struct {
	Environment string `env:"LEADCRM_ENV" envDefault:"development"`

	Server     Server
	Database   Database
	Redis      RedisConfig
	Auth       Auth
	Kafka      Kafka
	FormNumber FormNumber
	RateLimit  RateLimit
	Log        Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"LEADCRM_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"LEADCRM_REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"LEADCRM_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database configures Postgres. An empty URL selects in-memory stores.
type Database struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig configures the token revocation store. An empty URL selects
// the in-memory list.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Auth configures staff tokens and the operator admin token.
type Auth struct {
	JWTSigningKey  string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"leadcrm"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"8h"`
	AdminAPIToken  string        `env:"ADMIN_API_TOKEN"`
}

// Kafka configures domain event publishing. No brokers selects the log publisher.
type Kafka struct {
	Brokers           []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic             string   `env:"KAFKA_TOPIC" envDefault:"leadcrm.events"`
	Partitions        int32    `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	ReplicationFactor int16    `env:"KAFKA_TOPIC_REPLICATION" envDefault:"1"`
}

// FormNumber tunes the generator.
type FormNumber struct {
	MaxAttempts      int           `env:"FORM_NUMBER_MAX_ATTEMPTS" envDefault:"64"`
	MigrationTimeout time.Duration `env:"FORM_NUMBER_MIGRATION_TIMEOUT" envDefault:"30m"`
}

// RateLimit throttles unauthenticated writes (enquiries and logins) per
// client IP and route. Zero requests disables it.
type RateLimit struct {
	PublicWrites int           `env:"RATE_LIMIT_PUBLIC_WRITES" envDefault:"30"`
	Window       time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate rejects configurations that would start an unsafe or broken service.
func (c Config) Validate() error {
	if c.IsProduction() && c.Auth.JWTSigningKey == DefaultJWTSigningKey {
		return dErrors.New(dErrors.CodeInvalidInput, "JWT_SIGNING_KEY must be set in production")
	}
	if len(c.Auth.JWTSigningKey) < 16 {
		return dErrors.New(dErrors.CodeInvalidInput, "JWT_SIGNING_KEY must be at least 16 bytes")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.FormNumber.MaxAttempts < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "FORM_NUMBER_MAX_ATTEMPTS must be at least 1")
	}
	if c.FormNumber.MigrationTimeout < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "FORM_NUMBER_MIGRATION_TIMEOUT must not be negative")
	}
	if c.RateLimit.PublicWrites < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "RATE_LIMIT_PUBLIC_WRITES must not be negative")
	}
	if c.RateLimit.PublicWrites > 0 && c.RateLimit.Window <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "RATE_LIMIT_WINDOW must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}
