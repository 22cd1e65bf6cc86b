// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage, rate limiting, messaging and observability settings.
//
// A .env file in the working directory, when present, is loaded first;
// variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// CORSConfig defines Cross-Origin Resource Sharing settings (CORS_*).
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `envconfig:"ENABLE_HSTS" default:"false"`
	HSTSMaxAge time.Duration `envconfig:"HSTS_MAX_AGE" default:"4320h"`
}

// OTELConfig defines OpenTelemetry observability settings (OTEL_*).
type OTELConfig struct {
	Enabled     bool    `envconfig:"ENABLED" default:"false"`
	Endpoint    string  `envconfig:"EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	Insecure    bool    `envconfig:"EXPORTER_OTLP_INSECURE" default:"true"`
	ServiceName string  `envconfig:"SERVICE_NAME" default:"go-ticket-backend"`
	SampleRatio float64 `envconfig:"TRACES_SAMPLER_ARG" default:"1.0"` // [0..1]
}

// KafkaConfig defines the event publisher settings (KAFKA_*). Publishing is
// off when Brokers is empty.
type KafkaConfig struct {
	Brokers string `envconfig:"BROKERS"` // comma-separated host:port list
	Topic   string `envconfig:"TOPIC" default:"ticketdesk.events"`
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `envconfig:"PORT" default:"8000"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"20s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxHeaderBytes    int           `envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	GinMode           string        `envconfig:"GIN_MODE" default:"release"` // debug|release|test

	// Logging / Docs
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error|fatal|panic
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	SwaggerEnabled bool   `envconfig:"SWAGGER_ENABLED" default:"false"`
	APIBasePath    string `envconfig:"API_BASE_PATH" default:"/"`

	// API compatibility: original status codes and failure bodies.
	LegacyResponses bool `envconfig:"LEGACY_RESPONSES" default:"false"`

	// Storage
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath      string `envconfig:"DB_PATH" default:"tickets.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	// Tickets
	ClosingWindow time.Duration `envconfig:"TICKET_CLOSING_WINDOW" default:"24h"`

	// Rate limiting
	RateRPS   float64 `envconfig:"RATE_RPS" default:"5"`    // tokens per second (>= 0)
	RateBurst int     `envconfig:"RATE_BURST" default:"10"` // bucket size (>= 1)

	// Idempotency
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	CORS     CORSConfig     `ignored:"true"`
	Security SecurityConfig `ignored:"true"`
	OTEL     OTELConfig     `ignored:"true"`
	Kafka    KafkaConfig    `ignored:"true"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the environment (and .env), applies
// defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	sections := []struct {
		prefix string
		dst    any
	}{
		{"", &cfg},
		{"CORS", &cfg.CORS},
		{"", &cfg.Security},
		{"OTEL", &cfg.OTEL},
		{"KAFKA", &cfg.Kafka},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.dst); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}

	normalize(&cfg)
	return cfg, validate(cfg)
}

func normalize(cfg *Config) {
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == "sqlite3" {
		cfg.DBDriver = DriverSQLite
	}

	cfg.APIBasePath = normalizeBasePath(cfg.APIBasePath)
	cfg.CORS.AllowedOrigins = trimAll(cfg.CORS.AllowedOrigins)
}

func validate(cfg Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 ||
		cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.ClosingWindow <= 0 {
		return errors.New("TICKET_CLOSING_WINDOW must be > 0")
	}
	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// trimAll drops blank entries and surrounding spaces from a CSV-split list.
func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
