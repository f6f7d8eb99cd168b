package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `env:"GO_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Port        string `env:"PORT" envDefault:"8080"`

	// ActivitiesAPIURL is the base URL of the activities server.
	ActivitiesAPIURL string        `env:"ACTIVITIES_API_URL" envDefault:"http://localhost:8000"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	NoticeTTL     time.Duration `env:"NOTICE_TTL" envDefault:"5s"`
	NoticeStore   string        `env:"NOTICE_STORE" envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	ConfirmSecret string        `env:"CONFIRM_SECRET"`
	ConfirmTTL    time.Duration `env:"CONFIRM_TTL" envDefault:"2m"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Mail Mail

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"activity-signup"`
}

// Mail configures participant receipts.
type Mail struct {
	Provider           string `env:"MAIL_PROVIDER" envDefault:"noop"`
	FromAddress        string `env:"MAIL_FROM_ADDRESS" envDefault:"activities@example.com"`
	FromName           string `env:"MAIL_FROM_NAME" envDefault:"Activities"`
	Region             string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID        string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	InsecureSkipVerify bool   `env:"SES_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	// In production the process environment is the only source.
	if goEnv != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) validate() error {
	if c.ActivitiesAPIURL == "" {
		return fmt.Errorf("ACTIVITIES_API_URL is required")
	}
	switch c.NoticeStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("NOTICE_STORE must be memory or redis, got %q", c.NoticeStore)
	}
	if c.NoticeTTL <= 0 {
		return fmt.Errorf("NOTICE_TTL must be positive")
	}
	if c.ConfirmTTL <= 0 {
		return fmt.Errorf("CONFIRM_TTL must be positive")
	}
	if c.ConfirmSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("CONFIRM_SECRET is required in production")
		}
		c.ConfirmSecret = "dev-confirm-secret"
	}
	return nil
}
