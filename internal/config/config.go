package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Telemetry TelemetryConfig
	Messaging MessagingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// TelemetryConfig selects the trace exporter. An empty exporter disables tracing.
type TelemetryConfig struct {
	ServiceName  string
	Exporter     string
	OTLPEndpoint string
}

// MessagingConfig points the decision publisher at SQS. An empty queue URL disables publishing.
type MessagingConfig struct {
	AWSRegion        string
	AWSEndpoint      string
	DecisionQueueURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "cmlabs-hris")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_EXPIRATION_TIME", "1h")

	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("OTEL_SERVICE_NAME", "hris-checkclock")
	v.SetDefault("OTEL_EXPORTER", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	v.SetDefault("AWS_REGION", "ap-southeast-1")
	v.SetDefault("AWS_ENDPOINT", "")
	v.SetDefault("DECISION_SQS_QUEUE_URL", "")
}

// Load reads .env when present, then environment variables over defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	accessExpiration, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRATION_TIME"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET_KEY"),
			AccessExpiration: accessExpiration,
		},
		App: AppConfig{
			Port:           v.GetInt("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			Timezone:       v.GetString("APP_TIMEZONE"),
			AllowedOrigins: validator.SplitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			Exporter:     strings.ToLower(v.GetString("OTEL_EXPORTER")),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
		Messaging: MessagingConfig{
			AWSRegion:        v.GetString("AWS_REGION"),
			AWSEndpoint:      v.GetString("AWS_ENDPOINT"),
			DecisionQueueURL: v.GetString("DECISION_SQS_QUEUE_URL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	switch c.Telemetry.Exporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("OTEL_EXPORTER must be one of: stdout, otlp")
	}
	return nil
}

// Location returns the zone used to decide "today".
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
