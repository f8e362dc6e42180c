package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Gateway  GatewayConfig
	Worker   WorkerConfig
}

type HTTPConfig struct {
	Port         int
	AllowOrigins []string
}

type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
}

type GatewayConfig struct {
	// TimeoutRate is the percentage of captures that settle at the gateway
	// but report a timeout back, leaving a pending payment for the
	// reconciliation worker.
	TimeoutRate int
}

type WorkerConfig struct {
	Interval   time.Duration
	PendingAge time.Duration
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	return &Config{
		HTTP: HTTPConfig{
			Port:         getEnvInt("HTTP_PORT", 8080),
			AllowOrigins: strings.Split(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"), ","),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			Database: getEnv("POSTGRES_DATABASE", "shopline"),
			Username: getEnv("POSTGRES_USERNAME", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Schema:   getEnv("POSTGRES_SCHEMA", "public"),
		},
		Gateway: GatewayConfig{
			TimeoutRate: getEnvInt("GATEWAY_TIMEOUT_RATE", 0),
		},
		Worker: WorkerConfig{
			Interval:   getEnvDuration("RECONCILE_INTERVAL", 30*time.Second),
			PendingAge: getEnvDuration("RECONCILE_PENDING_AGE", time.Minute),
		},
	}, nil
}

func (c *Config) Validate() error {
	if c.Postgres.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DATABASE is required")
	}
	if c.Gateway.TimeoutRate < 0 || c.Gateway.TimeoutRate > 100 {
		return fmt.Errorf("GATEWAY_TIMEOUT_RATE must be between 0 and 100")
	}
	return nil
}

// DSN builds the pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Schema,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
