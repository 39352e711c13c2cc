package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	PrometheusPort string
	LogLevel       string
	LogFormat      string

	StorageDriver     string
	DatabaseURL       string
	MigrationsPath    string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret        string
	JWTPublicKeyFile string
	JWTIssuer        string
	JWTAudience      string

	ItemVisibility     string
	CORSAllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
}

// Load reads a .env file when one exists, then loads configuration from
// environment variables. All invalid settings are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv loads configuration from environment variables only
func FromEnv() (*Config, error) {
	var errs *multierror.Error

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		PrometheusPort:   os.Getenv("PROMETHEUS_PORT"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "text"),
		StorageDriver:    strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MigrationsPath:   getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTPublicKeyFile: os.Getenv("JWT_PUBLIC_KEY_FILE"),
		JWTIssuer:        os.Getenv("JWT_ISSUER"),
		JWTAudience:      os.Getenv("JWT_AUDIENCE"),
		ItemVisibility:   getEnvOrDefault("ITEM_VISIBILITY", "adder"),
	}
	if _, set := os.LookupEnv("PROMETHEUS_PORT"); !set {
		cfg.PrometheusPort = "9090"
	}

	cfg.CORSAllowedOrigins = splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	var err error
	if cfg.DBMaxOpenConns, err = getIntOrDefault("DB_MAX_OPEN_CONNS", 25); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.DBMaxIdleConns, err = getIntOrDefault("DB_MAX_IDLE_CONNS", 5); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.DBConnMaxLifetime, err = getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.HTTPReadTimeout, err = getDurationOrDefault("HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.HTTPWriteTimeout, err = getDurationOrDefault("HTTP_WRITE_TIMEOUT", 15*time.Second); err != nil {
		errs = multierror.Append(errs, err)
	}

	// Required environment variables
	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			errs = multierror.Append(errs, fmt.Errorf("DATABASE_URL environment variable is required"))
		}
	case StorageMemory:
	default:
		errs = multierror.Append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q", StoragePostgres, StorageMemory))
	}

	switch strings.ToLower(cfg.ItemVisibility) {
	case "adder", "members", "surprise":
		cfg.ItemVisibility = strings.ToLower(cfg.ItemVisibility)
	default:
		errs = multierror.Append(errs, fmt.Errorf("ITEM_VISIBILITY must be adder, members or surprise, got %q", cfg.ItemVisibility))
	}

	if cfg.JWTSecret == "" && cfg.JWTPublicKeyFile == "" {
		errs = multierror.Append(errs, fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY_FILE environment variable is required"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultValue, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return v, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return defaultValue, fmt.Errorf("%s must be a duration such as 30s, got %q", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
