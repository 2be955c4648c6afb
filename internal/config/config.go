package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=chillers port=5432 sslmode=disable"
	defaultSQLiteDSN   = "./data/chillers.db"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort           string
	DatabaseDriver     string
	DatabaseDSN        string
	CORSOrigins        string
	PackagingRulesPath string // empty: embedded default table
	Env                string
	JWTSecret          string // empty: admin endpoints are not protected
	LogLevel           string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseDriver:     getEnv("DATABASE_DRIVER", DriverPostgres),
		CORSOrigins:        getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		PackagingRulesPath: getEnv("PACKAGING_RULES_PATH", ""),
		Env:                getEnv("APP_ENV", "production"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	defaultDSN := defaultPostgresDSN
	if cfg.DatabaseDriver == DriverSQLite {
		defaultDSN = defaultSQLiteDSN
	}
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", defaultDSN)

	return cfg
}

// Validate rejects configurations the server must not start with and logs
// warnings for development defaults.
func (c *Config) Validate() error {
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT must not be empty")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}

	if c.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, admin correction endpoints are unprotected")
	}
	if c.DatabaseDSN == defaultPostgresDSN {
		slog.Warn("DATABASE_DSN uses the local default, set it for production")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		slog.Warn("CORS_ALLOWED_ORIGINS uses the local default", "origins", c.CORSOrigins)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AuthEnabled reports whether admin routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
