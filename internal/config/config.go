// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "splitledger-dev-secret"

// Config holds everything cmd/server needs to start.
type Config struct {
	Env                 string
	Port                int
	DBPath              string
	JWTSecret           string
	TokenTTL            time.Duration
	LogLevel            string
	LogFormat           string
	DefaultMonthlyLimit float64
	DefaultCurrency     string
	// HistoryWindow bounds how far back transactions are read for group
	// summaries and settlement plans. Older debts and the settlements that
	// paid them fall out of the window separately, so a windowed balance
	// can differ from the full one, sign included. The personal dashboard
	// ignores it. Zero reads everything.
	HistoryWindow time.Duration
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsDev reports whether the server runs with development defaults.
func (c *Config) IsDev() bool {
	return c.Env != "production"
}

// UsesDevSecret reports whether tokens are signed with the built-in secret.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the configuration from environment variables, applying defaults
// for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Env:             strings.ToLower(getEnv("APP_ENV", "development")),
		DBPath:          getEnv("DB_PATH", "./data/ledger.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
	}

	var errs []error

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", os.Getenv("PORT")))
	}
	cfg.Port = port

	cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || cfg.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL")))
	}

	cfg.HistoryWindow, err = time.ParseDuration(getEnv("HISTORY_WINDOW", "0s"))
	if err != nil || cfg.HistoryWindow < 0 {
		errs = append(errs, fmt.Errorf("invalid HISTORY_WINDOW %q", os.Getenv("HISTORY_WINDOW")))
	}

	cfg.DefaultMonthlyLimit, err = strconv.ParseFloat(getEnv("DEFAULT_MONTHLY_LIMIT", "2000"), 64)
	if err != nil || cfg.DefaultMonthlyLimit < 0 {
		errs = append(errs, fmt.Errorf("invalid DEFAULT_MONTHLY_LIMIT %q", os.Getenv("DEFAULT_MONTHLY_LIMIT")))
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat))
	}

	if len(cfg.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("invalid DEFAULT_CURRENCY %q", cfg.DefaultCurrency))
	}

	if cfg.JWTSecret == "" {
		if cfg.IsDev() {
			cfg.JWTSecret = devJWTSecret
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
