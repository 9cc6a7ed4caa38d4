package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDataType       = "iv"
	defaultLookbackDays   = 7
	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "info"
)

// Config holds runtime configuration for the collector service.
type Config struct {
	DatabaseURL    string
	Site           string
	DataType       string
	LookbackDays   int
	RequestTimeout time.Duration
	LogLevel       string
	DryRun         bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		DataType:       defaultDataType,
		LookbackDays:   defaultLookbackDays,
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       defaultLogLevel,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.Site = strings.TrimSpace(os.Getenv("NWIS_SITE"))
	if cfg.Site == "" {
		return cfg, errors.New("NWIS_SITE is required")
	}

	if v := strings.TrimSpace(os.Getenv("NWIS_DATA_TYPE")); v != "" {
		cfg.DataType = v
	}

	if v := strings.TrimSpace(os.Getenv("COLLECTOR_LOOKBACK_DAYS")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			return cfg, fmt.Errorf("invalid COLLECTOR_LOOKBACK_DAYS: %s", v)
		}
		cfg.LookbackDays = days
	}

	if v := strings.TrimSpace(os.Getenv("COLLECTOR_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid COLLECTOR_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}
