package config

import (
	"errors"
	"os"
)

// Config holds all splitter settings, populated from environment variables.
// The input file path is a positional command-line argument, not part of the
// environment.
type Config struct {
	OutDir      string
	StationVar  string
	FilePrefix  string
	MetricsAddr string // empty disables the metrics endpoint
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{
		OutDir:      envOrDefault("OUT_DIR", "."),
		StationVar:  envOrDefault("STATION_VAR", "STATION"),
		FilePrefix:  os.Getenv("FILE_PREFIX"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
	}

	if cfg.OutDir == "" {
		return nil, errors.New("OUT_DIR is required")
	}
	if cfg.StationVar == "" {
		return nil, errors.New("STATION_VAR is required")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, errors.New("LOG_FORMAT must be \"text\" or \"json\"")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
