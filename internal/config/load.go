package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvStorageKind    = "CORPIS_STORAGE_KIND"
	EnvDSN            = "CORPIS_DSN"
	EnvExportWorkers  = "CORPIS_EXPORT_WORKERS"
	EnvMetricsBackend = "METRICS_BACKEND"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvDatadogAddr    = "DD_AGENT_ADDR"
)

// Load builds the effective configuration: defaults, then the JSON file at
// path (skipped when path is empty), then the environment. Variables from a
// .env file in the working directory are loaded first without overriding the
// real environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from getenv. Empty variables are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvStorageKind); v != "" {
		cfg.Storage.Kind = v
	}
	if v := getenv(EnvDSN); v != "" {
		cfg.Storage.DSN = v
	}
	if v := getenv(EnvExportWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvExportWorkers, err)
		}
		cfg.Runtime.ExportWorkers = n
	}
	if v := getenv(EnvMetricsBackend); v != "" {
		cfg.Metrics.Backend = v
	}
	if v := getenv(EnvPushgatewayURL); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
	if v := getenv(EnvDatadogAddr); v != "" {
		cfg.Metrics.DatadogAddr = v
	}
	return nil
}
