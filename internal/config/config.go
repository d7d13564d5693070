// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the calculator service settings.
type Config struct {
	Addr                string
	Locale              string
	HistoryCapacity     int
	SessionMaxIdle      time.Duration
	SessionSweepEvery   time.Duration
	StaticDir           string
	OTelLogsEnabled     bool
	ShutdownGracePeriod time.Duration
}

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration using lookup, applying defaults for
// unset variables.
func LoadFrom(lookup LookupFunc) (Config, error) {
	cfg := Config{
		Addr:                ":8080",
		Locale:              "es-ES",
		HistoryCapacity:     10,
		SessionMaxIdle:      30 * time.Minute,
		SessionSweepEvery:   time.Minute,
		ShutdownGracePeriod: 5 * time.Second,
	}

	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CALC_LOCALE"); ok && v != "" {
		cfg.Locale = v
	}
	if v, ok := lookup("CALC_STATIC_DIR"); ok {
		cfg.StaticDir = v
	}

	var err error
	if cfg.HistoryCapacity, err = intVar(lookup, "CALC_HISTORY_CAPACITY", cfg.HistoryCapacity); err != nil {
		return Config{}, err
	}
	if cfg.HistoryCapacity < 0 {
		return Config{}, fmt.Errorf("CALC_HISTORY_CAPACITY must not be negative, got %d", cfg.HistoryCapacity)
	}
	if cfg.SessionMaxIdle, err = durationVar(lookup, "CALC_SESSION_MAX_IDLE", cfg.SessionMaxIdle); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweepEvery, err = durationVar(lookup, "CALC_SESSION_SWEEP_INTERVAL", cfg.SessionSweepEvery); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownGracePeriod, err = durationVar(lookup, "SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("OTEL_LOGS_ENABLED"); ok && v != "" {
		cfg.OTelLogsEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse OTEL_LOGS_ENABLED: %w", err)
		}
	}

	return cfg, nil
}

func intVar(lookup LookupFunc, key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func durationVar(lookup LookupFunc, key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}
