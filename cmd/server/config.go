package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type config struct {
	Addr            string
	HistoryLimit    int
	LogLevel        string
	ShutdownTimeout time.Duration
}

func configFromEnv(getenv func(string) string) (config, error) {
	cfg := config{
		Addr:            getenvDefault(getenv, "HTTP_ADDR", ":8080"),
		LogLevel:        getenvDefault(getenv, "LOG_LEVEL", "info"),
		ShutdownTimeout: 10 * time.Second,
	}
	if raw := strings.TrimSpace(getenv("HISTORY_LIMIT")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return config{}, fmt.Errorf("HISTORY_LIMIT must be a non-negative integer, got %q", raw)
		}
		cfg.HistoryLimit = n
	}
	if raw := strings.TrimSpace(getenv("SHUTDOWN_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration, got %q", raw)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

func getenvDefault(getenv func(string) string, key string, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
