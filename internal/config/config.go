// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and POKECALC_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Generation is the ruleset version used when a request does not name one.
	Generation int `koanf:"generation"`

	// WorkerCount sets the number of batch calculation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the batch job queue.
	QueueSize int `koanf:"queue_size"`

	// CacheSize bounds the result cache; <= 0 disables eviction.
	CacheSize int `koanf:"cache_size"`

	// HistorySize bounds the in-memory history store.
	HistorySize int `koanf:"history_size"`

	// HistoryPath selects a SQLite history database; empty keeps history in memory.
	HistoryPath string `koanf:"history_path"`

	// MaxBatchSize caps POST /calculate/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// CalcTimeoutMS bounds one batch call end to end.
	CalcTimeoutMS int `koanf:"calc_timeout_ms"`
}

// New creates a Config populated with defaults. The context is reserved for
// loaders that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		Generation:    5,
		WorkerCount:   runtime.NumCPU() * 2,
		QueueSize:     10_000,
		CacheSize:     50_000,
		HistorySize:   10_000,
		HistoryPath:   "",
		MaxBatchSize:  100,
		CalcTimeoutMS: 5_000,
	}
}
