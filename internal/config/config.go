// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package config

import (
	"time"

	"github.com/tomtom215/menurec/internal/events"
	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/mlbridge"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/store"
	"github.com/tomtom215/menurec/internal/supervisor"
)

// Config is the complete menurec configuration.
type Config struct {
	Logging    LoggingConfig         `koanf:"logging"`
	Engine     recommend.Config      `koanf:"engine"`
	Trending   TrendingConfig        `koanf:"trending"`
	MLBridge   MLBridgeConfig        `koanf:"mlbridge"`
	Store      StoreConfig           `koanf:"store"`
	Events     EventsConfig          `koanf:"events"`
	Metrics    MetricsConfig         `koanf:"metrics"`
	Supervisor supervisor.TreeConfig `koanf:"supervisor"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	// Level is trace, debug, info, warn, error or disabled.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	Caller    bool `koanf:"caller"`
	Timestamp bool `koanf:"timestamp"`
}

// Logging converts the section to a logging.Config writing to stderr.
func (c LoggingConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Caller = c.Caller
	cfg.Timestamp = c.Timestamp
	return cfg
}

// TrendingConfig configures the supervised refresh loop. Ranking parameters
// live under engine.trending.
type TrendingConfig struct {
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`
}

// MLBridgeConfig configures the external model bridge.
type MLBridgeConfig struct {
	Enabled bool `koanf:"enabled"`

	// Command and Args start the bridge process for each request.
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`

	Client mlbridge.Config `koanf:"client"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Path             string        `koanf:"path"`
	SyncWrites       bool          `koanf:"sync_writes"`
	SnapshotInterval time.Duration `koanf:"snapshot_interval" validate:"gte=0"`
}

// Store converts the section to a store.Config.
func (c StoreConfig) Store() store.Config {
	return store.Config{Path: c.Path, SyncWrites: c.SyncWrites}
}

// EventsConfig configures the in-process event bus.
type EventsConfig struct {
	// Enabled routes feedback and orders through the bus. When false they
	// are applied inline.
	Enabled bool `koanf:"enabled"`

	Bus events.Config `koanf:"bus"`
}

// MetricsConfig configures the Prometheus endpoint of the serve command.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	Path    string `koanf:"path"`

	// RateLimit is the per-client request budget per RateWindow. Zero
	// disables limiting.
	RateLimit  int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow time.Duration `koanf:"rate_window"`
}

// defaultConfig returns the built-in defaults, the lowest configuration layer.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Caller:    false,
			Timestamp: true,
		},
		Engine: *recommend.DefaultConfig(),
		Trending: TrendingConfig{
			RefreshInterval: time.Minute,
		},
		MLBridge: MLBridgeConfig{
			Enabled: false,
			Command: "python3",
			Args:    []string{"ml_bridge.py"},
			Client:  mlbridge.DefaultConfig(),
		},
		Store: StoreConfig{
			Enabled:          false,
			Path:             "/var/lib/menurec",
			SyncWrites:       false,
			SnapshotInterval: 5 * time.Minute,
		},
		Events: EventsConfig{
			Enabled: true,
			Bus:     events.DefaultConfig(),
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			Addr:       ":9464",
			Path:       "/metrics",
			RateLimit:  600,
			RateWindow: time.Minute,
		},
		Supervisor: supervisor.DefaultTreeConfig(),
	}
}

// Default returns the built-in defaults.
func Default() *Config {
	return defaultConfig()
}
