// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file search order.
var DefaultConfigPaths = []string{
	"menurec.yaml",
	"menurec.yml",
	"/etc/menurec/config.yaml",
	"/etc/menurec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "MENUREC_CONFIG"

// envPrefix is stripped from environment variable names before mapping.
const envPrefix = "MENUREC_"

// Load builds the configuration from defaults, the config file and the
// environment, then validates it. An empty path searches MENUREC_CONFIG and
// DefaultConfigPaths; a non-empty path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// MENUREC_LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"engine.filter.custom_rules",
	"mlbridge.args",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased variable names, prefix stripped, to config keys.
var envMappings = map[string]string{
	// Logging
	"log_level":     "logging.level",
	"log_format":    "logging.format",
	"log_caller":    "logging.caller",
	"log_timestamp": "logging.timestamp",

	// Engine
	"scoring_strategy":  "engine.strategies.scoring",
	"feedback_strategy": "engine.strategies.feedback",
	"filter_mode":       "engine.filter.mode",
	"custom_rules":      "engine.filter.custom_rules",
	"default_count":     "engine.limits.default_count",
	"max_count":         "engine.limits.max_count",
	"scoring_workers":   "engine.limits.scoring_workers",
	"request_timeout":   "engine.limits.request_timeout",
	"diversity_lambda":  "engine.limits.diversity_lambda",

	// Trending
	"trending_top_n":            "engine.trending.top_n",
	"trending_default_window":   "engine.trending.default_window",
	"trending_refresh_interval": "trending.refresh_interval",

	// ML bridge
	"mlbridge_enabled":       "mlbridge.enabled",
	"mlbridge_command":       "mlbridge.command",
	"mlbridge_args":          "mlbridge.args",
	"mlbridge_method":        "mlbridge.client.method",
	"mlbridge_timeout":       "mlbridge.client.timeout",
	"mlbridge_rate_limit":    "mlbridge.client.rate_limit",
	"mlbridge_burst":         "mlbridge.client.burst",
	"mlbridge_cache_size":    "mlbridge.client.cache_size",
	"mlbridge_cache_ttl":     "mlbridge.client.cache_ttl",
	"mlbridge_breaker_ratio": "mlbridge.client.breaker_failure_ratio",

	// Store
	"store_enabled":           "store.enabled",
	"store_path":              "store.path",
	"store_sync_writes":       "store.sync_writes",
	"store_snapshot_interval": "store.snapshot_interval",

	// Events
	"events_enabled":     "events.enabled",
	"events_transport":   "events.bus.transport",
	"events_buffer_size": "events.bus.buffer_size",
	"events_max_retries": "events.bus.retry_max_retries",
	"nats_url":           "events.bus.nats.url",
	"nats_port":          "events.bus.nats.port",
	"nats_store_dir":     "events.bus.nats.store_dir",

	// Metrics
	"metrics_enabled":     "metrics.enabled",
	"metrics_addr":        "metrics.addr",
	"metrics_path":        "metrics.path",
	"metrics_rate_limit":  "metrics.rate_limit",
	"metrics_rate_window": "metrics.rate_window",

	// Supervisor
	"shutdown_timeout": "supervisor.shutdown_timeout",
}

// envTransformFunc maps MENUREC_* variables to config keys. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return envMappings[key]
}
