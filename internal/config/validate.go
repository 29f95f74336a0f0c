// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/validation"
)

// Validate checks struct tags first, then cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.validateMLBridge(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateMetrics()
}

func (c *Config) validateMLBridge() error {
	if c.Engine.Strategies.Scoring == recommend.ScoringML && !c.MLBridge.Enabled {
		return errors.New("engine.strategies.scoring ml requires mlbridge.enabled")
	}
	if !c.MLBridge.Enabled {
		return nil
	}
	if strings.TrimSpace(c.MLBridge.Command) == "" {
		return errors.New("mlbridge.command is required when mlbridge is enabled")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Enabled && strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path is required when store is enabled")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if !c.Metrics.Enabled {
		return nil
	}
	if c.Metrics.Addr == "" {
		return errors.New("metrics.addr is required when metrics are enabled")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	if c.Metrics.RateLimit > 0 && c.Metrics.RateWindow <= 0 {
		return errors.New("metrics.rate_window must be positive when metrics.rate_limit is set")
	}
	return nil
}
