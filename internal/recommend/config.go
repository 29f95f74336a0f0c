// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"fmt"
	"slices"
	"time"
)

// Strategy names accepted by Config.
const (
	ScoringContent       = "content"
	ScoringCollaborative = "collaborative"
	ScoringML            = "ml"

	FeedbackSimple   = "simple"
	FeedbackAdvanced = "advanced"
)

// Filter combination modes.
const (
	FilterModeStrict  = "strict"
	FilterModeLenient = "lenient"
)

// Config contains the behavioral configuration for the recommendation pipeline.
type Config struct {
	// Strategies selects the scoring and feedback variants.
	Strategies StrategyConfig `json:"strategies" koanf:"strategies"`

	// Filter controls the custom filter stage set.
	Filter FilterConfig `json:"filter" koanf:"filter"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Trending contains aggregator parameters.
	Trending TrendingConfig `json:"trending" koanf:"trending"`
}

// StrategyConfig selects strategy implementations by name.
type StrategyConfig struct {
	// Scoring is one of "content", "collaborative", "ml".
	// Default: "content".
	Scoring string `json:"scoring" koanf:"scoring" validate:"oneof=content collaborative ml"`

	// Feedback is one of "simple", "advanced".
	// Default: "advanced".
	Feedback string `json:"feedback" koanf:"feedback" validate:"oneof=simple advanced"`
}

// FilterConfig controls the custom stage set applied last in the pipeline.
type FilterConfig struct {
	// Mode is "strict" (all stages must accept) or "lenient" (any stage).
	// Default: "strict".
	Mode string `json:"mode" koanf:"mode" validate:"oneof=strict lenient"`

	// CustomRules are named rule strings such as "price_under_50".
	CustomRules []string `json:"custom_rules" koanf:"custom_rules"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultCount is used when a request does not specify a count.
	// Default: 5.
	DefaultCount int `json:"default_count" koanf:"default_count" validate:"gte=1"`

	// MaxCount caps the number of returned items.
	// Default: 50.
	MaxCount int `json:"max_count" koanf:"max_count" validate:"gte=1"`

	// ScoringWorkers bounds parallel candidate scoring.
	// Default: 4.
	ScoringWorkers int `json:"scoring_workers" koanf:"scoring_workers" validate:"gte=1"`

	// RequestTimeout bounds the personalized path of a single request.
	// Default: 2s.
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`

	// DiversityLambda is the MMR relevance weight applied before truncation.
	// 1.0 keeps the ranked order. Default: 1.0.
	DiversityLambda float64 `json:"diversity_lambda" koanf:"diversity_lambda" validate:"gte=0,lte=1"`
}

// TrendingConfig contains trending aggregator parameters.
type TrendingConfig struct {
	// TopN is the number of items returned by a trending query.
	// Default: 10.
	TopN int `json:"top_n" koanf:"top_n" validate:"gte=1"`

	// DefaultWindow is the window label used for cold start.
	// Default: "24h".
	DefaultWindow string `json:"default_window" koanf:"default_window"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Strategies: StrategyConfig{
			Scoring:  ScoringContent,
			Feedback: FeedbackAdvanced,
		},
		Filter: FilterConfig{
			Mode: FilterModeStrict,
		},
		Limits: LimitsConfig{
			DefaultCount:    5,
			MaxCount:        50,
			ScoringWorkers:  4,
			RequestTimeout:  2 * time.Second,
			DiversityLambda: 1.0,
		},
		Trending: TrendingConfig{
			TopN:          10,
			DefaultWindow: "24h",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !slices.Contains([]string{ScoringContent, ScoringCollaborative, ScoringML}, c.Strategies.Scoring) {
		return fmt.Errorf("strategies.scoring must be one of content, collaborative, ml, got %q", c.Strategies.Scoring)
	}
	if !slices.Contains([]string{FeedbackSimple, FeedbackAdvanced}, c.Strategies.Feedback) {
		return fmt.Errorf("strategies.feedback must be one of simple, advanced, got %q", c.Strategies.Feedback)
	}

	if c.Filter.Mode != FilterModeStrict && c.Filter.Mode != FilterModeLenient {
		return fmt.Errorf("filter.mode must be strict or lenient, got %q", c.Filter.Mode)
	}

	if c.Limits.DefaultCount < 1 {
		return fmt.Errorf("limits.default_count must be positive, got %d", c.Limits.DefaultCount)
	}
	if c.Limits.MaxCount < c.Limits.DefaultCount {
		return fmt.Errorf("limits.max_count must be >= limits.default_count, got %d < %d", c.Limits.MaxCount, c.Limits.DefaultCount)
	}
	if c.Limits.ScoringWorkers < 1 {
		return fmt.Errorf("limits.scoring_workers must be positive, got %d", c.Limits.ScoringWorkers)
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}

	if c.Limits.DiversityLambda < 0 || c.Limits.DiversityLambda > 1 {
		return fmt.Errorf("limits.diversity_lambda must be in [0, 1], got %v", c.Limits.DiversityLambda)
	}

	if c.Trending.TopN < 1 {
		return fmt.Errorf("trending.top_n must be positive, got %d", c.Trending.TopN)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Filter.CustomRules = slices.Clone(c.Filter.CustomRules)
	return &clone
}
