// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package algorithms implements the item scoring strategies of the
// recommendation pipeline.
//
// # Strategies
//
//   - Content: dietary flags, price range, spice tolerance and category affinity
//   - Collaborative: item popularity blended with similar-user evidence
//   - ML: an external model consulted through mlbridge, degrading to another strategy
//
// # Thread Safety
//
// All strategies are safe for concurrent use. Learn takes an exclusive lock
// while scoring uses a shared lock.
package algorithms

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

// BaseStrategy provides the common name and logger of every strategy.
type BaseStrategy struct {
	name       string
	logger     zerolog.Logger
	categories recommend.CategoryResolver
}

// NewBaseStrategy creates a base strategy. A nil resolver reads the category
// from the item itself.
func NewBaseStrategy(name string, categories recommend.CategoryResolver, logger zerolog.Logger) BaseStrategy {
	if categories == nil {
		categories = recommend.StaticCategories{}
	}
	return BaseStrategy{
		name:       name,
		logger:     logger.With().Str("strategy", name).Logger(),
		categories: categories,
	}
}

// Name returns the strategy identifier.
func (b *BaseStrategy) Name() string {
	return b.name
}

// categoryName resolves the item category, tolerating resolver panics.
func (b *BaseStrategy) categoryName(item *recommend.Item) (name string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn().Str("item_id", item.ID).Interface("panic", r).Msg("category resolver panicked")
			name = ""
		}
	}()
	return b.categories.CategoryName(item)
}

// Deps carries the collaborators a strategy may need.
type Deps struct {
	Categories recommend.CategoryResolver
	Logger     zerolog.Logger

	// Predictor and Fallback are required by the ML strategy only.
	Predictor Predictor
	Fallback  recommend.ScoringStrategy
}

// New returns the scoring strategy registered under name.
//
//nolint:gocritic // hugeParam: Deps is passed once at startup
func New(name string, deps Deps) (recommend.ScoringStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case recommend.ScoringContent:
		return NewContent(deps.Categories, deps.Logger), nil
	case recommend.ScoringCollaborative:
		return NewCollaborative(deps.Logger), nil
	case recommend.ScoringML:
		if deps.Predictor == nil {
			return nil, fmt.Errorf("ml strategy requires a predictor")
		}
		fallback := deps.Fallback
		if fallback == nil {
			fallback = NewContent(deps.Categories, deps.Logger)
		}
		return NewML(deps.Predictor, fallback, deps.Logger), nil
	default:
		return nil, fmt.Errorf("%w: scoring %q", recommend.ErrUnknownStrategy, name)
	}
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all strategies implement the interface.
var (
	_ recommend.ScoringStrategy = (*Content)(nil)
	_ recommend.ScoringStrategy = (*Collaborative)(nil)
	_ recommend.ScoringStrategy = (*ML)(nil)
)
