// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package algorithms

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Content weights.
const (
	contentVegetarianMatch    = 0.8
	contentNonVegetarianMatch = 0.6
	contentPriceInRange       = 0.5
	contentPriceOutOfRange    = 0.3 // multiplier
	contentSpicyTolerated     = 0.4
	contentSpicyIntolerant    = 0.5 // multiplier
	contentCategoryWeight     = 0.3
	contentSpiceThreshold     = 3

	// explanation threshold for category affinity
	contentCategoryAffinity = 0.5

	contentExplanationPrefix = "Recommended based on your preferences"
)

// Content scores items from the profile's explicit preferences:
//
//	score = diet + price + spice + 0.3 * categoryPref(category)
//
// where diet is 0.8 for a vegetarian match and 0.6 for a non-vegetarian
// match, price adds 0.5 inside the range and otherwise scales the running
// score by 0.3, and spice adds 0.4 when the user tolerates level 3+ and
// otherwise halves the running score. The result is clamped to [0, 1].
//
// Content does not learn from feedback. Learn only counts positive and
// negative events for observability.
type Content struct {
	BaseStrategy

	positive atomic.Int64
	negative atomic.Int64
}

// NewContent creates a content-based strategy.
func NewContent(categories recommend.CategoryResolver, logger zerolog.Logger) *Content {
	return &Content{
		BaseStrategy: NewBaseStrategy(recommend.ScoringContent, categories, logger),
	}
}

// Score returns the content score of item for profile in [0, 1].
func (c *Content) Score(item *recommend.Item, profile *recommend.UserProfile) float64 {
	if item == nil || profile == nil {
		return 0
	}

	score := 0.0

	if profile.Vegetarian && item.IsVegetarian() {
		score += contentVegetarianMatch
	} else if !profile.Vegetarian && !item.IsVegetarian() {
		score += contentNonVegetarianMatch
	}

	if profile.IsPriceInRange(item.Price) {
		score += contentPriceInRange
	} else {
		score *= contentPriceOutOfRange
	}

	if item.IsSpicy() {
		if profile.SpiceLevel >= contentSpiceThreshold {
			score += contentSpicyTolerated
		} else {
			score *= contentSpicyIntolerant
		}
	}

	score += profile.CategoryPreference(c.categoryName(item)) * contentCategoryWeight

	return recommend.Clamp01(score)
}

// Similarity returns the mean ingredient preference of the item, clamped to
// [0, 1]. Items without ingredients have similarity 0.
func (c *Content) Similarity(profile *recommend.UserProfile, item *recommend.Item) float64 {
	if item == nil || profile == nil || len(item.Ingredients) == 0 {
		return 0
	}

	total := 0.0
	for _, ing := range item.Ingredients {
		total += profile.IngredientPreference(ing)
	}
	return recommend.Clamp01(total / float64(len(item.Ingredients)))
}

// Rank orders available candidates by Score.
func (c *Content) Rank(ctx context.Context, candidates []*recommend.Item, profile *recommend.UserProfile, limit int) []*recommend.Item {
	return recommend.RankByScore(ctx, candidates, limit, func(item *recommend.Item) float64 {
		return c.Score(item, profile)
	})
}

// Learn records the polarity of the event. Neutral ratings are ignored.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value to match the interface
func (c *Content) Learn(_ context.Context, event recommend.FeedbackEvent) {
	switch {
	case event.Rating >= 4:
		c.positive.Add(1)
		c.logger.Debug().Str("user_id", event.UserID).Str("item_id", event.ItemID).
			Float64("rating", event.Rating).Msg("positive feedback")
	case event.Rating <= 2:
		c.negative.Add(1)
		c.logger.Debug().Str("user_id", event.UserID).Str("item_id", event.ItemID).
			Float64("rating", event.Rating).Msg("negative feedback")
	}
}

// FeedbackCounts returns the number of positive and negative events seen.
func (c *Content) FeedbackCounts() (positive, negative int64) {
	return c.positive.Load(), c.negative.Load()
}

// Explain lists the content factors that favored the item.
func (c *Content) Explain(item *recommend.Item, profile *recommend.UserProfile) string {
	if item == nil || profile == nil {
		return contentExplanationPrefix
	}

	var reasons []string
	if profile.Vegetarian && item.IsVegetarian() {
		reasons = append(reasons, "vegetarian choice")
	}
	if profile.IsPriceInRange(item.Price) {
		reasons = append(reasons, "within your budget")
	}
	category := c.categoryName(item)
	if profile.CategoryPreference(category) > contentCategoryAffinity {
		reasons = append(reasons, "matches your "+strings.ToLower(category)+" preference")
	}

	if len(reasons) == 0 {
		return contentExplanationPrefix
	}
	return contentExplanationPrefix + ": " + strings.Join(reasons, ", ")
}
