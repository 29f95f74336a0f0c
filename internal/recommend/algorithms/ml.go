// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package algorithms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/mlbridge"
	"github.com/tomtom215/menurec/internal/recommend"
)

// scoreTimeout bounds a bridge prediction made from Score, which has no
// caller context.
const scoreTimeout = 2 * time.Second

// Predictor is the subset of mlbridge.Client used by ML.
type Predictor interface {
	PredictRating(ctx context.Context, userID, itemID string) mlbridge.Prediction
	UpdateFeedback(ctx context.Context, event recommend.FeedbackEvent) error
}

// ML scores items with an external model's predicted rating, blended with a
// local strategy by the model's confidence:
//
//	score = c * rating/5 + (1 - c) * fallback.Score(item)
//
// When the bridge returns its fallback prediction, ML scores with the local
// strategy alone.
type ML struct {
	BaseStrategy

	predictor Predictor
	fallback  recommend.ScoringStrategy
}

// NewML creates a bridge-backed strategy degrading to fallback.
func NewML(predictor Predictor, fallback recommend.ScoringStrategy, logger zerolog.Logger) *ML {
	return &ML{
		BaseStrategy: NewBaseStrategy(recommend.ScoringML, nil, logger),
		predictor:    predictor,
		fallback:     fallback,
	}
}

// Fallback returns the local strategy.
func (m *ML) Fallback() recommend.ScoringStrategy {
	return m.fallback
}

// Score blends the predicted rating with the local score.
func (m *ML) Score(item *recommend.Item, profile *recommend.UserProfile) float64 {
	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()
	return m.score(ctx, item, profile)
}

func (m *ML) score(ctx context.Context, item *recommend.Item, profile *recommend.UserProfile) float64 {
	if item == nil || profile == nil {
		return 0
	}

	local := m.fallback.Score(item, profile)
	p := m.predictor.PredictRating(ctx, profile.UserID, item.ID)
	if p.IsFallback() {
		return local
	}
	return recommend.Clamp01(p.Confidence*(p.Rating/5.0) + (1-p.Confidence)*local)
}

// Similarity delegates to the local strategy.
func (m *ML) Similarity(profile *recommend.UserProfile, item *recommend.Item) float64 {
	return m.fallback.Similarity(profile, item)
}

// Rank orders available candidates by the blended score, using ctx for
// bridge calls.
func (m *ML) Rank(ctx context.Context, candidates []*recommend.Item, profile *recommend.UserProfile, limit int) []*recommend.Item {
	return recommend.RankByScore(ctx, candidates, limit, func(item *recommend.Item) float64 {
		return m.score(ctx, item, profile)
	})
}

// Learn trains the local strategy and forwards the event to the model.
// Bridge failures are logged, not returned.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value to match the interface
func (m *ML) Learn(ctx context.Context, event recommend.FeedbackEvent) {
	m.fallback.Learn(ctx, event)
	if err := m.predictor.UpdateFeedback(ctx, event); err != nil {
		m.logger.Warn().Err(err).Str("user_id", event.UserID).Str("item_id", event.ItemID).Msg("model feedback update failed")
	}
}

// Explain reports the model prediction, or the local explanation when the
// model is unavailable.
func (m *ML) Explain(item *recommend.Item, profile *recommend.UserProfile) string {
	if item == nil || profile == nil {
		return m.fallback.Explain(item, profile)
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	p := m.predictor.PredictRating(ctx, profile.UserID, item.ID)
	if p.IsFallback() {
		return m.fallback.Explain(item, profile)
	}
	return fmt.Sprintf("Predicted rating %.1f/5.0 by the %s model (confidence %.0f%%)", p.Rating, p.Method, p.Confidence*100)
}
