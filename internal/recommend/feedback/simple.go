// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package feedback

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

// DefaultAverageRating is reported for users without rating history.
const DefaultAverageRating = 3.0

const simpleAdjustment = 0.3

var (
	simplePositive = []string{"good", "great", "excellent", "amazing", "delicious", "love"}
	simpleNegative = []string{"bad", "terrible", "awful", "hate", "disgusting", "worst"}
)

// Simple is the lightweight feedback strategy.
type Simple struct {
	learner
}

// NewSimple creates a Simple strategy.
func NewSimple(logger zerolog.Logger) *Simple {
	s := &Simple{}
	s.learner = newLearner(recommend.FeedbackSimple, s.AnalyzeSentiment, logger)
	return s
}

// AnalyzeSentiment starts at 0.5, adds 0.3 if any positive word occurs and
// subtracts 0.3 if any negative word occurs. Matching is by substring.
func (s *Simple) AnalyzeSentiment(text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0.5
	}

	sentiment := 0.5
	if containsAny(text, simplePositive) {
		sentiment += simpleAdjustment
	}
	if containsAny(text, simpleNegative) {
		sentiment -= simpleAdjustment
	}
	return recommend.Clamp01(sentiment)
}

// RecordReview stores the blended preference and logs the rating class.
func (s *Simple) RecordReview(itemID, userID string, rating float64, comment string) {
	s.learner.RecordReview(itemID, userID, rating, comment)
	switch {
	case rating >= positiveRating:
		s.logger.Debug().Str("user_id", userID).Msg("positive feedback recorded")
	case rating <= negativeRating:
		s.logger.Debug().Str("user_id", userID).Msg("negative feedback recorded")
	}
}

// AverageRating returns the mean of the user's recorded ratings, or
// DefaultAverageRating without history.
func (s *Simple) AverageRating(userID string) float64 {
	ratings := s.store.ratings(userID)
	if len(ratings) == 0 {
		return DefaultAverageRating
	}
	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
