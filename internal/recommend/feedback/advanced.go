// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package feedback

import (
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

// ExperiencedUserReviews is the review count at which a user is experienced.
const ExperiencedUserReviews = 10

const (
	wordWeight      = 0.15
	contrastDamping = 0.8
	exclamationStep = 0.1
)

var (
	positivePattern = regexp.MustCompile(`(?i)\b(excellent|amazing|outstanding|fantastic|wonderful|delicious|perfect|great|good|love|enjoy|tasty|fresh|quality)\b`)
	negativePattern = regexp.MustCompile(`(?i)\b(terrible|awful|horrible|disgusting|bad|worst|hate|nasty|stale|bland|overpriced|disappointing)\b`)
)

// Advanced is the regex-based feedback strategy.
type Advanced struct {
	learner
}

// NewAdvanced creates an Advanced strategy.
func NewAdvanced(logger zerolog.Logger) *Advanced {
	a := &Advanced{}
	a.learner = newLearner(recommend.FeedbackAdvanced, a.AnalyzeSentiment, logger)
	return a
}

// AnalyzeSentiment scores text in [0, 1]; blank text is 0.5.
func (a *Advanced) AnalyzeSentiment(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.5
	}
	text = strings.ToLower(text)

	pos := len(positivePattern.FindAllStringIndex(text, -1))
	neg := len(negativePattern.FindAllStringIndex(text, -1))
	sentiment := 0.5 + float64(pos)*wordWeight - float64(neg)*wordWeight

	if strings.Contains(text, "but ") || strings.Contains(text, "however ") {
		sentiment *= contrastDamping
	}
	if strings.Contains(text, "!") {
		if sentiment > 0.5 {
			sentiment += exclamationStep
		} else {
			sentiment -= exclamationStep
		}
	}
	return recommend.Clamp01(sentiment)
}

// RecordReview stores the blended preference and flags notable reviews.
func (a *Advanced) RecordReview(itemID, userID string, rating float64, comment string) {
	a.learner.RecordReview(itemID, userID, rating, comment)

	sentiment := a.AnalyzeSentiment(comment)
	event := a.logger.Debug().Str("user_id", userID).Str("item_id", itemID)
	switch {
	case rating >= 4.5 && sentiment >= 0.7:
		event.Msg("highly positive experience")
	case rating <= negativeRating && sentiment <= 0.3:
		event.Msg("negative experience requiring attention")
	case math.Abs(rating/5.0-sentiment) > 0.3:
		event.Msg("rating and comment disagree")
	default:
		event.Discard()
	}
}

// UserItemPreference returns the learned preference, or NeutralPreference.
func (a *Advanced) UserItemPreference(userID, itemID string) float64 {
	if p, ok := a.Preference(userID, itemID); ok {
		return p
	}
	return NeutralPreference
}

// IsExperiencedUser reports whether the user has left at least
// ExperiencedUserReviews reviews.
func (a *Advanced) IsExperiencedUser(userID string) bool {
	return a.FeedbackCount(userID) >= ExperiencedUserReviews
}
