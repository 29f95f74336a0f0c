// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package feedback

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// Review thresholds used for log classification.
const (
	positiveRating = 4.0
	negativeRating = 2.0
)

// learner holds the preference bookkeeping shared by both strategies.
type learner struct {
	name    string
	store   *preferenceStore
	analyze func(string) float64
	logger  zerolog.Logger
}

func newLearner(name string, analyze func(string) float64, logger zerolog.Logger) learner {
	return learner{
		name:    name,
		store:   &preferenceStore{},
		analyze: analyze,
		logger:  logger.With().Str("component", "feedback").Str("strategy", name).Logger(),
	}
}

// Name returns the strategy identifier.
func (l *learner) Name() string {
	return l.name
}

// RecordReview stores the blended preference for the user and item. Every
// call counts as a new review.
func (l *learner) RecordReview(itemID, userID string, rating float64, comment string) {
	if userID == "" || itemID == "" {
		return
	}
	sentiment := l.analyze(comment)
	pref := l.store.record(userID, itemID, rating, sentiment)
	metrics.RecordFeedback(l.name)

	l.logger.Debug().
		Str("user_id", userID).
		Str("item_id", itemID).
		Float64("rating", rating).
		Float64("sentiment", sentiment).
		Float64("preference", pref).
		Msg("review recorded")
}

// UpdateFromFeedback smooths the stored preference toward the event.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value to match the interface
func (l *learner) UpdateFromFeedback(userID string, event recommend.FeedbackEvent) {
	if userID == "" || event.ItemID == "" {
		return
	}
	next := l.store.smooth(userID, event.ItemID, incoming(event, l.analyze))
	l.logger.Debug().Str("user_id", userID).Str("item_id", event.ItemID).Float64("preference", next).Msg("preference updated")
}

// Preference returns the learned preference for the user and item.
func (l *learner) Preference(userID, itemID string) (float64, bool) {
	return l.store.preference(userID, itemID)
}

// FeedbackCount returns the number of reviews recorded for the user.
func (l *learner) FeedbackCount(userID string) int {
	return l.store.reviewCount(userID)
}

// Preferences returns a copy of every learned preference keyed by user, then item.
func (l *learner) Preferences() map[string]map[string]float64 {
	return l.store.snapshot()
}

// RestorePreferences loads preferences previously returned by Preferences.
func (l *learner) RestorePreferences(prefs map[string]map[string]float64) {
	l.store.restore(prefs)
}

// New returns the feedback strategy registered under name.
func New(name string, logger zerolog.Logger) (recommend.FeedbackStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case recommend.FeedbackSimple:
		return NewSimple(logger), nil
	case recommend.FeedbackAdvanced:
		return NewAdvanced(logger), nil
	default:
		return nil, fmt.Errorf("%w: feedback %q", recommend.ErrUnknownStrategy, name)
	}
}

var (
	_ recommend.FeedbackStrategy = (*Simple)(nil)
	_ recommend.FeedbackStrategy = (*Advanced)(nil)
)
