// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package feedback

import (
	"sync"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Learning constants.
const (
	// NeutralPreference is assumed for items without a stored preference.
	NeutralPreference = 0.5

	// retainWeight and incomingWeight are the smoothing weights of UpdateFromFeedback.
	retainWeight   = 0.7
	incomingWeight = 0.3
)

// userPrefs is the learned state of one user.
type userPrefs struct {
	mu      sync.Mutex
	items   map[string]float64
	reviews int
	ratings []float64
}

// preferenceStore shards learned preferences by user.
type preferenceStore struct {
	users sync.Map // map[string]*userPrefs
}

func (s *preferenceStore) user(userID string) *userPrefs {
	if u, ok := s.users.Load(userID); ok {
		return u.(*userPrefs) //nolint:errcheck // only *userPrefs is stored
	}
	u, _ := s.users.LoadOrStore(userID, &userPrefs{items: make(map[string]float64)})
	return u.(*userPrefs) //nolint:errcheck // only *userPrefs is stored
}

// record stores (rating/5 + sentiment)/2 and counts the review.
func (s *preferenceStore) record(userID, itemID string, rating, sentiment float64) float64 {
	pref := blend(rating, sentiment)
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items[itemID] = pref
	u.reviews++
	u.ratings = append(u.ratings, rating)
	return pref
}

// smooth moves the stored preference toward incoming and returns the new value.
func (s *preferenceStore) smooth(userID, itemID string, incoming float64) float64 {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	old, ok := u.items[itemID]
	if !ok {
		old = NeutralPreference
	}
	next := recommend.Clamp01(old*retainWeight + incoming*incomingWeight)
	u.items[itemID] = next
	return next
}

func (s *preferenceStore) preference(userID, itemID string) (float64, bool) {
	v, ok := s.users.Load(userID)
	if !ok {
		return 0, false
	}
	u := v.(*userPrefs) //nolint:errcheck // only *userPrefs is stored
	u.mu.Lock()
	defer u.mu.Unlock()
	pref, ok := u.items[itemID]
	return pref, ok
}

func (s *preferenceStore) reviewCount(userID string) int {
	v, ok := s.users.Load(userID)
	if !ok {
		return 0
	}
	u := v.(*userPrefs) //nolint:errcheck // only *userPrefs is stored
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reviews
}

func (s *preferenceStore) ratings(userID string) []float64 {
	v, ok := s.users.Load(userID)
	if !ok {
		return nil
	}
	u := v.(*userPrefs) //nolint:errcheck // only *userPrefs is stored
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]float64(nil), u.ratings...)
}

// snapshot copies every user's item preferences.
func (s *preferenceStore) snapshot() map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	s.users.Range(func(k, v any) bool {
		u := v.(*userPrefs) //nolint:errcheck // only *userPrefs is stored
		u.mu.Lock()
		items := make(map[string]float64, len(u.items))
		for id, p := range u.items {
			items[id] = p
		}
		u.mu.Unlock()
		out[k.(string)] = items //nolint:errcheck // keys are user IDs
		return true
	})
	return out
}

// restore replaces the item preferences of the users in prefs.
func (s *preferenceStore) restore(prefs map[string]map[string]float64) {
	for userID, items := range prefs {
		u := s.user(userID)
		u.mu.Lock()
		u.items = make(map[string]float64, len(items))
		for id, p := range items {
			u.items[id] = recommend.Clamp01(p)
		}
		u.mu.Unlock()
	}
}

// blend combines a 0-5 rating and a 0-1 sentiment into a 0-1 preference.
func blend(rating, sentiment float64) float64 {
	return recommend.Clamp01((recommend.Clamp(rating, 0, 5)/5.0 + sentiment) / 2.0)
}

// incoming returns the event's blended value, using rating/5 as the
// sentiment when there is no comment.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value to match the interface
func incoming(event recommend.FeedbackEvent, analyze func(string) float64) float64 {
	rating := recommend.Clamp(event.Rating, 0, 5)
	sentiment := rating / 5.0
	if event.HasComment() {
		sentiment = analyze(event.Comment)
	}
	return blend(rating, sentiment)
}
