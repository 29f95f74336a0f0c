// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"fmt"
	"sort"
	"time"
)

// Algorithm labels attached to outcomes.
const (
	AlgorithmHybrid    = "Hybrid"
	AlgorithmColdStart = "Cold Start - Popular Items"
)

// NoExplanation is returned for items without a recorded explanation.
const NoExplanation = "No explanation available"

// State is a step of the recommendation state machine.
type State int

const (
	// StateStart is the initial state of a request.
	StateStart State = iota
	// StateProfileLoaded means the user profile was loaded or created.
	StateProfileLoaded
	// StateColdStart means the user has no order history.
	StateColdStart
	// StateCandidatesFiltered means the candidate set passed all filters.
	StateCandidatesFiltered
	// StateRanked means candidates were scored and truncated.
	StateRanked
	// StatePresented is the successful terminal state.
	StatePresented
	// StateFallbackPresented is the terminal state after a recovered failure.
	StateFallbackPresented
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateProfileLoaded:
		return "profile_loaded"
	case StateColdStart:
		return "cold_start"
	case StateCandidatesFiltered:
		return "candidates_filtered"
	case StateRanked:
		return "ranked"
	case StatePresented:
		return "presented"
	case StateFallbackPresented:
		return "fallback_presented"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for st := StateStart; st <= StateFallbackPresented; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown recommendation state %q", text)
}

// Terminal reports whether the state ends a request.
func (s State) Terminal() bool {
	return s == StatePresented || s == StateFallbackPresented
}

// Outcome is the result of a single recommendation request.
type Outcome struct {
	UserID       string             `json:"user_id"`
	Items        []*Item            `json:"items"`
	Explanations map[string]string  `json:"explanations"`
	Confidences  map[string]float64 `json:"confidences"`
	Algorithm    string             `json:"algorithm"`
	State        State              `json:"state"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Metadata     map[string]any     `json:"metadata,omitempty"`
}

// NewOutcome creates an empty outcome for a user.
func NewOutcome(userID, algorithm string) *Outcome {
	return &Outcome{
		UserID:       userID,
		Items:        []*Item{},
		Explanations: make(map[string]string),
		Confidences:  make(map[string]float64),
		Algorithm:    algorithm,
		GeneratedAt:  time.Now(),
		Metadata:     make(map[string]any),
	}
}

// Add appends an item with its explanation and a confidence clamped to [0, 1].
func (o *Outcome) Add(item *Item, explanation string, confidence float64) {
	if item == nil {
		return
	}
	o.Items = append(o.Items, item)
	if explanation != "" {
		o.Explanations[item.ID] = explanation
	}
	o.Confidences[item.ID] = Clamp01(confidence)
}

// SetMetadata records a metadata value; empty keys and nil values are ignored.
func (o *Outcome) SetMetadata(key string, value any) {
	if key == "" || value == nil {
		return
	}
	if o.Metadata == nil {
		o.Metadata = make(map[string]any)
	}
	o.Metadata[key] = value
}

// Explanation returns the explanation for an item.
func (o *Outcome) Explanation(itemID string) string {
	if e, ok := o.Explanations[itemID]; ok {
		return e
	}
	return NoExplanation
}

// Confidence returns the confidence for an item, 0 if absent.
func (o *Outcome) Confidence(itemID string) float64 {
	return o.Confidences[itemID]
}

// AverageConfidence is the mean of the confidence map, 0 when empty.
func (o *Outcome) AverageConfidence() float64 {
	if len(o.Confidences) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range o.Confidences {
		sum += c
	}
	return sum / float64(len(o.Confidences))
}

// Len returns the number of recommended items.
func (o *Outcome) Len() int {
	return len(o.Items)
}

// IsEmpty reports whether nothing was recommended.
func (o *Outcome) IsEmpty() bool {
	return len(o.Items) == 0
}

// TopItem returns the best item or nil.
func (o *Outcome) TopItem() *Item {
	if len(o.Items) == 0 {
		return nil
	}
	return o.Items[0]
}

// Top returns up to n leading items.
func (o *Outcome) Top(n int) []*Item {
	n = max(0, min(n, len(o.Items)))
	return o.Items[:n:n]
}

// HighConfidence returns items whose confidence is at least threshold, in rank order.
func (o *Outcome) HighConfidence(threshold float64) []*Item {
	var out []*Item
	for _, item := range o.Items {
		if o.Confidence(item.ID) >= threshold {
			out = append(out, item)
		}
	}
	return out
}

// QualityScore blends mean item rating (0.4), mean confidence (0.3) and
// category diversity (0.3).
func (o *Outcome) QualityScore() float64 {
	if len(o.Items) == 0 {
		return 0
	}
	ratingSum := 0.0
	for _, item := range o.Items {
		ratingSum += item.AverageRating
	}
	avgRating := ratingSum / float64(len(o.Items))
	return avgRating/5.0*0.4 + o.AverageConfidence()*0.3 + o.diversity()*0.3
}

func (o *Outcome) diversity() float64 {
	if len(o.Items) <= 1 {
		return 0
	}
	cats := make(map[string]struct{})
	for _, item := range o.Items {
		if item.CategoryName != "" {
			cats[item.CategoryName] = struct{}{}
		}
	}
	return min(1.0, float64(len(cats))/float64(len(o.Items)))
}

// CategoryDistribution counts recommended items per category name.
func (o *Outcome) CategoryDistribution() map[string]int {
	dist := make(map[string]int)
	for _, item := range o.Items {
		if item.CategoryName != "" {
			dist[item.CategoryName]++
		}
	}
	return dist
}

// PriceAnalysis summarizes the prices of the recommended items.
type PriceAnalysis struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	Range  float64 `json:"range"`
}

// PriceAnalysis returns price statistics; ok is false when the outcome is empty.
func (o *Outcome) PriceAnalysis() (PriceAnalysis, bool) {
	if len(o.Items) == 0 {
		return PriceAnalysis{}, false
	}
	prices := make([]float64, len(o.Items))
	sum := 0.0
	for i, item := range o.Items {
		prices[i] = item.Price
		sum += item.Price
	}
	sort.Float64s(prices)
	return PriceAnalysis{
		Min:    prices[0],
		Max:    prices[len(prices)-1],
		Avg:    sum / float64(len(prices)),
		Median: prices[len(prices)/2],
		Range:  prices[len(prices)-1] - prices[0],
	}, true
}

// SuccessRatingThreshold is the minimum rating counted as a successful recommendation.
const SuccessRatingThreshold = 3.5

// DefaultSuccessSignal is recorded after every successfully presented outcome.
const DefaultSuccessSignal = 4.0

// PerformanceMetrics tracks running recommendation quality for one orchestrator.
type PerformanceMetrics struct {
	TotalRecommendations int64   `json:"total_recommendations"`
	AverageConfidence    float64 `json:"average_confidence"`
	SuccessRate          float64 `json:"success_rate"`
}

// Observe folds one rating signal into the running averages using
// newAvg = (oldAvg*n + x) / (n+1).
func (m *PerformanceMetrics) Observe(rating float64) {
	n := float64(m.TotalRecommendations)
	success := 0.0
	if rating >= SuccessRatingThreshold {
		success = 1.0
	}
	if m.TotalRecommendations == 0 {
		m.AverageConfidence = rating
		m.SuccessRate = success
	} else {
		m.AverageConfidence = (m.AverageConfidence*n + rating) / (n + 1)
		m.SuccessRate = (m.SuccessRate*n + success) / (n + 1)
	}
	m.TotalRecommendations++
}
