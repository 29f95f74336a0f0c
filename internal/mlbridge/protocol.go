// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package mlbridge

import (
	"errors"
	"fmt"
)

// Bridge commands.
const (
	CommandPredictRating      = "predict_rating"
	CommandGetRecommendations = "get_recommendations"
	CommandUpdateFeedback     = "update_feedback"
	CommandGetPerformance     = "get_performance"
)

// Method names understood by the external model.
const (
	MethodHybrid   = "hybrid"
	MethodFallback = "fallback"
)

// StatusSuccess is the status value of a successful response.
const StatusSuccess = "success"

// Fallback prediction values.
const (
	FallbackRating     = 3.5
	FallbackConfidence = 0.3
)

// ErrBridgeUnavailable is returned when the bridge cannot be reached, its
// breaker is open, or the rate limit is exhausted.
var ErrBridgeUnavailable = errors.New("ml bridge unavailable")

// Request is the JSON document written to the bridge.
type Request struct {
	Command string   `json:"command" validate:"oneof=predict_rating get_recommendations update_feedback get_performance"`
	UserID  string   `json:"user_id,omitempty" validate:"required_unless=Command get_performance"`
	ItemID  string   `json:"item_id,omitempty" validate:"required_if=Command predict_rating,required_if=Command update_feedback"`
	ItemIDs []string `json:"item_ids,omitempty"`
	Method  string   `json:"method,omitempty"`
	TopK    int      `json:"top_k,omitempty" validate:"gte=0"`
	Rating  *float64 `json:"rating,omitempty" validate:"required_if=Command update_feedback"`
	Context string   `json:"context,omitempty"`
}

// Prediction is a predicted rating for one user and item.
type Prediction struct {
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// FallbackPrediction is returned whenever the bridge fails.
func FallbackPrediction() Prediction {
	return Prediction{Rating: FallbackRating, Confidence: FallbackConfidence, Method: MethodFallback}
}

// IsFallback reports whether p is the fixed fallback.
func (p Prediction) IsFallback() bool {
	return p.Method == MethodFallback
}

// String implements fmt.Stringer.
func (p Prediction) String() string {
	return fmt.Sprintf("Prediction{rating=%.2f, confidence=%.2f, method=%q}", p.Rating, p.Confidence, p.Method)
}

// Recommendation is one ranked item from get_recommendations.
type Recommendation struct {
	ItemID          string  `json:"item_id"`
	PredictedRating float64 `json:"predicted_rating"`
	Confidence      float64 `json:"confidence"`
	Method          string  `json:"method"`
}

// Response is the JSON document read from the bridge.
type Response struct {
	Status          string           `json:"status,omitempty"`
	Error           string           `json:"error,omitempty"`
	Message         string           `json:"message,omitempty"`
	Prediction      *Prediction      `json:"prediction,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Metrics         map[string]any   `json:"metrics,omitempty"`
}

// Err returns the response error, if any.
func (r *Response) Err() error {
	if r.Error != "" {
		return fmt.Errorf("bridge error: %s", r.Error)
	}
	return nil
}
