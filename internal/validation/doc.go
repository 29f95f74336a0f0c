// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package validation provides struct validation using go-playground/validator v10.
//
// It holds a lazily built shared validator that reports fields by their
// json (or koanf) name, and registers a notblank tag for identifiers that
// must contain more than whitespace. It validates configuration, feedback
// and order events, and ML bridge requests.
//
// Example usage:
//
//	type FeedbackEvent struct {
//	    UserID string  `json:"user_id" validate:"notblank"`
//	    Rating float64 `json:"rating" validate:"gte=0,lte=5"`
//	}
//
//	if err := validation.Validate(&event); err != nil {
//	    return fmt.Errorf("invalid feedback: %w", err)
//	}
package validation
