// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package filter

import (
	"math"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Stats summarizes one filtering pass.
type Stats struct {
	Original  int `json:"original_count"`
	Filtered  int `json:"filtered_count"`
	Removed   int `json:"removed_count"`
	Retention int `json:"retention_percentage"`
}

// ComputeStats compares a list before and after filtering. Retention is a
// rounded percentage, 0 for an empty original.
func ComputeStats(original, filtered []*recommend.Item) Stats {
	o, f := len(original), len(filtered)
	s := Stats{Original: o, Filtered: f, Removed: max(0, o-f)}
	if o > 0 {
		s.Retention = int(math.Round(float64(f) * 100 / float64(o)))
	}
	return s
}
