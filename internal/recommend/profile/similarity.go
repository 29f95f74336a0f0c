// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package profile

import (
	"math"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/similarity"
)

// User similarity weights.
const (
	dietWeight    = 0.3
	spiceWeight   = 0.2
	cuisineWeight = 0.3
	priceWeight   = 0.2
)

// UserSimilarity returns a symmetric similarity in [0, 1] between two
// profiles from the vegetarian preference, spice tolerance, favorite
// cuisines and price range overlap. Vegan does not split the dietary term:
// a vegan and a vegetarian share it.
func UserSimilarity(a, b *recommend.UserProfile) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := 0.0
	if a.Vegetarian == b.Vegetarian {
		score += dietWeight
	}

	diff := math.Abs(float64(a.SpiceLevel - b.SpiceLevel))
	score += (5 - diff) / 5 * spiceWeight

	score += similarity.Dice(a.FavoriteCuisines, b.FavoriteCuisines) * cuisineWeight
	score += PriceOverlap(a.PriceMin, a.PriceMax, b.PriceMin, b.PriceMax) * priceWeight

	return recommend.Clamp01(score)
}

// PriceOverlap returns the overlap length of two price ranges divided by the
// mean of their lengths, capped at 1. Ranges that touch or are disjoint
// yield 0. Halves are summed rather than the lengths so unrestricted ranges
// do not overflow.
func PriceOverlap(min1, max1, min2, max2 float64) float64 {
	start := math.Max(min1, min2)
	end := math.Min(max1, max2)
	if !(start < end) {
		return 0
	}

	avg := (max1-min1)/2 + (max2-min2)/2
	if avg <= 0 || math.IsInf(avg, 0) {
		return 0
	}
	return math.Min(1, (end-start)/avg)
}
