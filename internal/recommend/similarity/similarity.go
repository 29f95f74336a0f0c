// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package similarity provides vector and set similarity primitives used by the
// scoring strategies and user-profile similarity.
//
// All functions are pure, safe on nil or empty input, and never return NaN.
package similarity

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Vector is a sparse vector keyed by string (e.g. item ratings per user).
type Vector map[string]float64

// Cosine returns the cosine similarity of two dense vectors of equal length.
// Mismatched lengths, empty input and zero vectors yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineSparse returns the cosine similarity of two sparse vectors. Norms are
// taken over all entries of each vector, the dot product over shared keys.
func CosineSparse(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	dot := Dot(a, b)
	normA, normB := norm(a), norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

// Jaccard returns |A ∩ B| / |A ∪ B|, or 0 if either set is empty.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Dice returns 2|A ∩ B| / (|A| + |B|), or 0 if both sets are empty.
func Dice(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	total := len(setA) + len(setB)
	if total == 0 {
		return 0
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}
	return 2 * float64(intersection) / float64(total)
}

// Pearson returns the Pearson correlation over co-rated keys. Fewer than two
// shared keys, or zero variance on either side, yields 0.
func Pearson(a, b Vector) float64 {
	common := IntersectionKeys(a, b)
	if len(common) < 2 {
		return 0
	}

	var sumA, sumB float64
	for _, k := range common {
		sumA += a[k]
		sumB += b[k]
	}
	n := float64(len(common))
	meanA, meanB := sumA/n, sumB/n

	var num, da, db float64
	for _, k := range common {
		va := a[k] - meanA
		vb := b[k] - meanB
		num += va * vb
		da += va * va
		db += vb * vb
	}

	denom := math.Sqrt(da) * math.Sqrt(db)
	if denom == 0 {
		return 0
	}
	return num / denom
}

// EuclideanDistance returns the L2 distance between dense vectors.
// Mismatched lengths or empty input yield +Inf.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// DistanceToSimilarity maps a distance to (0, 1] via 1/(1+d). Infinite or
// NaN distances map to 0; negative distances are treated as 0.
func DistanceToSimilarity(distance float64) float64 {
	if math.IsInf(distance, 0) || math.IsNaN(distance) {
		return 0
	}
	return 1.0 / (1.0 + math.Max(0, distance))
}

// MinMaxNormalize scales v to [0, 1]. A constant vector maps to all zeros.
func MinMaxNormalize(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}

	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	rang := hi - lo
	if rang == 0 {
		return out
	}
	for i, x := range v {
		out[i] = (x - lo) / rang
	}
	return out
}

// ZScoreNormalize rescales v to mean 0 and population std 1. A constant
// vector maps to all zeros.
func ZScoreNormalize(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}

	mean := 0.0
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))

	variance := 0.0
	for _, x := range v {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(v))

	std := math.Sqrt(variance)
	if std == 0 {
		return out
	}
	for i, x := range v {
		out[i] = (x - mean) / std
	}
	return out
}

// ToUnitVector scales v to unit L2 norm. A zero vector is returned as a copy.
func ToUnitVector(v Vector) Vector {
	out := make(Vector, len(v))
	n := norm(v)
	for k, x := range v {
		if n == 0 {
			out[k] = x
			continue
		}
		out[k] = x / n
	}
	return out
}

// Dot returns the dot product over shared keys.
func Dot(a, b Vector) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	s := 0.0
	for k, va := range small {
		if vb, ok := large[k]; ok {
			s += va * vb
		}
	}
	return s
}

// IntersectionKeys returns the keys present in both vectors, sorted.
func IntersectionKeys(a, b Vector) []string {
	var keys []string
	for k := range a {
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// TopKString formats the k highest scores as "[key:0.123, ...]", ordered by
// score desc then key.
func TopKString(scores Vector, k int) string {
	if len(scores) == 0 || k <= 0 {
		return "[]"
	}

	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if scores[keys[i]] != scores[keys[j]] {
			return scores[keys[i]] > scores[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s:%.3f", key, scores[key])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func norm(v Vector) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
