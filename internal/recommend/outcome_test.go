// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"testing"
)

func TestOutcome_AverageConfidence(t *testing.T) {
	t.Parallel()

	o := NewOutcome("u", AlgorithmHybrid)
	if got := o.AverageConfidence(); got != 0 {
		t.Errorf("empty AverageConfidence() = %v, want 0", got)
	}

	o.Add(&Item{ID: "a"}, "because", 0.4)
	o.Add(&Item{ID: "b"}, "", 1.6)
	if got := o.AverageConfidence(); !almostEqual(got, 0.7) {
		t.Errorf("AverageConfidence() = %v, want 0.7 (confidence clamped to 1)", got)
	}
	if got := o.Explanation("b"); got != NoExplanation {
		t.Errorf("Explanation(b) = %q, want %q", got, NoExplanation)
	}
	if got := o.Explanation("a"); got != "because" {
		t.Errorf("Explanation(a) = %q, want because", got)
	}
}

func TestOutcome_Views(t *testing.T) {
	t.Parallel()

	o := NewOutcome("u", AlgorithmHybrid)
	o.Add(&Item{ID: "a", CategoryName: "Mains", Price: 10, AverageRating: 5}, "x", 0.9)
	o.Add(&Item{ID: "b", CategoryName: "Mains", Price: 20, AverageRating: 3}, "x", 0.5)
	o.Add(&Item{ID: "c", CategoryName: "Desserts", Price: 6, AverageRating: 4}, "x", 0.2)

	if o.TopItem().ID != "a" {
		t.Errorf("TopItem() = %s, want a", o.TopItem().ID)
	}
	if got := o.Top(2); len(got) != 2 || got[1].ID != "b" {
		t.Errorf("Top(2) = %v, want [a b]", got)
	}
	if got := o.Top(-1); len(got) != 0 {
		t.Errorf("Top(-1) returned %d items, want 0", len(got))
	}
	if got := o.HighConfidence(0.5); len(got) != 2 {
		t.Errorf("HighConfidence(0.5) returned %d items, want 2", len(got))
	}

	dist := o.CategoryDistribution()
	if dist["Mains"] != 2 || dist["Desserts"] != 1 {
		t.Errorf("CategoryDistribution() = %v", dist)
	}

	pa, ok := o.PriceAnalysis()
	if !ok || pa.Min != 6 || pa.Max != 20 || pa.Median != 10 || pa.Range != 14 {
		t.Errorf("PriceAnalysis() = %+v, %v", pa, ok)
	}

	wantQuality := 4.0/5*0.4 + (1.6/3)*0.3 + (2.0/3)*0.3
	if got := o.QualityScore(); !almostEqual(got, wantQuality) {
		t.Errorf("QualityScore() = %v, want %v", got, wantQuality)
	}
}

func TestPerformanceMetrics_Observe(t *testing.T) {
	t.Parallel()

	var m PerformanceMetrics
	m.Observe(4.0)
	if m.TotalRecommendations != 1 || m.AverageConfidence != 4.0 || m.SuccessRate != 1.0 {
		t.Fatalf("after first observe: %+v", m)
	}

	m.Observe(2.0)
	if !almostEqual(m.AverageConfidence, 3.0) {
		t.Errorf("AverageConfidence = %v, want 3.0", m.AverageConfidence)
	}
	if !almostEqual(m.SuccessRate, 0.5) {
		t.Errorf("SuccessRate = %v, want 0.5", m.SuccessRate)
	}

	m.Observe(3.5)
	if !almostEqual(m.SuccessRate, 2.0/3.0) {
		t.Errorf("SuccessRate = %v, want 2/3 (3.5 counts as success)", m.SuccessRate)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	if StateFallbackPresented.String() != "fallback_presented" {
		t.Errorf("String() = %q", StateFallbackPresented.String())
	}
	if !StatePresented.Terminal() || StateRanked.Terminal() {
		t.Error("Terminal() mismatch")
	}

	text, err := StateColdStart.MarshalText()
	if err != nil || string(text) != "cold_start" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
	var st State
	if err := st.UnmarshalText([]byte("ranked")); err != nil || st != StateRanked {
		t.Errorf("UnmarshalText(ranked) = %v, %v", st, err)
	}
	if err := st.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) should fail")
	}
}

func TestRankByScore(t *testing.T) {
	t.Parallel()

	items := []*Item{
		{ID: "a", Available: true, Price: 1},
		{ID: "b", Available: true, Price: 2},
		{ID: "c", Available: false, Price: 9},
		{ID: "d", Available: true, Price: 2},
		{ID: "boom", Available: true, Price: 5},
	}
	score := func(item *Item) float64 {
		if item.ID == "boom" {
			panic("bad item")
		}
		return item.Price
	}

	got := RankByScore(context.Background(), items, 0, score)
	wantOrder := []string{"b", "d", "a", "boom"}
	if len(got) != len(wantOrder) {
		t.Fatalf("RankByScore returned %d items, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}

	limited := RankByScore(context.Background(), items, 2, score)
	if len(limited) != 2 {
		t.Errorf("RankByScore limit 2 returned %d items", len(limited))
	}
}
