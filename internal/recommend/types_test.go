// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestNewItem(t *testing.T) {
	t.Parallel()

	item := NewItem("m1", "Paneer Tikka", -5, []string{"Paneer", "Chili"}, []string{" Vegetarian ", "SPICY", "spicy"})

	if item.Price != 0 {
		t.Errorf("Price = %v, want 0 for negative input", item.Price)
	}
	if !item.Available {
		t.Error("new item should be available")
	}
	if len(item.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 normalized tags", item.Tags)
	}
	if !item.IsVegetarian() || !item.IsSpicy() {
		t.Errorf("IsVegetarian/IsSpicy = %v/%v, want true/true", item.IsVegetarian(), item.IsSpicy())
	}
}

func TestItem_DerivedFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tags    []string
		veg     bool
		vegan   bool
		hot     bool
		cold    bool
		healthy bool
	}{
		{name: "no tags", tags: nil},
		{name: "vegan implies vegetarian", tags: []string{"vegan"}, veg: true, vegan: true},
		{name: "vegetarian only", tags: []string{"vegetarian"}, veg: true},
		{name: "hot", tags: []string{"hot"}, hot: true},
		{name: "cold", tags: []string{"cold"}, cold: true},
		{name: "low-fat is healthy", tags: []string{"low-fat"}, healthy: true},
		{name: "organic is healthy", tags: []string{"organic"}, healthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item := NewItem("x", "x", 1, nil, tt.tags)
			if got := item.IsVegetarian(); got != tt.veg {
				t.Errorf("IsVegetarian() = %v, want %v", got, tt.veg)
			}
			if got := item.IsVegan(); got != tt.vegan {
				t.Errorf("IsVegan() = %v, want %v", got, tt.vegan)
			}
			if got := item.IsHot(); got != tt.hot {
				t.Errorf("IsHot() = %v, want %v", got, tt.hot)
			}
			if got := item.IsCold(); got != tt.cold {
				t.Errorf("IsCold() = %v, want %v", got, tt.cold)
			}
			if got := item.IsHealthy(); got != tt.healthy {
				t.Errorf("IsHealthy() = %v, want %v", got, tt.healthy)
			}
		})
	}
}

func TestItem_HasAllergen(t *testing.T) {
	t.Parallel()

	item := NewItem("x", "Satay", 10, []string{"Roasted Peanuts", "chicken"}, nil)

	tests := []struct {
		allergen string
		want     bool
	}{
		{"peanut", true},
		{"PEANUT", true},
		{"  chicken ", true},
		{"shellfish", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := item.HasAllergen(tt.allergen); got != tt.want {
			t.Errorf("HasAllergen(%q) = %v, want %v", tt.allergen, got, tt.want)
		}
	}
}

func TestItem_UpdateRating(t *testing.T) {
	t.Parallel()

	item := NewItem("x", "x", 1, nil, nil)
	item.UpdateRating(4)
	item.UpdateRating(5)

	if item.RatingCount != 2 {
		t.Errorf("RatingCount = %d, want 2", item.RatingCount)
	}
	if !almostEqual(item.AverageRating, 4.5) {
		t.Errorf("AverageRating = %v, want 4.5", item.AverageRating)
	}
	wantPop := 4.5/5*0.7 + 2.0/100*0.3
	if !almostEqual(item.Popularity, wantPop) {
		t.Errorf("Popularity = %v, want %v", item.Popularity, wantPop)
	}

	item.UpdateRating(10)
	if item.AverageRating > 5 {
		t.Errorf("AverageRating = %v, want <= 5 after out-of-range rating", item.AverageRating)
	}
}

func TestItem_Clone(t *testing.T) {
	t.Parallel()

	item := NewItem("x", "x", 1, []string{"rice"}, []string{"vegan"})
	clone := item.Clone()
	clone.Ingredients[0] = "noodles"
	clone.Tags[0] = "spicy"

	if item.Ingredients[0] != "rice" || item.Tags[0] != "vegan" {
		t.Error("Clone shares slices with the original")
	}
}

func TestCompareItems(t *testing.T) {
	t.Parallel()

	a := &Item{ID: "a", Popularity: 0.8}
	b := &Item{ID: "b", Popularity: 0.5}
	c := &Item{ID: "c", Popularity: 0.5, AverageRating: 4}
	d := &Item{ID: "d", Popularity: 0.5, AverageRating: 4, Price: 3}

	if CompareItems(a, b) >= 0 {
		t.Error("higher popularity should sort first")
	}
	if CompareItems(c, b) >= 0 {
		t.Error("higher rating should sort first on equal popularity")
	}
	if CompareItems(d, &Item{ID: "e", Popularity: 0.5, AverageRating: 4, Price: 9}) >= 0 {
		t.Error("cheaper item should sort first on equal popularity and rating")
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{math.NaN(), 0, 1, 0},
		{-3, -1, 1, -1},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
