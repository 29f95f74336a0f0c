// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vegProfile() *recommend.UserProfile {
	p := recommend.NewUserProfile("u1")
	p.SetVegetarian(true)
	p.SetSpiceLevel(2)
	p.SetPriceRange(15, 80)
	return p
}

func TestContent_Score(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())

	meat := recommend.NewUserProfile("u2")
	meat.SetSpiceLevel(4)
	meat.SetPriceRange(10, 20)

	tests := []struct {
		name    string
		item    *recommend.Item
		profile *recommend.UserProfile
		want    float64
	}{
		{
			name:    "veg spicy for mild user",
			item:    recommend.NewItem("A", "Paneer Tikka", 25, nil, []string{"vegetarian", "spicy"}),
			profile: vegProfile(),
			want:    0.65,
		},
		{
			name:    "veg mild clamps to one",
			item:    recommend.NewItem("B", "Dal", 25, nil, []string{"vegetarian"}),
			profile: vegProfile(),
			want:    1.0,
		},
		{
			name:    "veg out of budget",
			item:    recommend.NewItem("C", "Thali", 120, nil, []string{"vegetarian"}),
			profile: vegProfile(),
			want:    0.8 * 0.3,
		},
		{
			name:    "non-veg item for veg user in budget",
			item:    recommend.NewItem("D", "Chicken", 25, nil, nil),
			profile: vegProfile(),
			want:    0.5,
		},
		{
			name:    "non-veg spicy for hot user",
			item:    recommend.NewItem("E", "Vindaloo", 15, nil, []string{"spicy"}),
			profile: meat,
			want:    1.0,
		},
		{
			name:    "veg item for non-veg user out of budget",
			item:    recommend.NewItem("F", "Salad", 30, nil, []string{"vegetarian"}),
			profile: meat,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Score(tt.item, tt.profile); !almostEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContent_CategoryPreference(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())
	p := recommend.NewUserProfile("u")
	p.SetCategoryPreference("Desserts", -1)

	item := recommend.NewItem("x", "Cake", 5, nil, nil)
	item.CategoryName = "Desserts"

	// 0.6 (non-veg match) + 0.5 (budget) - 0.3 (category) = 0.8
	if got := c.Score(item, p); !almostEqual(got, 0.8) {
		t.Errorf("Score() = %v, want 0.8", got)
	}
}

func TestContent_PricePenaltyIsMonotone(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())
	p := vegProfile()
	inRange := recommend.NewItem("in", "in", 20, nil, []string{"vegetarian"})
	outOfRange := recommend.NewItem("out", "out", 200, nil, []string{"vegetarian"})

	if c.Score(outOfRange, p) >= c.Score(inRange, p) {
		t.Errorf("out-of-range score %v should be below in-range score %v", c.Score(outOfRange, p), c.Score(inRange, p))
	}
}

func TestContent_Rank(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())
	a := recommend.NewItem("A", "A", 25, nil, []string{"vegetarian", "spicy"})
	b := recommend.NewItem("B", "B", 25, nil, []string{"vegetarian"})
	off := recommend.NewItem("Z", "Z", 25, nil, []string{"vegetarian"})
	off.Available = false

	got := c.Rank(context.Background(), []*recommend.Item{a, off, b}, vegProfile(), 5)
	if len(got) != 2 || got[0].ID != "B" || got[1].ID != "A" {
		ids := make([]string, len(got))
		for i, it := range got {
			ids[i] = it.ID
		}
		t.Errorf("Rank() = %v, want [B A]", ids)
	}
}

func TestContent_Similarity(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())
	p := recommend.NewUserProfile("u")
	p.SetIngredientPreference("paneer", 0.8)
	p.SetIngredientPreference("onion", -0.2)

	item := recommend.NewItem("x", "x", 10, []string{"Paneer", "Onion"}, nil)
	if got := c.Similarity(p, item); !almostEqual(got, 0.3) {
		t.Errorf("Similarity() = %v, want 0.3", got)
	}

	disliked := recommend.NewItem("y", "y", 10, []string{"onion"}, nil)
	if got := c.Similarity(p, disliked); got != 0 {
		t.Errorf("Similarity(negative) = %v, want 0", got)
	}

	if got := c.Similarity(p, recommend.NewItem("z", "z", 10, nil, nil)); got != 0 {
		t.Errorf("Similarity(no ingredients) = %v, want 0", got)
	}
}

func TestContent_Explain(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())

	p := vegProfile()
	p.SetCategoryPreference("Starters", 0.9)
	item := recommend.NewItem("x", "x", 25, nil, []string{"vegetarian"})
	item.CategoryName = "Starters"

	want := "Recommended based on your preferences: vegetarian choice, within your budget, matches your starters preference"
	if got := c.Explain(item, p); got != want {
		t.Errorf("Explain() = %q, want %q", got, want)
	}

	cheap := recommend.NewItem("y", "y", 25, nil, nil)
	if got := c.Explain(cheap, vegProfile()); got != "Recommended based on your preferences: within your budget" {
		t.Errorf("Explain(budget only) = %q", got)
	}

	pricey := recommend.NewItem("z", "z", 500, nil, nil)
	if got := c.Explain(pricey, vegProfile()); got != "Recommended based on your preferences" {
		t.Errorf("Explain(no reasons) = %q", got)
	}
}

func TestContent_Learn(t *testing.T) {
	t.Parallel()

	c := NewContent(nil, zerolog.Nop())
	ctx := context.Background()
	for _, r := range []float64{5, 4, 3, 2, 1, 0} {
		c.Learn(ctx, recommend.FeedbackEvent{UserID: "u", ItemID: "i", Rating: r})
	}

	pos, neg := c.FeedbackCounts()
	if pos != 2 || neg != 3 {
		t.Errorf("FeedbackCounts() = %d, %d, want 2, 3", pos, neg)
	}
}

type panickingResolver struct{}

func (panickingResolver) CategoryName(*recommend.Item) string { panic("lookup failed") }

func TestContent_ResolverPanicIsContained(t *testing.T) {
	t.Parallel()

	c := NewContent(panickingResolver{}, zerolog.Nop())
	item := recommend.NewItem("B", "B", 25, nil, []string{"vegetarian"})
	if got := c.Score(item, vegProfile()); !almostEqual(got, 1.0) {
		t.Errorf("Score() = %v, want 1.0", got)
	}
}
