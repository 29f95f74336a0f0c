// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"math"
	"testing"
)

func TestNewUserProfile_Defaults(t *testing.T) {
	t.Parallel()

	p := NewUserProfile("u1")

	if p.SpiceLevel != DefaultSpiceLevel {
		t.Errorf("SpiceLevel = %d, want %d", p.SpiceLevel, DefaultSpiceLevel)
	}
	if p.PriceMin != 0 || p.PriceMax != math.MaxFloat64 {
		t.Errorf("price range = [%v, %v], want unrestricted", p.PriceMin, p.PriceMax)
	}
	if p.Vegetarian || p.Vegan {
		t.Error("new profile should have no dietary flags")
	}
}

func TestUserProfile_SetSpiceLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{0, 1}, {1, 1}, {3, 3}, {5, 5}, {9, 5}, {-4, 1},
	}

	for _, tt := range tests {
		p := NewUserProfile("u")
		p.SetSpiceLevel(tt.in)
		if p.SpiceLevel != tt.want {
			t.Errorf("SetSpiceLevel(%d) -> %d, want %d", tt.in, p.SpiceLevel, tt.want)
		}
	}
}

func TestUserProfile_DietaryFlags(t *testing.T) {
	t.Parallel()

	p := NewUserProfile("u")
	p.SetVegan(true)
	if !p.Vegetarian {
		t.Error("vegan should imply vegetarian")
	}

	p.SetVegetarian(false)
	if p.Vegan {
		t.Error("clearing vegetarian should clear vegan")
	}
}

func TestUserProfile_SetPriceRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		lower, upper     float64
		wantMin, wantMax float64
	}{
		{name: "valid", lower: 10, upper: 20, wantMin: 10, wantMax: 20},
		{name: "negative lower ignored", lower: -1, upper: 20, wantMin: 0, wantMax: math.MaxFloat64},
		{name: "reversed ignored", lower: 30, upper: 20, wantMin: 0, wantMax: math.MaxFloat64},
		{name: "single point", lower: 15, upper: 15, wantMin: 15, wantMax: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewUserProfile("u")
			p.SetPriceRange(tt.lower, tt.upper)
			if p.PriceMin != tt.wantMin || p.PriceMax != tt.wantMax {
				t.Errorf("range = [%v, %v], want [%v, %v]", p.PriceMin, p.PriceMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestUserProfile_Preferences(t *testing.T) {
	t.Parallel()

	p := NewUserProfile("u")
	p.SetIngredientPreference("  Basil ", 3)
	p.SetCategoryPreference("Curry", -7)

	if got := p.IngredientPreference("basil"); got != 1 {
		t.Errorf("IngredientPreference(basil) = %v, want 1", got)
	}
	if got := p.CategoryPreference("CURRY"); got != -1 {
		t.Errorf("CategoryPreference(CURRY) = %v, want -1", got)
	}
	if got := p.IngredientPreference("unknown"); got != 0 {
		t.Errorf("IngredientPreference(unknown) = %v, want 0", got)
	}
}

func TestUserProfile_Sets(t *testing.T) {
	t.Parallel()

	p := NewUserProfile("u")
	p.AddAllergy(" Peanut ")
	p.AddAllergy("peanut")
	p.AddAllergy("")
	p.AddFavoriteCuisine("Thai")

	if len(p.Allergies) != 1 || p.Allergies[0] != "peanut" {
		t.Errorf("Allergies = %v, want [peanut]", p.Allergies)
	}
	if p.FavoriteCuisines[0] != "thai" {
		t.Errorf("FavoriteCuisines = %v, want [thai]", p.FavoriteCuisines)
	}

	p.RemoveAllergy("PEANUT")
	if len(p.Allergies) != 0 {
		t.Errorf("Allergies = %v after removal, want empty", p.Allergies)
	}
}

func TestUserProfile_Compatibility(t *testing.T) {
	t.Parallel()

	veg := NewUserProfile("veg")
	veg.SetVegetarian(true)

	allergic := NewUserProfile("allergic")
	allergic.AddAllergy("peanut")

	spicyFan := NewUserProfile("spicy")
	spicyFan.SetSpiceLevel(4)
	spicyFan.AddPreferredTag("grilled")

	disliker := NewUserProfile("disliker")
	disliker.AddDislikedIngredient("onion")

	tests := []struct {
		name    string
		profile *UserProfile
		item    *Item
		want    float64
	}{
		{
			name:    "vegetarian veto",
			profile: veg,
			item:    NewItem("c", "Chicken", 10, []string{"chicken"}, nil),
			want:    -1,
		},
		{
			name:    "allergen veto",
			profile: allergic,
			item:    NewItem("s", "Satay", 10, []string{"peanut sauce"}, []string{"vegetarian"}),
			want:    -1,
		},
		{
			name:    "spicy fan with preferred tag",
			profile: spicyFan,
			item:    NewItem("w", "Wings", 10, nil, []string{"spicy", "grilled"}),
			want:    0.2 + 0.15,
		},
		{
			name:    "mild user and spicy item",
			profile: NewUserProfile("mild"),
			item:    NewItem("w", "Wings", 10, nil, []string{"spicy"}),
			want:    -0.3,
		},
		{
			name:    "disliked ingredient",
			profile: disliker,
			item:    NewItem("o", "Onion Rings", 10, []string{"onion"}, nil),
			want:    -0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.profile.Compatibility(tt.item)
			if !almostEqual(got, tt.want) {
				t.Errorf("Compatibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserProfile_CloneAndNormalize(t *testing.T) {
	t.Parallel()

	p := NewUserProfile("u")
	p.AddAllergy("nuts")
	p.SetIngredientPreference("garlic", 0.5)

	clone := p.Clone()
	clone.Allergies[0] = "milk"
	clone.IngredientPrefs["garlic"] = -1

	if p.Allergies[0] != "nuts" || p.IngredientPrefs["garlic"] != 0.5 {
		t.Error("Clone shares state with the original")
	}

	raw := &UserProfile{
		UserID:          "raw",
		SpiceLevel:      12,
		Vegan:           true,
		Allergies:       []string{" Soy", "soy"},
		IngredientPrefs: map[string]float64{"Garlic": 4},
		PriceMin:        10,
		PriceMax:        5,
	}
	raw.Normalize()

	if raw.SpiceLevel != 5 || !raw.Vegetarian {
		t.Errorf("Normalize spice/vegetarian = %d/%v, want 5/true", raw.SpiceLevel, raw.Vegetarian)
	}
	if len(raw.Allergies) != 1 || raw.Allergies[0] != "soy" {
		t.Errorf("Normalize allergies = %v, want [soy]", raw.Allergies)
	}
	if raw.IngredientPrefs["garlic"] != 1 {
		t.Errorf("Normalize prefs = %v, want garlic=1", raw.IngredientPrefs)
	}
	if raw.PriceMin != 0 || raw.PriceMax != math.MaxFloat64 {
		t.Errorf("Normalize price = [%v, %v], want unrestricted", raw.PriceMin, raw.PriceMax)
	}
}
