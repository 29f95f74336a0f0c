// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"math"
	"slices"
)

// Spice level bounds and default.
const (
	MinSpiceLevel     = 1
	MaxSpiceLevel     = 5
	DefaultSpiceLevel = 2
)

// UserProfile holds a user's dietary constraints and learned taste preferences.
//
// Fields are exported for persistence; mutate through the setters so that
// clamping and normalization stay in force. UserProfile is not safe for
// concurrent use; the profile store serializes access per user.
type UserProfile struct {
	UserID string `json:"user_id"`

	// SpiceLevel is the tolerated spiciness (1-5).
	SpiceLevel int `json:"spice_level"`

	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`

	// Allergies, FavoriteCuisines, DislikedIngredients and PreferredTags are
	// lowercase sets stored as slices.
	Allergies           []string `json:"allergies,omitempty"`
	FavoriteCuisines    []string `json:"favorite_cuisines,omitempty"`
	DislikedIngredients []string `json:"disliked_ingredients,omitempty"`
	PreferredTags       []string `json:"preferred_tags,omitempty"`

	// IngredientPrefs and CategoryPrefs are keyed by lowercase name, values in [-1, 1].
	IngredientPrefs map[string]float64 `json:"ingredient_prefs,omitempty"`
	CategoryPrefs   map[string]float64 `json:"category_prefs,omitempty"`

	// PriceMin and PriceMax bound the acceptable price range.
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
}

// NewUserProfile creates a profile with mild spice tolerance and an unrestricted price range.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:          userID,
		SpiceLevel:      DefaultSpiceLevel,
		IngredientPrefs: make(map[string]float64),
		CategoryPrefs:   make(map[string]float64),
		PriceMin:        0,
		PriceMax:        math.MaxFloat64,
	}
}

// SetSpiceLevel sets the spice tolerance, clamped to 1-5.
func (p *UserProfile) SetSpiceLevel(level int) {
	p.SpiceLevel = max(MinSpiceLevel, min(MaxSpiceLevel, level))
}

// SetVegetarian sets the vegetarian flag. Clearing it also clears vegan.
func (p *UserProfile) SetVegetarian(v bool) {
	p.Vegetarian = v
	if !v {
		p.Vegan = false
	}
}

// SetVegan sets the vegan flag. Setting it also sets vegetarian.
func (p *UserProfile) SetVegan(v bool) {
	p.Vegan = v
	if v {
		p.Vegetarian = true
	}
}

// SetPriceRange updates the price range. Invalid ranges (negative lower bound
// or upper below lower) are ignored.
func (p *UserProfile) SetPriceRange(lower, upper float64) {
	if lower < 0 || upper < lower || math.IsNaN(lower) || math.IsNaN(upper) {
		return
	}
	p.PriceMin = lower
	p.PriceMax = upper
}

// IsPriceInRange reports whether price lies within the inclusive range.
func (p *UserProfile) IsPriceInRange(price float64) bool {
	return price >= p.PriceMin && price <= p.PriceMax
}

// SetIngredientPreference records a clamped preference for an ingredient.
func (p *UserProfile) SetIngredientPreference(ingredient string, value float64) {
	key := normalizeKey(ingredient)
	if key == "" {
		return
	}
	if p.IngredientPrefs == nil {
		p.IngredientPrefs = make(map[string]float64)
	}
	p.IngredientPrefs[key] = clamp(value, -1, 1)
}

// IngredientPreference returns the preference for an ingredient, 0 if unknown.
func (p *UserProfile) IngredientPreference(ingredient string) float64 {
	return p.IngredientPrefs[normalizeKey(ingredient)]
}

// SetCategoryPreference records a clamped preference for a category.
func (p *UserProfile) SetCategoryPreference(category string, value float64) {
	key := normalizeKey(category)
	if key == "" {
		return
	}
	if p.CategoryPrefs == nil {
		p.CategoryPrefs = make(map[string]float64)
	}
	p.CategoryPrefs[key] = clamp(value, -1, 1)
}

// CategoryPreference returns the preference for a category, 0 if unknown.
func (p *UserProfile) CategoryPreference(category string) float64 {
	return p.CategoryPrefs[normalizeKey(category)]
}

// AddAllergy adds an allergen.
func (p *UserProfile) AddAllergy(allergen string) {
	p.Allergies = addToSet(p.Allergies, allergen)
}

// RemoveAllergy removes an allergen.
func (p *UserProfile) RemoveAllergy(allergen string) {
	p.Allergies = removeFromSet(p.Allergies, allergen)
}

// AddFavoriteCuisine adds a favorite cuisine.
func (p *UserProfile) AddFavoriteCuisine(cuisine string) {
	p.FavoriteCuisines = addToSet(p.FavoriteCuisines, cuisine)
}

// AddDislikedIngredient adds a disliked ingredient.
func (p *UserProfile) AddDislikedIngredient(ingredient string) {
	p.DislikedIngredients = addToSet(p.DislikedIngredients, ingredient)
}

// AddPreferredTag adds a preferred tag.
func (p *UserProfile) AddPreferredTag(tag string) {
	p.PreferredTags = addToSet(p.PreferredTags, tag)
}

// IsAllergicTo reports whether the item contains any of the user's allergens.
func (p *UserProfile) IsAllergicTo(item *Item) bool {
	for _, a := range p.Allergies {
		if item.HasAllergen(a) {
			return true
		}
	}
	return false
}

// Dislikes reports whether the item contains a disliked ingredient.
func (p *UserProfile) Dislikes(ingredient string) bool {
	return slices.Contains(p.DislikedIngredients, normalizeKey(ingredient))
}

// Compatibility returns a score in [-1, 1]. A result of -1 is a veto: the
// item violates a dietary flag or contains an allergen.
func (p *UserProfile) Compatibility(item *Item) float64 {
	if p.Vegetarian && !item.IsVegetarian() {
		return -1
	}
	if p.Vegan && !item.IsVegan() {
		return -1
	}
	if p.IsAllergicTo(item) {
		return -1
	}

	score := 0.0
	if !p.IsPriceInRange(item.Price) {
		score -= 0.3
	}
	if item.IsSpicy() {
		if p.SpiceLevel >= 3 {
			score += 0.2
		} else {
			score -= 0.3
		}
	}
	for _, ing := range item.Ingredients {
		if p.Dislikes(ing) {
			score -= 0.4
			continue
		}
		score += p.IngredientPreference(ing) * 0.1
	}
	score += p.CategoryPreference(item.CategoryName) * 0.2
	for _, tag := range p.PreferredTags {
		if item.HasTag(tag) {
			score += 0.15
		}
	}
	return clamp(score, -1, 1)
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.Allergies = slices.Clone(p.Allergies)
	c.FavoriteCuisines = slices.Clone(p.FavoriteCuisines)
	c.DislikedIngredients = slices.Clone(p.DislikedIngredients)
	c.PreferredTags = slices.Clone(p.PreferredTags)
	c.IngredientPrefs = make(map[string]float64, len(p.IngredientPrefs))
	for k, v := range p.IngredientPrefs {
		c.IngredientPrefs[k] = v
	}
	c.CategoryPrefs = make(map[string]float64, len(p.CategoryPrefs))
	for k, v := range p.CategoryPrefs {
		c.CategoryPrefs[k] = v
	}
	return &c
}

// Normalize re-applies clamping and set normalization, e.g. after decoding
// a persisted profile.
func (p *UserProfile) Normalize() {
	p.SetSpiceLevel(p.SpiceLevel)
	if p.Vegan {
		p.Vegetarian = true
	}
	if p.PriceMin < 0 || p.PriceMax < p.PriceMin {
		p.PriceMin, p.PriceMax = 0, math.MaxFloat64
	}
	p.Allergies = normalizeSet(p.Allergies)
	p.FavoriteCuisines = normalizeSet(p.FavoriteCuisines)
	p.DislikedIngredients = normalizeSet(p.DislikedIngredients)
	p.PreferredTags = normalizeSet(p.PreferredTags)

	ing := p.IngredientPrefs
	p.IngredientPrefs = make(map[string]float64, len(ing))
	for k, v := range ing {
		p.SetIngredientPreference(k, v)
	}
	cat := p.CategoryPrefs
	p.CategoryPrefs = make(map[string]float64, len(cat))
	for k, v := range cat {
		p.SetCategoryPreference(k, v)
	}
}

func addToSet(set []string, value string) []string {
	value = normalizeKey(value)
	if value == "" || slices.Contains(set, value) {
		return set
	}
	return append(set, value)
}

func removeFromSet(set []string, value string) []string {
	value = normalizeKey(value)
	return slices.DeleteFunc(set, func(s string) bool { return s == value })
}

func normalizeSet(set []string) []string {
	var out []string
	for _, s := range set {
		out = addToSet(out, s)
	}
	return out
}
