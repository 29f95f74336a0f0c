// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"math"
	"strings"
	"time"
)

// Tag names with behavior attached to them.
const (
	TagVegetarian = "vegetarian"
	TagVegan      = "vegan"
	TagSpicy      = "spicy"
	TagHot        = "hot"
	TagCold       = "cold"
	TagHeavy      = "heavy"
	TagHealthy    = "healthy"
	TagLowFat     = "low-fat"
	TagOrganic    = "organic"
)

// Item represents a menu item with the metadata used for scoring and filtering.
//
// Item is not safe for concurrent mutation. MemoryCatalog never mutates an
// item it has handed out; rating and availability changes replace it with
// an updated Clone.
type Item struct {
	// ID is the unique item identifier.
	ID string `json:"id" validate:"required"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is free-form text shown to users.
	Description string `json:"description,omitempty"`

	// CategoryID references the owning menu category.
	CategoryID string `json:"category_id,omitempty"`

	// CategoryName is the human-readable category, used for substring filtering.
	CategoryName string `json:"category_name,omitempty"`

	// Ingredients lists the item's ingredients.
	Ingredients []string `json:"ingredients,omitempty"`

	// Price is the item price (never negative).
	Price float64 `json:"price" validate:"gte=0"`

	// Available is the menu availability flag.
	Available bool `json:"available"`

	// Tags holds diet, spice, temperature and health markers.
	Tags []string `json:"tags,omitempty"`

	// RatingSum and RatingCount back the incremental average.
	RatingSum   float64 `json:"rating_sum"`
	RatingCount int     `json:"rating_count"`

	// AverageRating is the running mean rating (0-5).
	AverageRating float64 `json:"average_rating"`

	// Popularity is derived from rating and rating volume (0-1).
	Popularity float64 `json:"popularity"`

	// CreatedAt is when the item was added to the catalog.
	CreatedAt time.Time `json:"created_at"`
}

// NewItem creates an available item with normalized tags and a non-negative price.
func NewItem(id, name string, price float64, ingredients, tags []string) *Item {
	item := &Item{
		ID:          id,
		Name:        name,
		Ingredients: append([]string(nil), ingredients...),
		Available:   true,
		CreatedAt:   time.Now(),
	}
	item.SetPrice(price)
	for _, t := range tags {
		item.AddTag(t)
	}
	return item
}

// SetPrice sets the price, clamping negative values to zero.
func (i *Item) SetPrice(price float64) {
	i.Price = math.Max(0, price)
}

// AddTag adds a lowercase tag if it is not already present.
func (i *Item) AddTag(tag string) {
	tag = normalizeKey(tag)
	if tag == "" || i.HasTag(tag) {
		return
	}
	i.Tags = append(i.Tags, tag)
}

// HasTag reports whether the item carries the tag (case-insensitive).
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// IsVegetarian reports whether the item is tagged vegetarian or vegan.
func (i *Item) IsVegetarian() bool {
	return i.HasTag(TagVegetarian) || i.HasTag(TagVegan)
}

// IsVegan reports whether the item is tagged vegan.
func (i *Item) IsVegan() bool {
	return i.HasTag(TagVegan)
}

// IsSpicy reports whether the item is tagged spicy.
func (i *Item) IsSpicy() bool {
	return i.HasTag(TagSpicy)
}

// IsHot reports whether the item is served hot.
func (i *Item) IsHot() bool {
	return i.HasTag(TagHot)
}

// IsCold reports whether the item is served cold.
func (i *Item) IsCold() bool {
	return i.HasTag(TagCold)
}

// IsHealthy reports whether the item carries any health marker.
func (i *Item) IsHealthy() bool {
	return i.HasTag(TagHealthy) || i.HasTag(TagLowFat) || i.HasTag(TagOrganic)
}

// HasAllergen reports whether any ingredient contains the allergen, case-insensitively.
func (i *Item) HasAllergen(allergen string) bool {
	allergen = normalizeKey(allergen)
	if allergen == "" {
		return false
	}
	for _, ing := range i.Ingredients {
		if strings.Contains(strings.ToLower(ing), allergen) {
			return true
		}
	}
	return false
}

// ContainsIngredient is an alias of HasAllergen for rule-based filtering.
func (i *Item) ContainsIngredient(name string) bool {
	return i.HasAllergen(name)
}

// UpdateRating folds a new rating (clamped to 0-5) into the running average
// and recomputes popularity.
func (i *Item) UpdateRating(rating float64) {
	rating = clamp(rating, 0, 5)
	i.RatingSum += rating
	i.RatingCount++
	i.AverageRating = i.RatingSum / float64(i.RatingCount)
	i.updatePopularity()
}

// updatePopularity weights average rating at 0.7 and volume (saturating at 100 ratings) at 0.3.
func (i *Item) updatePopularity() {
	if i.RatingCount == 0 {
		i.Popularity = 0
		return
	}
	ratingFactor := i.AverageRating / 5.0
	volumeFactor := math.Min(1.0, float64(i.RatingCount)/100.0)
	i.Popularity = ratingFactor*0.7 + volumeFactor*0.3
}

// IncrementPopularity adds to the popularity score, saturating at 1.
func (i *Item) IncrementPopularity(delta float64) {
	i.Popularity = clamp(i.Popularity+delta, 0, 1)
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	c.Ingredients = append([]string(nil), i.Ingredients...)
	c.Tags = append([]string(nil), i.Tags...)
	return &c
}

// CompareItems orders items by popularity desc, then average rating desc,
// then price asc, then ID. It returns a negative value when a sorts first.
func CompareItems(a, b *Item) int {
	switch {
	case a.Popularity != b.Popularity:
		return descending(a.Popularity, b.Popularity)
	case a.AverageRating != b.AverageRating:
		return descending(a.AverageRating, b.AverageRating)
	case a.Price != b.Price:
		if a.Price < b.Price {
			return -1
		}
		return 1
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

func descending(a, b float64) int {
	if a > b {
		return -1
	}
	return 1
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeKey trims and lowercases a set member or map key.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
