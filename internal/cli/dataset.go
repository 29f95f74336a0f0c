// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/validation"
)

// Dataset is the catalog file read by every command. A file holding a bare
// JSON array is read as the item list.
type Dataset struct {
	Items    []ItemRecord              `json:"items"`
	Profiles []ProfileRecord           `json:"profiles,omitempty"`
	Stock    map[string]int            `json:"stock,omitempty"`
	Orders   []recommend.OrderEvent    `json:"orders,omitempty"`
	Feedback []recommend.FeedbackEvent `json:"feedback,omitempty"`
}

// ItemRecord is a menu item as written in a catalog file. Omitted
// availability means available.
type ItemRecord struct {
	ID           string    `json:"id" validate:"required"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CategoryID   string    `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	Ingredients  []string  `json:"ingredients,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Price        float64   `json:"price" validate:"gte=0"`
	Available    *bool     `json:"available,omitempty"`
	Ratings      []float64 `json:"ratings,omitempty" validate:"dive,gte=0,lte=5"`
}

// Item builds the catalog item.
func (r *ItemRecord) Item() *recommend.Item {
	item := recommend.NewItem(r.ID, r.Name, r.Price, r.Ingredients, r.Tags)
	item.Description = r.Description
	item.CategoryID = r.CategoryID
	item.CategoryName = r.CategoryName
	if r.Available != nil {
		item.Available = *r.Available
	}
	for _, rating := range r.Ratings {
		item.UpdateRating(rating)
	}
	return item
}

// ProfileRecord is a user profile as written in a catalog file. Omitted
// price bounds leave the range open.
type ProfileRecord struct {
	UserID              string             `json:"user_id" validate:"required"`
	SpiceLevel          int                `json:"spice_level,omitempty" validate:"omitempty,min=1,max=5"`
	Vegetarian          bool               `json:"vegetarian,omitempty"`
	Vegan               bool               `json:"vegan,omitempty"`
	Allergies           []string           `json:"allergies,omitempty"`
	FavoriteCuisines    []string           `json:"favorite_cuisines,omitempty"`
	DislikedIngredients []string           `json:"disliked_ingredients,omitempty"`
	PreferredTags       []string           `json:"preferred_tags,omitempty"`
	IngredientPrefs     map[string]float64 `json:"ingredient_prefs,omitempty"`
	CategoryPrefs       map[string]float64 `json:"category_prefs,omitempty"`
	PriceMin            *float64           `json:"price_min,omitempty"`
	PriceMax            *float64           `json:"price_max,omitempty"`
}

// Profile builds the user profile through its setters.
func (r *ProfileRecord) Profile() *recommend.UserProfile {
	p := recommend.NewUserProfile(r.UserID)
	if r.SpiceLevel != 0 {
		p.SetSpiceLevel(r.SpiceLevel)
	}
	p.SetVegetarian(r.Vegetarian)
	if r.Vegan {
		p.SetVegan(true)
	}
	for _, a := range r.Allergies {
		p.AddAllergy(a)
	}
	for _, c := range r.FavoriteCuisines {
		p.AddFavoriteCuisine(c)
	}
	for _, ing := range r.DislikedIngredients {
		p.AddDislikedIngredient(ing)
	}
	for _, tag := range r.PreferredTags {
		p.AddPreferredTag(tag)
	}
	for ing, v := range r.IngredientPrefs {
		p.SetIngredientPreference(ing, v)
	}
	for cat, v := range r.CategoryPrefs {
		p.SetCategoryPreference(cat, v)
	}
	if r.PriceMin != nil || r.PriceMax != nil {
		lower, upper := p.PriceMin, p.PriceMax
		if r.PriceMin != nil {
			lower = *r.PriceMin
		}
		if r.PriceMax != nil {
			upper = *r.PriceMax
		}
		p.SetPriceRange(lower, upper)
	}
	return p
}

// LoadDataset reads and validates a catalog file.
func LoadDataset(path string) (*Dataset, error) {
	if path == "" {
		return nil, errors.New("a catalog file is required (--catalog)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset decodes and validates catalog JSON.
func ParseDataset(data []byte) (*Dataset, error) {
	ds := &Dataset{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ds.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(ds.Items))
	for i := range ds.Items {
		if err := validation.Validate(&ds.Items[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := seen[ds.Items[i].ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", ds.Items[i].ID)
		}
		seen[ds.Items[i].ID] = struct{}{}
	}
	for i := range ds.Profiles {
		if err := validation.Validate(&ds.Profiles[i]); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return ds, nil
}

// CatalogItems builds the catalog items in file order.
func (d *Dataset) CatalogItems() []*recommend.Item {
	items := make([]*recommend.Item, 0, len(d.Items))
	for i := range d.Items {
		items = append(items, d.Items[i].Item())
	}
	return items
}

// Inventory returns the stock levels, or nil when the file tracks none.
func (d *Dataset) Inventory() recommend.Inventory {
	if len(d.Stock) == 0 {
		return nil
	}
	inv := recommend.NewMemoryInventory()
	for id, qty := range d.Stock {
		inv.SetStock(id, qty)
	}
	return inv
}
