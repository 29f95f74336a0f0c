// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package filter

import (
	"fmt"
	"strings"

	"github.com/tomtom215/menurec/internal/recommend"
)

// And accepts items every predicate accepts. No predicates accepts all.
func And(preds ...Predicate) Predicate {
	return func(item *recommend.Item) bool {
		for _, p := range preds {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}

// Or accepts items any predicate accepts. No predicates rejects all.
func Or(preds ...Predicate) Predicate {
	return func(item *recommend.Item) bool {
		for _, p := range preds {
			if p != nil && p(item) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	if p == nil {
		p = acceptAll
	}
	return func(item *recommend.Item) bool { return !p(item) }
}

// And combines two stages into a new active stage named "a AND b".
func (s *Stage) And(other *Stage) *Stage {
	if other == nil {
		return s
	}
	return NewStage(s.Name+" AND "+other.Name, And(s.predicate, other.predicate))
}

// Or combines two stages into a new active stage named "a OR b".
func (s *Stage) Or(other *Stage) *Stage {
	if other == nil {
		return s
	}
	return NewStage(s.Name+" OR "+other.Name, Or(s.predicate, other.predicate))
}

// Negate returns a new active stage named "NOT a".
func (s *Stage) Negate() *Stage {
	return NewStage("NOT "+s.Name, Not(s.predicate))
}

// VegetarianOnly keeps vegetarian (or vegan) items.
func VegetarianOnly() *Stage {
	return NamedRuleStage("Vegetarian Only", "vegetarian", "Shows only vegetarian items")
}

// VeganOnly keeps vegan items.
func VeganOnly() *Stage {
	return NamedRuleStage("Vegan Only", "vegan", "Shows only vegan items")
}

// AvailableOnly keeps items flagged available.
func AvailableOnly() *Stage {
	return NamedRuleStage("Available Only", "available", "Shows only available items")
}

// HighRated keeps items rated at least minRating.
func HighRated(minRating float64) *Stage {
	return NamedRuleStage(
		fmt.Sprintf("Rating %.1f+", minRating),
		fmt.Sprintf("rating_above_%g", minRating),
		fmt.Sprintf("Shows items with rating %g or higher", minRating),
	)
}

// CategoryFilter keeps items whose category contains name.
func CategoryFilter(name string) *Stage {
	return NamedRuleStage(
		"Category: "+name,
		"category_"+strings.ToLower(name),
		"Shows items from "+name+" category",
	)
}

// AllergenFree drops items with an ingredient containing allergen.
func AllergenFree(allergen string) *Stage {
	return NamedRuleStage(
		"No "+allergen,
		"excludes_"+strings.ToLower(allergen),
		"Excludes items containing "+allergen,
	)
}

// PriceRange keeps items priced within [lo, hi] inclusive. Reversed bounds
// are swapped.
func PriceRange(lo, hi float64) *Stage {
	lo, hi = min(lo, hi), max(lo, hi)
	return NewStage(fmt.Sprintf("Price Range %.0f-%.0f", lo, hi), InPriceRange(lo, hi))
}

// RequireTags keeps items carrying every tag.
func RequireTags(tags ...string) *Stage {
	return NewStage("Tags: "+strings.Join(tags, ","), HasAllTags(tags...))
}

// InPriceRange accepts prices within [lo, hi] inclusive, swapping reversed bounds.
func InPriceRange(lo, hi float64) Predicate {
	lo, hi = min(lo, hi), max(lo, hi)
	return func(i *recommend.Item) bool { return i.Price >= lo && i.Price <= hi }
}

// HasAllTags accepts items carrying every tag (case-insensitive).
func HasAllTags(tags ...string) Predicate {
	return func(i *recommend.Item) bool {
		for _, t := range tags {
			if !i.HasTag(t) {
				return false
			}
		}
		return true
	}
}

// FreeOf accepts items containing none of the allergens.
func FreeOf(allergens ...string) Predicate {
	return func(i *recommend.Item) bool {
		for _, a := range allergens {
			if i.HasAllergen(a) {
				return false
			}
		}
		return true
	}
}

// MinRating accepts items whose average rating is at least r.
func MinRating(r float64) Predicate {
	return func(i *recommend.Item) bool { return i.AverageRating >= r }
}

// InCategory accepts items whose resolved category name contains sub,
// case-insensitively. A nil resolver reads Item.CategoryName.
func InCategory(sub string, categories recommend.CategoryResolver) Predicate {
	if strings.TrimSpace(sub) == "" {
		return acceptAll
	}
	if categories == nil {
		categories = recommend.StaticCategories{}
	}
	return categoryContains(sub, categories)
}

// ContextAppropriate accepts items whose context multiplier is at least 1.0.
func ContextAppropriate(c recommend.ContextSnapshot) Predicate {
	return c.IsAppropriate
}

// Apply returns the items p accepts. Nil items and items whose predicate
// panics are dropped.
func Apply(items []*recommend.Item, p Predicate) []*recommend.Item {
	out := make([]*recommend.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if ok, _ := safeEval(p, item); ok {
			out = append(out, item)
		}
	}
	return out
}

// Inventory status values accepted by ByInventoryStatus.
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

// ByInventoryStatus keeps items that are ("available") or are not
// ("unavailable") both flagged available and in stock. A nil inventory
// consults only the flag. Any other status returns a copy of the input.
func ByInventoryStatus(items []*recommend.Item, status string, inv recommend.Inventory) []*recommend.Item {
	inStock := func(i *recommend.Item) bool {
		return i.Available && (inv == nil || inv.IsInStock(i.ID))
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusAvailable:
		return Apply(items, inStock)
	case StatusUnavailable:
		return Apply(items, Not(inStock))
	default:
		return append([]*recommend.Item(nil), items...)
	}
}
