// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Rule prefixes.
const (
	prefixPriceUnder  = "price_under_"
	prefixPriceOver   = "price_over_"
	prefixRatingAbove = "rating_above_"
	prefixCategory    = "category_"
	prefixTag         = "tag_"
	prefixContains    = "contains_"
	prefixExcludes    = "excludes_"
)

var plainRules = map[string]Predicate{
	"vegetarian":     (*recommend.Item).IsVegetarian,
	"vegan":          (*recommend.Item).IsVegan,
	"non-vegetarian": func(i *recommend.Item) bool { return !i.IsVegetarian() },
	"spicy":          (*recommend.Item).IsSpicy,
	"mild":           func(i *recommend.Item) bool { return !i.IsSpicy() },
	"hot":            (*recommend.Item).IsHot,
	"cold":           (*recommend.Item).IsCold,
	"healthy":        (*recommend.Item).IsHealthy,
	"available":      func(i *recommend.Item) bool { return i.Available },
	"unavailable":    func(i *recommend.Item) bool { return !i.Available },
}

// ParseRule converts a rule string into a predicate. Matching is
// case-insensitive. Unknown, empty and malformed rules accept everything.
// category_ rules read Item.CategoryName.
func ParseRule(rule string) Predicate {
	return ParseRuleWith(rule, nil)
}

// ParseRuleWith is ParseRule resolving category_ rules through categories.
// A nil resolver reads Item.CategoryName.
func ParseRuleWith(rule string, categories recommend.CategoryResolver) Predicate {
	if categories == nil {
		categories = recommend.StaticCategories{}
	}
	rule = strings.ToLower(strings.TrimSpace(rule))
	if rule == "" {
		return acceptAll
	}
	if p, ok := plainRules[rule]; ok {
		return p
	}

	if p := parsePrefixed(rule, categories); p != nil {
		return p
	}
	return acceptAll
}

// parsePrefixed returns nil for rules that are not a well-formed prefixed rule.
func parsePrefixed(rule string, categories recommend.CategoryResolver) Predicate {
	switch {
	case strings.HasPrefix(rule, prefixPriceUnder):
		if limit, ok := parseNumber(rule, prefixPriceUnder); ok {
			return func(i *recommend.Item) bool { return i.Price <= limit }
		}
	case strings.HasPrefix(rule, prefixPriceOver):
		if limit, ok := parseNumber(rule, prefixPriceOver); ok {
			return func(i *recommend.Item) bool { return i.Price >= limit }
		}
	case strings.HasPrefix(rule, prefixRatingAbove):
		if limit, ok := parseNumber(rule, prefixRatingAbove); ok {
			return func(i *recommend.Item) bool { return i.AverageRating >= limit }
		}
	case strings.HasPrefix(rule, prefixCategory):
		if sub, ok := suffix(rule, prefixCategory); ok {
			return categoryContains(sub, categories)
		}
	case strings.HasPrefix(rule, prefixTag):
		if tag, ok := suffix(rule, prefixTag); ok {
			return func(i *recommend.Item) bool { return i.HasTag(tag) }
		}
	case strings.HasPrefix(rule, prefixContains):
		if ing, ok := suffix(rule, prefixContains); ok {
			return func(i *recommend.Item) bool { return i.ContainsIngredient(ing) }
		}
	case strings.HasPrefix(rule, prefixExcludes):
		if ing, ok := suffix(rule, prefixExcludes); ok {
			return func(i *recommend.Item) bool { return !i.ContainsIngredient(ing) }
		}
	}
	return nil
}

func suffix(rule, prefix string) (string, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(rule, prefix))
	return s, s != ""
}

func parseNumber(rule, prefix string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(rule, prefix), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func categoryContains(sub string, categories recommend.CategoryResolver) Predicate {
	sub = strings.ToLower(strings.TrimSpace(sub))
	return func(i *recommend.Item) bool {
		name := categories.CategoryName(i)
		return name != "" && strings.Contains(strings.ToLower(name), sub)
	}
}
