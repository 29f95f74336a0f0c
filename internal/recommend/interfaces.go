// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownStrategy is returned when a strategy name is not registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrItemNotFound is returned when an item ID is not in the catalog.
var ErrItemNotFound = errors.New("item not found")

// FeedbackEvent is a rating, optionally with a comment, left by a user for an item.
type FeedbackEvent struct {
	UserID    string    `json:"user_id" validate:"required"`
	ItemID    string    `json:"item_id" validate:"required"`
	Rating    float64   `json:"rating" validate:"gte=0,lte=5"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HasComment reports whether the event carries non-blank text.
func (e FeedbackEvent) HasComment() bool {
	return normalizeKey(e.Comment) != ""
}

// OrderEvent records that a user ordered an item.
type OrderEvent struct {
	UserID    string    `json:"user_id" validate:"required"`
	ItemID    string    `json:"item_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Timestamp time.Time `json:"timestamp"`
}

// ScoringStrategy scores items against a user profile.
//
// Implementations must be safe for concurrent use: the orchestrator scores
// candidates in parallel.
type ScoringStrategy interface {
	// Name returns the strategy identifier (e.g. "content").
	Name() string

	// Score returns a value in [0, 1].
	Score(item *Item, profile *UserProfile) float64

	// Similarity returns a narrower taste measure in [0, 1].
	Similarity(profile *UserProfile, item *Item) float64

	// Rank returns available candidates ordered by score desc and truncated
	// to limit. Equal scores keep input order.
	Rank(ctx context.Context, candidates []*Item, profile *UserProfile, limit int) []*Item

	// Learn incorporates a feedback event. It must not fail on malformed input.
	Learn(ctx context.Context, event FeedbackEvent)

	// Explain returns a human-readable rationale for the score.
	Explain(item *Item, profile *UserProfile) string
}

// FeedbackStrategy turns ratings and comments into learned preferences.
type FeedbackStrategy interface {
	// Name returns the strategy identifier (e.g. "advanced").
	Name() string

	// AnalyzeSentiment returns a value in [0, 1]; blank text is neutral (0.5).
	AnalyzeSentiment(text string) float64

	// RecordReview stores (rating/5 + sentiment)/2 for the user and item.
	RecordReview(itemID, userID string, rating float64, comment string)

	// UpdateFromFeedback smooths the stored preference toward the event.
	UpdateFromFeedback(userID string, event FeedbackEvent)

	// Preference returns the learned preference and whether one exists.
	Preference(userID, itemID string) (float64, bool)
}

// Inventory reports stock levels. Absent entries are out of stock.
type Inventory interface {
	IsInStock(itemID string) bool
}

// CategoryResolver resolves the display category of an item.
type CategoryResolver interface {
	CategoryName(item *Item) string
}

// OrderHistory answers questions about a user's past orders.
type OrderHistory interface {
	HasAnyOrders(userID string) bool
	ItemIDsOrdered(userID string) map[string]struct{}
}

// Catalog provides the menu items to recommend from.
type Catalog interface {
	Items() []*Item
	Item(id string) (*Item, bool)
}

// StaticCategories resolves categories from the item itself.
type StaticCategories struct{}

// CategoryName returns item.CategoryName.
func (StaticCategories) CategoryName(item *Item) string {
	if item == nil {
		return ""
	}
	return item.CategoryName
}
