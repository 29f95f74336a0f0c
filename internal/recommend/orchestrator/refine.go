// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/validation"
)

// Preference learning step per rating point away from neutral (3.0).
const (
	neutralRating      = 3.0
	ingredientLearning = 0.05
	categoryLearning   = 0.05
)

// Refine applies a rating to the feedback strategy, the scoring strategy,
// the catalog and the running metrics, then hands the event to the bus
// for aggregator and profile updates. Invalid events are rejected.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value like the strategy interfaces
func (e *Engine) Refine(ctx context.Context, event recommend.FeedbackEvent) error {
	if err := validation.Validate(&event); err != nil {
		return fmt.Errorf("invalid feedback: %w", err)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}

	e.feedback.RecordReview(event.ItemID, event.UserID, event.Rating, event.Comment)
	e.feedback.UpdateFromFeedback(event.UserID, event)
	e.scoring.Learn(ctx, event)

	if u, ok := e.catalog.(RatingUpdater); ok {
		err := u.UpdateRating(event.ItemID, event.Rating)
		switch {
		case err == nil:
			e.retrack(event.ItemID)
		case !errors.Is(err, recommend.ErrItemNotFound):
			e.logger.Warn().Err(err).Str("item_id", event.ItemID).Msg("catalog rating update failed")
		}
	}

	e.observe(event.Rating, true)

	if e.publisher != nil {
		err := e.publisher.PublishFeedback(ctx, event)
		if err == nil {
			return nil
		}
		e.logger.Warn().Err(err).Str("user_id", event.UserID).Msg("feedback publish failed, applying inline")
	}
	return e.ApplyFeedback(ctx, event)
}

// ApplyFeedback updates the aggregator and the user's learned preferences
// from a rating. It is the consumer side of the feedback topic.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value like the strategy interfaces
func (e *Engine) ApplyFeedback(_ context.Context, event recommend.FeedbackEvent) error {
	e.trending.RecordRating(event.ItemID, event.Rating)

	item, ok := e.catalog.Item(event.ItemID)
	if !ok {
		return nil
	}
	step := (recommend.Clamp(event.Rating, 0, 5) - neutralRating) / 2
	if step == 0 {
		return nil
	}
	return e.profiles.Update(event.UserID, func(p *recommend.UserProfile) {
		for _, ing := range item.Ingredients {
			p.SetIngredientPreference(ing, p.IngredientPreference(ing)+step*ingredientLearning)
		}
		if item.CategoryName != "" {
			p.SetCategoryPreference(item.CategoryName, p.CategoryPreference(item.CategoryName)+step*categoryLearning)
		}
	})
}

// RecordOrder stores an order in the order history, which ends cold start
// for the user, and hands it to the bus for aggregator and profile updates.
//
//nolint:gocritic // hugeParam: OrderEvent passed by value for symmetry with Refine
func (e *Engine) RecordOrder(ctx context.Context, event recommend.OrderEvent) error {
	if event.Quantity == 0 {
		event.Quantity = 1
	}
	if err := validation.Validate(&event); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}

	rec, ok := e.orders.(OrderRecorder)
	if !ok {
		return errors.New("order history is read-only")
	}
	rec.Record(event.UserID, event.ItemID, event.Quantity)
	metrics.RecordOrder()

	if e.publisher != nil {
		err := e.publisher.PublishOrder(ctx, event)
		if err == nil {
			return nil
		}
		e.logger.Warn().Err(err).Str("user_id", event.UserID).Msg("order publish failed, applying inline")
	}
	return e.ApplyOrder(ctx, event)
}

// ApplyOrder counts the order in the aggregator and widens the user's
// budget when the order exceeds it. It is the consumer side of the orders
// topic.
//
//nolint:gocritic // hugeParam: OrderEvent passed by value for symmetry with Refine
func (e *Engine) ApplyOrder(_ context.Context, event recommend.OrderEvent) error {
	qty := max(1, event.Quantity)
	e.trending.RecordMultipleOrders(event.ItemID, qty)

	item, ok := e.catalog.Item(event.ItemID)
	if !ok {
		return nil
	}
	return e.profiles.ApplyOrder(event.UserID, item.Price*float64(qty))
}

// Putter is implemented by catalogs that accept new items.
type Putter interface {
	Put(item *recommend.Item)
}

// AddItem adds an item to the catalog and starts tracking its popularity.
func (e *Engine) AddItem(item *recommend.Item) error {
	if err := validation.Validate(item); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	p, ok := e.catalog.(Putter)
	if !ok {
		return errors.New("catalog is read-only")
	}
	p.Put(item)
	e.trending.Register(item)
	return nil
}

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time {
	return e.now()
}
