// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package filter

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// Canonical stage names, in evaluation order.
const (
	StageAvailability = "availability"
	StageAllergy      = "allergy"
	StageDiet         = "diet"
	StagePrice        = "price"
	StageContext      = "context"
	StageCustom       = "custom"
)

// StageResult records the candidate counts around one canonical stage.
type StageResult struct {
	Name string `json:"name"`
	In   int    `json:"in"`
	Out  int    `json:"out"`
}

// Result is the output of a canonical run.
type Result struct {
	Items  []*recommend.Item `json:"items"`
	Stages []StageResult     `json:"stages"`
}

// Canonical runs the fixed request filter order. It is safe for concurrent
// use when its collaborators are.
type Canonical struct {
	inventory recommend.Inventory
	custom    *Pipeline
	onError   ErrorHandler
	logger    zerolog.Logger
}

// NewCanonical creates the request pipeline. A nil inventory checks only the
// menu availability flag; a nil custom pipeline skips the custom step.
func NewCanonical(inventory recommend.Inventory, custom *Pipeline, logger zerolog.Logger) *Canonical {
	return &Canonical{
		inventory: inventory,
		custom:    custom,
		logger:    logger.With().Str("component", "filter").Str("pipeline", "canonical").Logger(),
	}
}

// SetErrorHandler installs the callback for failing canonical stages. It is
// not safe to call concurrently with Run.
func (c *Canonical) SetErrorHandler(h ErrorHandler) {
	c.onError = h
}

// Custom returns the custom stage pipeline, possibly nil.
func (c *Canonical) Custom() *Pipeline {
	return c.custom
}

// Apply returns the candidates that pass every canonical stage.
func (c *Canonical) Apply(items []*recommend.Item, profile *recommend.UserProfile, snapshot *recommend.ContextSnapshot) []*recommend.Item {
	return c.Run(items, profile, snapshot).Items
}

// Run filters candidates and reports per-stage counts. A nil profile skips
// the profile stages and a nil snapshot skips the context stage.
func (c *Canonical) Run(items []*recommend.Item, profile *recommend.UserProfile, snapshot *recommend.ContextSnapshot) Result {
	type step struct {
		name string
		pred Predicate
	}
	steps := []step{{StageAvailability, c.available}}
	if profile != nil {
		steps = append(steps, step{StageAllergy, func(i *recommend.Item) bool { return !profile.IsAllergicTo(i) }})
		switch {
		case profile.Vegan:
			steps = append(steps, step{StageDiet, (*recommend.Item).IsVegan})
		case profile.Vegetarian:
			steps = append(steps, step{StageDiet, (*recommend.Item).IsVegetarian})
		}
		steps = append(steps, step{StagePrice, InPriceRange(profile.PriceMin, profile.PriceMax)})
	}
	if snapshot != nil {
		steps = append(steps, step{StageContext, ContextAppropriate(*snapshot)})
	}

	res := Result{Items: make([]*recommend.Item, 0, len(items))}
	for _, item := range items {
		if item != nil {
			res.Items = append(res.Items, item)
		}
	}

	for _, s := range steps {
		if len(res.Items) == 0 {
			return res
		}
		in := len(res.Items)
		res.Items = c.apply(s.name, res.Items, s.pred)
		res.Stages = append(res.Stages, StageResult{Name: s.name, In: in, Out: len(res.Items)})
		metrics.RecordFilterStage(s.name, in-len(res.Items))
	}

	if c.custom != nil && len(res.Items) > 0 {
		in := len(res.Items)
		res.Items = c.custom.ApplyAll(res.Items)
		res.Stages = append(res.Stages, StageResult{Name: StageCustom, In: in, Out: len(res.Items)})
	}
	return res
}

func (c *Canonical) available(item *recommend.Item) bool {
	if !item.Available {
		return false
	}
	return c.inventory == nil || c.inventory.IsInStock(item.ID)
}

func (c *Canonical) apply(stage string, items []*recommend.Item, pred Predicate) []*recommend.Item {
	out := make([]*recommend.Item, 0, len(items))
	for _, item := range items {
		ok, err := safeEval(pred, item)
		if err != nil {
			metrics.RecordFilterPanic(stage)
			c.logger.Warn().Err(err).Str("stage", stage).Str("item_id", item.ID).Msg("filter stage failed, rejecting item")
			if c.onError != nil {
				c.onError(stage, item, err)
			}
			continue
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}
