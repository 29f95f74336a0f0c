// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package filter

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// ErrorHandler receives predicate failures. It is called synchronously from
// ApplyAll and must not block.
type ErrorHandler func(stage string, item *recommend.Item, err error)

// Pipeline is an ordered set of stages combined in strict (AND) or lenient
// (OR) mode. It is safe for concurrent use.
type Pipeline struct {
	mu      sync.RWMutex
	stages  []*Stage
	mode    string
	onError ErrorHandler
	logger  zerolog.Logger
}

// NewPipeline creates an empty pipeline. An unrecognized mode is strict.
func NewPipeline(mode string, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		mode:   normalizeMode(mode),
		logger: logger.With().Str("component", "filter").Logger(),
	}
}

// FromRules creates a pipeline with one rule stage per rule.
func FromRules(mode string, rules []string, logger zerolog.Logger) *Pipeline {
	return FromRulesWith(mode, rules, nil, logger)
}

// FromRulesWith is FromRules with category_ rules resolved through
// categories.
func FromRulesWith(mode string, rules []string, categories recommend.CategoryResolver, logger zerolog.Logger) *Pipeline {
	p := NewPipeline(mode, logger)
	for _, r := range rules {
		p.Add(RuleStageWith(r, categories))
	}
	return p
}

func normalizeMode(mode string) string {
	if mode == recommend.FilterModeLenient {
		return recommend.FilterModeLenient
	}
	return recommend.FilterModeStrict
}

// SetErrorHandler installs the predicate failure callback.
func (p *Pipeline) SetErrorHandler(h ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = h
}

// Mode returns "strict" or "lenient".
func (p *Pipeline) Mode() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// SetMode switches between strict and lenient combination.
func (p *Pipeline) SetMode(mode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = normalizeMode(mode)
}

// Add inserts a stage ordered by priority (lower first, insertion order for
// equal priorities). A stage with a name already present replaces it.
func (p *Pipeline) Add(s *Stage) {
	if s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = slices.DeleteFunc(p.stages, func(x *Stage) bool { return x.Name == s.Name })
	p.stages = append(p.stages, s)
	slices.SortStableFunc(p.stages, func(a, b *Stage) int {
		switch {
		case a.Priority < b.Priority:
			return -1
		case a.Priority > b.Priority:
			return 1
		default:
			return 0
		}
	})
}

// Remove deletes the named stage and reports whether it existed.
func (p *Pipeline) Remove(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.stages)
	p.stages = slices.DeleteFunc(p.stages, func(x *Stage) bool { return x.Name == name })
	return len(p.stages) != n
}

// Toggle sets the named stage's activation flag and reports whether it exists.
func (p *Pipeline) Toggle(name string, active bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.stages {
		if s.Name == name {
			s.SetActive(active)
			return true
		}
	}
	return false
}

// Clear removes every stage.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = nil
}

// Stage returns the named stage.
func (p *Pipeline) Stage(name string) (*Stage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.stages {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Stages returns the stages in evaluation order.
func (p *Pipeline) Stages() []*Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.stages)
}

// ActiveNames returns the names of active stages in evaluation order.
func (p *Pipeline) ActiveNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var names []string
	for _, s := range p.stages {
		if s.Active() {
			names = append(names, s.Name)
		}
	}
	return names
}

// HasActive reports whether any stage is active.
func (p *Pipeline) HasActive() bool {
	return len(p.ActiveNames()) > 0
}

// ApplyAll keeps the items accepted by the active stages: all of them in
// strict mode, at least one in lenient mode. With no active stage the input
// is returned as a copy.
func (p *Pipeline) ApplyAll(items []*recommend.Item) []*recommend.Item {
	p.mu.RLock()
	active := make([]*Stage, 0, len(p.stages))
	for _, s := range p.stages {
		if s.Active() {
			active = append(active, s)
		}
	}
	strict := p.mode != recommend.FilterModeLenient
	onError := p.onError
	p.mu.RUnlock()

	out := make([]*recommend.Item, 0, len(items))
	if len(active) == 0 {
		for _, item := range items {
			if item != nil {
				out = append(out, item)
			}
		}
		return out
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		if p.accepts(active, item, strict, onError) {
			out = append(out, item)
		}
	}

	metrics.RecordFilterStage("custom", len(items)-len(out))
	return out
}

func (p *Pipeline) accepts(active []*Stage, item *recommend.Item, strict bool, onError ErrorHandler) bool {
	for _, s := range active {
		ok, err := safeEval(s.predicate, item)
		if err != nil {
			p.report(s.Name, item, err, onError)
		}
		if strict && !ok {
			return false
		}
		if !strict && ok {
			return true
		}
	}
	return strict
}

func (p *Pipeline) report(stage string, item *recommend.Item, err error, onError ErrorHandler) {
	metrics.RecordFilterPanic(stage)
	p.logger.Warn().Err(err).Str("stage", stage).Str("item_id", item.ID).Msg("filter stage failed, rejecting item")
	if onError != nil {
		onError(stage, item, err)
	}
}

// String describes the pipeline for logs.
func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline{active=%d, mode=%s}", len(p.ActiveNames()), p.Mode())
}
