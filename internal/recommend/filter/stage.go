// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package filter

import (
	"fmt"
	"sync/atomic"

	"github.com/goccy/go-json"

	"github.com/tomtom215/menurec/internal/recommend"
)

// DefaultPriority is assigned to new stages.
const DefaultPriority = 1.0

// customRule is reported as the rule of predicate-backed stages.
const customRule = "custom predicate"

// Predicate reports whether an item passes a filter.
type Predicate func(item *recommend.Item) bool

// Stage is a named, toggleable predicate. The activation flag may be flipped
// while other goroutines evaluate the stage.
type Stage struct {
	Name        string  `json:"name"`
	Rule        string  `json:"rule"`
	Description string  `json:"description,omitempty"`
	Priority    float64 `json:"priority"`

	active    atomic.Bool
	predicate Predicate
}

func newStage(name, rule, description string, predicate Predicate) *Stage {
	s := &Stage{
		Name:        name,
		Rule:        rule,
		Description: description,
		Priority:    DefaultPriority,
		predicate:   predicate,
	}
	s.active.Store(true)
	return s
}

// NewStage creates an active stage around a predicate. A nil predicate
// accepts everything.
func NewStage(name string, predicate Predicate) *Stage {
	if predicate == nil {
		predicate = acceptAll
	}
	return newStage(name, customRule, "", predicate)
}

// RuleStage creates an active stage from a rule string. The stage is named
// after the rule.
func RuleStage(rule string) *Stage {
	return NamedRuleStage(rule, rule, "")
}

// RuleStageWith is RuleStage resolving category_ rules through categories.
func RuleStageWith(rule string, categories recommend.CategoryResolver) *Stage {
	s := RuleStage(rule)
	s.predicate = ParseRuleWith(rule, categories)
	return s
}

// NamedRuleStage creates an active stage from a rule string with an explicit
// name and description.
func NamedRuleStage(name, rule, description string) *Stage {
	return newStage(name, rule, description, ParseRule(rule))
}

// Active reports whether the stage participates in filtering.
func (s *Stage) Active() bool {
	return s.active.Load()
}

// SetActive sets the activation flag.
func (s *Stage) SetActive(active bool) {
	s.active.Store(active)
}

// WithPriority sets the priority and returns the stage.
func (s *Stage) WithPriority(p float64) *Stage {
	s.Priority = p
	return s
}

// Accepts evaluates the predicate. Inactive stages and nil items reject.
// A panicking predicate rejects and returns the recovered value as err.
func (s *Stage) Accepts(item *recommend.Item) (ok bool, err error) {
	if !s.Active() || item == nil {
		return false, nil
	}
	return safeEval(s.predicate, item)
}

// Filter returns the items the stage accepts. An inactive stage returns a
// copy of the input.
func (s *Stage) Filter(items []*recommend.Item) []*recommend.Item {
	if !s.Active() {
		return append([]*recommend.Item(nil), items...)
	}
	out := make([]*recommend.Item, 0, len(items))
	for _, item := range items {
		if ok, _ := s.Accepts(item); ok {
			out = append(out, item)
		}
	}
	return out
}

// Count returns how many items the stage accepts; 0 when inactive.
func (s *Stage) Count(items []*recommend.Item) int {
	if !s.Active() {
		return 0
	}
	n := 0
	for _, item := range items {
		if ok, _ := s.Accepts(item); ok {
			n++
		}
	}
	return n
}

// String describes the stage for logs.
func (s *Stage) String() string {
	return fmt.Sprintf("Stage{name=%q, rule=%q, active=%t, priority=%.1f}", s.Name, s.Rule, s.Active(), s.Priority)
}

// MarshalJSON includes the activation flag.
func (s *Stage) MarshalJSON() ([]byte, error) {
	type view struct {
		Name        string  `json:"name"`
		Rule        string  `json:"rule"`
		Description string  `json:"description,omitempty"`
		Priority    float64 `json:"priority"`
		Active      bool    `json:"active"`
	}
	return json.Marshal(view{
		Name:        s.Name,
		Rule:        s.Rule,
		Description: s.Description,
		Priority:    s.Priority,
		Active:      s.Active(),
	})
}

func safeEval(p Predicate, item *recommend.Item) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("predicate panicked: %v", r)
		}
	}()
	return p(item), nil
}

func acceptAll(*recommend.Item) bool { return true }
