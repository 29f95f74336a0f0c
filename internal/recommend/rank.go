// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// ScoredItem pairs an item with its score and its position in the input.
type ScoredItem struct {
	Item  *Item   `json:"item"`
	Score float64 `json:"score"`
	Index int     `json:"-"`
}

// SafeScore calls fn and converts a panic into an error with a zero score.
func SafeScore(fn func() float64) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()
	return fn(), nil
}

// SortScored orders by score desc, breaking ties by input index.
func SortScored(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Index < items[j].Index
	})
}

// RankByScore keeps available candidates, scores them with score, and returns
// the top limit items. A candidate whose scoring panics gets 0. A
// non-positive limit returns every ranked item. Cancellation of ctx stops
// scoring; candidates not yet scored are dropped.
func RankByScore(ctx context.Context, candidates []*Item, limit int, score func(*Item) float64) []*Item {
	scored := make([]ScoredItem, 0, len(candidates))
	for i, item := range candidates {
		if ctx.Err() != nil {
			break
		}
		if item == nil || !item.Available {
			continue
		}
		s, _ := SafeScore(func() float64 { return score(item) })
		scored = append(scored, ScoredItem{Item: item, Score: s, Index: i})
	}

	SortScored(scored)

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]*Item, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
