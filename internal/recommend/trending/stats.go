// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package trending

import (
	"time"

	"github.com/tomtom215/menurec/internal/recommend"
)

// summaryLimit is the number of items listed in each OverallStats ranking.
const summaryLimit = 5

// ItemStats is a point-in-time view of one item's counters.
type ItemStats struct {
	ItemID        string    `json:"item_id"`
	Score         float64   `json:"score"`
	Orders        int       `json:"orders"`
	Views         float64   `json:"views"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int       `json:"ratings_count"`
	LastOrdered   time.Time `json:"last_ordered,omitempty"`
}

// OverallStats summarizes the aggregator.
type OverallStats struct {
	TrackedItems int       `json:"tracked_items"`
	TotalOrders  int       `json:"total_orders"`
	TotalViews   float64   `json:"total_views"`
	TotalRatings int       `json:"total_ratings"`
	LastUpdated  time.Time `json:"last_updated,omitempty"`
	TopTrending  []string  `json:"top_trending"`
	TopOrdered   []string  `json:"top_ordered"`
	TopRated     []string  `json:"top_rated"`
}

// Record is the persisted form of one item's counters.
type Record struct {
	ItemID      string          `json:"item_id"`
	Item        *recommend.Item `json:"item,omitempty"`
	Orders      int             `json:"orders"`
	Views       float64         `json:"views"`
	Ratings     []float64       `json:"ratings,omitempty"`
	LastOrdered time.Time       `json:"last_ordered,omitempty"`
}

// ItemStats returns the counters of a tracked item.
func (a *Aggregator) ItemStats(itemID string) (ItemStats, bool) {
	r := a.get(itemID)
	if r == nil {
		return ItemStats{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return ItemStats{
		ItemID:        itemID,
		Score:         r.score,
		Orders:        r.orders,
		Views:         r.views,
		AverageRating: mean(r.ratings),
		RatingsCount:  len(r.ratings),
		LastOrdered:   r.lastOrdered,
	}, true
}

// OverallStats returns totals and the top items of each ranking.
func (a *Aggregator) OverallStats() OverallStats {
	var s OverallStats
	for _, r := range a.snapshotRecords() {
		r.mu.Lock()
		s.TrackedItems++
		s.TotalOrders += r.orders
		s.TotalViews += r.views
		s.TotalRatings += len(r.ratings)
		r.mu.Unlock()
	}

	trending := a.Trending(string(DefaultWindow))
	s.TopTrending = ids(trending[:min(summaryLimit, len(trending))])
	s.TopOrdered = ids(a.MostOrdered(summaryLimit))
	s.TopRated = ids(a.HighestRated(summaryLimit))

	a.updateMu.Lock()
	s.LastUpdated = a.lastUpdated
	a.updateMu.Unlock()
	return s
}

// Snapshot returns every item's counters in registration order.
func (a *Aggregator) Snapshot() []Record {
	recs := a.snapshotRecords()
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		r.mu.Lock()
		out = append(out, Record{
			ItemID:      r.item.ID,
			Item:        r.item,
			Orders:      r.orders,
			Views:       r.views,
			Ratings:     append([]float64(nil), r.ratings...),
			LastOrdered: r.lastOrdered,
		})
		r.mu.Unlock()
	}
	return out
}

// Restore loads counters from a snapshot. Records for unregistered items
// register them when the record carries the item; others are skipped.
// Scores are recomputed against the clock.
func (a *Aggregator) Restore(records []Record) int {
	restored := 0
	for i := range records {
		rec := &records[i]
		if a.get(rec.ItemID) == nil {
			if rec.Item == nil || rec.Item.ID != rec.ItemID {
				continue
			}
			a.Register(rec.Item)
		}
		ok := a.update(rec.ItemID, func(r *record, _ time.Time) {
			r.orders = max(0, rec.Orders)
			r.views = max(0, rec.Views)
			r.ratings = clampRatings(rec.Ratings)
			r.lastOrdered = rec.LastOrdered
		})
		if ok {
			restored++
		}
	}
	a.logger.Debug().Int("records", len(records)).Int("restored", restored).Msg("trending counters restored")
	return restored
}

func clampRatings(in []float64) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, 0, len(in))
	for _, v := range in {
		out = append(out, recommend.Clamp(v, minRating, maxRating))
	}
	return out
}

func ids(items []*recommend.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
