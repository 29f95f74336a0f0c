// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package trending

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// Score weights and decay horizon.
const (
	orderWeight   = 0.40
	recencyWeight = 0.30
	ratingWeight  = 0.20
	viewWeight    = 0.10

	// DecayHours is the age in hours at which the recency term reaches 0.
	DecayHours = 168.0
)

// Rating bounds applied by RecordRating.
const (
	minRating = 1.0
	maxRating = 5.0
)

// DefaultTopN is the size of a trending list.
const DefaultTopN = 10

// Config configures an Aggregator.
type Config struct {
	// TopN is the number of items Trending returns. Default: 10.
	TopN int

	// Now is the clock. Default: time.Now.
	Now func() time.Time
}

// record is the mutable state of one tracked item.
type record struct {
	mu          sync.Mutex
	item        *recommend.Item
	seq         int
	orders      int
	views       float64
	ratings     []float64
	lastOrdered time.Time
	score       float64
}

// Entry is one ranked trending item.
type Entry struct {
	Item  *recommend.Item `json:"item"`
	Score float64         `json:"score"`

	// InWindow reports an order within the requested window.
	InWindow bool `json:"in_window"`
}

// Aggregator tracks popularity counters for registered items.
type Aggregator struct {
	mu      sync.RWMutex
	records map[string]*record
	nextSeq int

	topN   int
	now    func() time.Time
	logger zerolog.Logger

	updateMu    sync.Mutex
	lastUpdated time.Time
}

// New creates an empty Aggregator.
func New(cfg Config, logger zerolog.Logger) *Aggregator {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Aggregator{
		records: make(map[string]*record),
		topN:    cfg.TopN,
		now:     cfg.Now,
		logger:  logger.With().Str("component", "trending").Logger(),
	}
}

// Register starts tracking an item. Re-registering keeps the counters and
// replaces the item value.
func (a *Aggregator) Register(item *recommend.Item) {
	if item == nil || item.ID == "" {
		return
	}
	a.mu.Lock()
	if r, ok := a.records[item.ID]; ok {
		r.mu.Lock()
		r.item = item
		r.mu.Unlock()
	} else {
		a.records[item.ID] = &record{item: item, seq: a.nextSeq}
		a.nextSeq++
	}
	n := len(a.records)
	a.mu.Unlock()
	metrics.SetTrendingTrackedItems(n)
}

// RegisterAll registers every item in order.
func (a *Aggregator) RegisterAll(items []*recommend.Item) {
	for _, item := range items {
		a.Register(item)
	}
}

// RemoveItem stops tracking an item and discards its counters.
func (a *Aggregator) RemoveItem(itemID string) {
	a.mu.Lock()
	delete(a.records, itemID)
	n := len(a.records)
	a.mu.Unlock()
	metrics.SetTrendingTrackedItems(n)
}

// Tracked returns the number of registered items.
func (a *Aggregator) Tracked() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

func (a *Aggregator) get(itemID string) *record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records[itemID]
}

// update applies fn to the item's record and recomputes its score. It
// reports false for unregistered items.
func (a *Aggregator) update(itemID string, fn func(r *record, now time.Time)) bool {
	r := a.get(itemID)
	if r == nil {
		a.logger.Debug().Str("item_id", itemID).Msg("event for untracked item ignored")
		return false
	}
	now := a.now()
	r.mu.Lock()
	fn(r, now)
	r.score = computeScore(r, now)
	r.mu.Unlock()
	a.touch(now)
	return true
}

func (a *Aggregator) touch(now time.Time) {
	a.updateMu.Lock()
	a.lastUpdated = now
	a.updateMu.Unlock()
}

// RecordOrder counts one order and stamps the last-order time.
func (a *Aggregator) RecordOrder(itemID string) {
	a.RecordMultipleOrders(itemID, 1)
}

// RecordMultipleOrders counts n orders at once; n <= 0 is ignored.
func (a *Aggregator) RecordMultipleOrders(itemID string, n int) {
	if n <= 0 {
		return
	}
	a.update(itemID, func(r *record, now time.Time) {
		r.orders += n
		r.lastOrdered = now
	})
}

// RecordView counts one view.
func (a *Aggregator) RecordView(itemID string) {
	a.RecordViewWeighted(itemID, 1)
}

// RecordViewWeighted adds a fractional view weight; non-positive weights
// are ignored.
func (a *Aggregator) RecordViewWeighted(itemID string, weight float64) {
	if !(weight > 0) || math.IsInf(weight, 0) {
		return
	}
	a.update(itemID, func(r *record, _ time.Time) {
		r.views += weight
	})
}

// RecordRating appends a rating clamped to [1, 5].
func (a *Aggregator) RecordRating(itemID string, rating float64) {
	if math.IsNaN(rating) {
		return
	}
	rating = recommend.Clamp(rating, minRating, maxRating)
	a.update(itemID, func(r *record, _ time.Time) {
		r.ratings = append(r.ratings, rating)
	})
}

// ResetStats zeroes an item's counters while keeping it registered.
func (a *Aggregator) ResetStats(itemID string) {
	a.update(itemID, func(r *record, _ time.Time) {
		r.orders = 0
		r.views = 0
		r.ratings = nil
		r.lastOrdered = time.Time{}
	})
}

// ResetAll zeroes every item's counters.
func (a *Aggregator) ResetAll() {
	for _, r := range a.snapshotRecords() {
		r.mu.Lock()
		r.orders, r.views, r.ratings, r.lastOrdered, r.score = 0, 0, nil, time.Time{}, 0
		r.mu.Unlock()
	}
	a.touch(a.now())
}

// Score returns the item's last computed trending score.
func (a *Aggregator) Score(itemID string) float64 {
	r := a.get(itemID)
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.score
}

// RefreshAll recomputes every score against the clock and returns the
// number of items refreshed.
func (a *Aggregator) RefreshAll() int {
	start := time.Now()
	now := a.now()
	recs := a.snapshotRecords()
	for _, r := range recs {
		r.mu.Lock()
		r.score = computeScore(r, now)
		r.mu.Unlock()
	}
	a.touch(now)
	metrics.RecordTrendingRefresh(time.Since(start))
	return len(recs)
}

// Trending refreshes every score and returns the top items by score, ties in
// registration order.
func (a *Aggregator) Trending(window string) []*recommend.Item {
	entries := a.TrendingEntries(window)
	out := make([]*recommend.Item, len(entries))
	for i, e := range entries {
		out[i] = e.Item
	}
	return out
}

// TrendingEntries is Trending with scores and window membership.
func (a *Aggregator) TrendingEntries(window string) []Entry {
	w := ParseWindow(window)
	a.RefreshAll()
	cutoff := w.Cutoff(a.now())

	type ranked struct {
		Entry
		seq int
	}
	recs := a.snapshotRecords()
	list := make([]ranked, 0, len(recs))
	for _, r := range recs {
		r.mu.Lock()
		list = append(list, ranked{
			Entry: Entry{
				Item:     r.item,
				Score:    r.score,
				InWindow: !r.lastOrdered.IsZero() && !r.lastOrdered.Before(cutoff),
			},
			seq: r.seq,
		})
		r.mu.Unlock()
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].seq < list[j].seq
	})

	n := min(a.topN, len(list))
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = list[i].Entry
	}
	return out
}

// MostOrdered returns up to limit items by order count.
func (a *Aggregator) MostOrdered(limit int) []*recommend.Item {
	return a.topBy(limit, func(r *record) (float64, bool) { return float64(r.orders), true })
}

// MostViewed returns up to limit items by view weight.
func (a *Aggregator) MostViewed(limit int) []*recommend.Item {
	return a.topBy(limit, func(r *record) (float64, bool) { return r.views, true })
}

// HighestRated returns up to limit rated items by mean rating.
func (a *Aggregator) HighestRated(limit int) []*recommend.Item {
	return a.topBy(limit, func(r *record) (float64, bool) {
		return mean(r.ratings), len(r.ratings) > 0
	})
}

func (a *Aggregator) topBy(limit int, key func(r *record) (float64, bool)) []*recommend.Item {
	if limit <= 0 {
		return nil
	}
	type ranked struct {
		item *recommend.Item
		v    float64
		seq  int
	}
	var list []ranked
	for _, r := range a.snapshotRecords() {
		r.mu.Lock()
		v, ok := key(r)
		item, seq := r.item, r.seq
		r.mu.Unlock()
		if ok {
			list = append(list, ranked{item: item, v: v, seq: seq})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].v != list[j].v {
			return list[i].v > list[j].v
		}
		return list[i].seq < list[j].seq
	})
	n := min(limit, len(list))
	out := make([]*recommend.Item, n)
	for i := 0; i < n; i++ {
		out[i] = list[i].item
	}
	return out
}

// snapshotRecords returns the tracked records in registration order.
func (a *Aggregator) snapshotRecords() []*record {
	a.mu.RLock()
	recs := make([]*record, 0, len(a.records))
	for _, r := range a.records {
		recs = append(recs, r)
	}
	a.mu.RUnlock()
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	return recs
}

func computeScore(r *record, now time.Time) float64 {
	score := math.Log1p(float64(r.orders)) * orderWeight

	if !r.lastOrdered.IsZero() {
		hours := math.Max(0, math.Floor(now.Sub(r.lastOrdered).Hours()))
		score += math.Max(0, 1-hours/DecayHours) * recencyWeight
	}
	if len(r.ratings) > 0 {
		score += mean(r.ratings) / 5.0 * ratingWeight
	}
	score += math.Log1p(r.views) * viewWeight

	return math.Max(0, score)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
