// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package trending

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.July, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newAggregator(clock *fakeClock, items ...string) *Aggregator {
	a := New(Config{Now: clock.Now}, zerolog.Nop())
	for _, id := range items {
		a.Register(recommend.NewItem(id, id, 10, nil, nil))
	}
	return a
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  Window
	}{
		{"1h", WindowHour},
		{"hour", WindowHour},
		{"24h", WindowDay},
		{" 7D ", WindowWeek},
		{"month", WindowMonth},
		{"", DefaultWindow},
		{"fortnight", DefaultWindow},
	}
	for _, tt := range tests {
		if got := ParseWindow(tt.label); got != tt.want {
			t.Errorf("ParseWindow(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}

	now := time.Date(2026, time.July, 14, 12, 0, 0, 0, time.UTC)
	if got := WindowWeek.Cutoff(now); !got.Equal(now.Add(-168 * time.Hour)) {
		t.Errorf("Cutoff() = %v", got)
	}
}

func TestScore_Formula(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	a := newAggregator(clock, "A", "B")

	if got := a.Score("B"); got != 0 {
		t.Errorf("Score(untouched) = %v, want 0", got)
	}

	a.RecordOrder("A")
	// log1p(1)*0.4 + full recency 0.3
	want := math.Log1p(1)*orderWeight + recencyWeight
	if got := a.Score("A"); !almostEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}

	a.RecordRating("A", 9) // clamped to 5
	want += ratingWeight
	a.RecordView("A")
	want += math.Log1p(1) * viewWeight
	if got := a.Score("A"); !almostEqual(got, want) {
		t.Errorf("Score() with rating and view = %v, want %v", got, want)
	}
}

func TestScore_RecencyDecay(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	a := newAggregator(clock, "A")
	a.RecordOrder("A")

	// 84.5 hours truncates to 84: half the recency term.
	clock.Advance(84*time.Hour + 30*time.Minute)
	a.RefreshAll()
	want := math.Log1p(1)*orderWeight + 0.5*recencyWeight
	if got := a.Score("A"); !almostEqual(got, want) {
		t.Errorf("Score() at 84h = %v, want %v", got, want)
	}

	clock.Advance(200 * time.Hour)
	a.RefreshAll()
	if got := a.Score("A"); !almostEqual(got, math.Log1p(1)*orderWeight) {
		t.Errorf("Score() past decay = %v, want %v", got, math.Log1p(1)*orderWeight)
	}
}

func TestEvents_UnregisteredIgnored(t *testing.T) {
	t.Parallel()

	a := newAggregator(newFakeClock(), "A")
	a.RecordOrder("ghost")
	a.RecordView("ghost")
	a.RecordRating("ghost", 5)

	if a.Tracked() != 1 {
		t.Errorf("Tracked() = %d, want 1", a.Tracked())
	}
	if _, ok := a.ItemStats("ghost"); ok {
		t.Error("ItemStats(ghost) should not exist")
	}
	if got := a.Score("ghost"); got != 0 {
		t.Errorf("Score(ghost) = %v, want 0", got)
	}
}

func TestEvents_InvalidAmountsIgnored(t *testing.T) {
	t.Parallel()

	a := newAggregator(newFakeClock(), "A")
	a.RecordMultipleOrders("A", 0)
	a.RecordMultipleOrders("A", -3)
	a.RecordViewWeighted("A", 0)
	a.RecordViewWeighted("A", math.NaN())
	a.RecordRating("A", math.NaN())

	s, _ := a.ItemStats("A")
	if s.Orders != 0 || s.Views != 0 || s.RatingsCount != 0 {
		t.Errorf("ItemStats() = %+v, want zero counters", s)
	}

	a.RecordRating("A", 0) // clamped to 1
	a.RecordViewWeighted("A", 0.5)
	s, _ = a.ItemStats("A")
	if s.AverageRating != 1 || s.Views != 0.5 {
		t.Errorf("ItemStats() = %+v, want rating 1 and views 0.5", s)
	}
}

func TestRegister_KeepsCounters(t *testing.T) {
	t.Parallel()

	a := newAggregator(newFakeClock(), "A")
	a.RecordMultipleOrders("A", 3)

	renamed := recommend.NewItem("A", "Renamed", 10, nil, nil)
	a.Register(renamed)

	s, _ := a.ItemStats("A")
	if s.Orders != 3 {
		t.Errorf("Orders = %d, want 3", s.Orders)
	}
	if got := a.Trending("24h"); got[0] != renamed {
		t.Error("Register should replace the item value")
	}

	a.Register(nil)
	a.Register(&recommend.Item{})
	if a.Tracked() != 1 {
		t.Errorf("Tracked() = %d, want 1", a.Tracked())
	}
}

func TestTrending_TopTenAndTies(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	a := newAggregator(clock)
	for i := 0; i < 15; i++ {
		a.Register(recommend.NewItem(fmt.Sprintf("i%02d", i), "x", 10, nil, nil))
	}
	a.RecordMultipleOrders("i14", 5)
	a.RecordOrder("i07")

	got := a.Trending("week")
	if len(got) != DefaultTopN {
		t.Fatalf("len(Trending()) = %d, want %d", len(got), DefaultTopN)
	}
	if got[0].ID != "i14" || got[1].ID != "i07" {
		t.Errorf("Trending() head = %s, %s, want i14, i07", got[0].ID, got[1].ID)
	}
	// Zero-score items follow in registration order.
	if got[2].ID != "i00" || got[3].ID != "i01" {
		t.Errorf("Trending() ties = %s, %s, want i00, i01", got[2].ID, got[3].ID)
	}
}

func TestTrendingEntries_InWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	a := newAggregator(clock, "old", "new")
	a.RecordOrder("old")
	clock.Advance(3 * time.Hour)
	a.RecordOrder("new")

	entries := a.TrendingEntries("1h")
	byID := map[string]Entry{}
	for _, e := range entries {
		byID[e.Item.ID] = e
	}
	if !byID["new"].InWindow || byID["old"].InWindow {
		t.Errorf("InWindow = new:%v old:%v, want true, false", byID["new"].InWindow, byID["old"].InWindow)
	}
	// The window labels membership but does not exclude items.
	if len(entries) != 2 {
		t.Errorf("len(TrendingEntries()) = %d, want 2", len(entries))
	}
}

func TestRankings(t *testing.T) {
	t.Parallel()

	a := newAggregator(newFakeClock(), "A", "B", "C")
	a.RecordMultipleOrders("B", 4)
	a.RecordOrder("C")
	a.RecordViewWeighted("C", 10)
	a.RecordView("A")
	a.RecordRating("A", 3)
	a.RecordRating("C", 5)

	check := func(name string, got []*recommend.Item, want ...string) {
		t.Helper()
		gotIDs := ids(got)
		if fmt.Sprint(gotIDs) != fmt.Sprint(want) {
			t.Errorf("%s = %v, want %v", name, gotIDs, want)
		}
	}
	check("MostOrdered", a.MostOrdered(2), "B", "C")
	check("MostViewed", a.MostViewed(3), "C", "A", "B")
	check("HighestRated", a.HighestRated(10), "C", "A")

	if got := a.MostOrdered(0); got != nil {
		t.Errorf("MostOrdered(0) = %v, want nil", got)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	a := newAggregator(newFakeClock(), "A", "B")
	a.RecordOrder("A")
	a.RecordOrder("B")

	a.ResetStats("A")
	if s, _ := a.ItemStats("A"); s.Orders != 0 || s.Score != 0 || !s.LastOrdered.IsZero() {
		t.Errorf("ItemStats(A) after reset = %+v", s)
	}
	if s, _ := a.ItemStats("B"); s.Orders != 1 {
		t.Errorf("ItemStats(B) = %+v, want 1 order", s)
	}

	a.ResetAll()
	if stats := a.OverallStats(); stats.TotalOrders != 0 || stats.TrackedItems != 2 {
		t.Errorf("OverallStats() after ResetAll = %+v", stats)
	}

	a.RemoveItem("A")
	if a.Tracked() != 1 {
		t.Errorf("Tracked() = %d, want 1", a.Tracked())
	}
}

func TestOverallStats(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	a := newAggregator(clock, "A", "B")
	a.RecordMultipleOrders("A", 2)
	a.RecordView("B")
	a.RecordRating("B", 4)

	s := a.OverallStats()
	if s.TrackedItems != 2 || s.TotalOrders != 2 || s.TotalViews != 1 || s.TotalRatings != 1 {
		t.Errorf("OverallStats() = %+v", s)
	}
	if len(s.TopTrending) != 2 || s.TopTrending[0] != "A" {
		t.Errorf("TopTrending = %v", s.TopTrending)
	}
	if len(s.TopRated) != 1 || s.TopRated[0] != "B" {
		t.Errorf("TopRated = %v", s.TopRated)
	}
	if !s.LastUpdated.Equal(clock.Now()) {
		t.Errorf("LastUpdated = %v, want %v", s.LastUpdated, clock.Now())
	}
}

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	a := newAggregator(clock, "A", "B")
	a.RecordMultipleOrders("A", 3)
	a.RecordRating("A", 4)
	a.RecordViewWeighted("B", 2.5)

	snap := a.Snapshot()
	if len(snap) != 2 || snap[0].ItemID != "A" {
		t.Fatalf("Snapshot() = %+v", snap)
	}

	b := New(Config{Now: clock.Now}, zerolog.Nop())
	orphan := Record{ItemID: "X", Orders: 1}
	if n := b.Restore(append(snap, orphan)); n != 2 {
		t.Errorf("Restore() = %d, want 2", n)
	}
	if got, want := b.Score("A"), a.Score("A"); !almostEqual(got, want) {
		t.Errorf("restored Score(A) = %v, want %v", got, want)
	}
	if s, _ := b.ItemStats("B"); s.Views != 2.5 {
		t.Errorf("restored views = %v, want 2.5", s.Views)
	}
}

func TestAggregator_Concurrent(t *testing.T) {
	t.Parallel()

	a := newAggregator(newFakeClock(), "A", "B")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				a.RecordOrder("A")
				a.RecordView("B")
				a.RecordRating("A", 4)
				_ = a.Trending("24h")
			}
		}()
	}
	wg.Wait()

	if s, _ := a.ItemStats("A"); s.Orders != 400 || s.RatingsCount != 400 {
		t.Errorf("ItemStats(A) = %+v, want 400 orders and ratings", s)
	}
}
