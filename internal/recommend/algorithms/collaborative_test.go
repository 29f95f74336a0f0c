// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package algorithms

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
)

func ratedItem(id string, ratings ...float64) *recommend.Item {
	item := recommend.NewItem(id, id, 10, nil, nil)
	for _, r := range ratings {
		item.UpdateRating(r)
	}
	return item
}

func TestCollaborative_ScoreWithoutNeighbors(t *testing.T) {
	t.Parallel()

	c := NewCollaborative(zerolog.Nop())
	p := recommend.NewUserProfile("u1")
	item := ratedItem("i1", 4, 5) // avg 4.5

	// 0.5 * 0.4 + 4.5/5 * 0.6
	want := 0.2 + 0.54
	if got := c.Score(item, p); !almostEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}

	c.SetItemPopularity("i1", 1.0)
	if got := c.Score(item, p); !almostEqual(got, 0.4+0.54) {
		t.Errorf("Score() with popularity 1 = %v, want %v", got, 0.94)
	}

	if got := c.Explain(item, p); got != "Popular choice among customers. Rating: 4.5/5.0" {
		t.Errorf("Explain() = %q", got)
	}
	if got := c.Similarity(p, item); got != 0.5 {
		t.Errorf("Similarity() = %v, want 0.5", got)
	}
}

func TestCollaborative_ScoreWithNeighbors(t *testing.T) {
	t.Parallel()

	c := NewCollaborative(zerolog.Nop())
	c.AddUserSimilarity("u1", "u2")
	c.AddUserSimilarity("u1", "u3")
	c.AddUserSimilarity("u1", "u2") // duplicate ignored
	c.AddUserSimilarity("u1", "u1") // self ignored

	p := recommend.NewUserProfile("u1")
	item := ratedItem("i1")

	// No neighbor has rated: 0.5*0.4 + 0.7*0.6
	if got := c.Score(item, p); !almostEqual(got, 0.2+0.42) {
		t.Errorf("Score() = %v, want 0.62", got)
	}
	if got := c.Similarity(p, item); got != 0.75 {
		t.Errorf("Similarity() = %v, want 0.75", got)
	}

	// u2 rates 5: popularity (0.5+1)/2 = 0.75; neighbors (1.0 + 0.7)/2 = 0.85
	c.Learn(context.Background(), recommend.FeedbackEvent{UserID: "u2", ItemID: "i1", Rating: 5})
	want := 0.75*0.4 + 0.85*0.6
	if got := c.Score(item, p); !almostEqual(got, want) {
		t.Errorf("Score() after neighbor rating = %v, want %v", got, want)
	}

	wantExplain := "Users with similar tastes also enjoyed this item. Highly rated by customers with preferences like yours."
	if got := c.Explain(item, p); got != wantExplain {
		t.Errorf("Explain() = %q", got)
	}
}

func TestCollaborative_SimilarityUsesRatingVectors(t *testing.T) {
	t.Parallel()

	c := NewCollaborative(zerolog.Nop())
	c.AddUserSimilarity("u1", "u2")
	ctx := context.Background()

	// u1 and u2 rate "a" identically; u2 also liked "target".
	c.Learn(ctx, recommend.FeedbackEvent{UserID: "u1", ItemID: "a", Rating: 5})
	c.Learn(ctx, recommend.FeedbackEvent{UserID: "u2", ItemID: "a", Rating: 5})
	c.Learn(ctx, recommend.FeedbackEvent{UserID: "u2", ItemID: "target", Rating: 5})

	// cos([1], [1, 1]) = 1 / sqrt(2)
	got := c.Similarity(recommend.NewUserProfile("u1"), ratedItem("target"))
	if !almostEqual(got, 0.7071067811865475) {
		t.Errorf("Similarity() = %v, want 1/sqrt(2)", got)
	}
}

func TestCollaborative_Learn(t *testing.T) {
	t.Parallel()

	c := NewCollaborative(zerolog.Nop())
	ctx := context.Background()

	c.Learn(ctx, recommend.FeedbackEvent{UserID: "u", ItemID: "i", Rating: 1})
	// (0.5 + 0.2) / 2
	if got := c.ItemPopularity("i"); !almostEqual(got, 0.35) {
		t.Errorf("ItemPopularity() = %v, want 0.35", got)
	}
	if got := c.ItemPopularity("unknown"); got != DefaultPopularity {
		t.Errorf("ItemPopularity(unknown) = %v, want %v", got, DefaultPopularity)
	}

	// A high rating registers the user but adds no neighbors.
	c.Learn(ctx, recommend.FeedbackEvent{UserID: "u", ItemID: "j", Rating: 4})
	if n := c.Neighbors("u"); len(n) != 0 {
		t.Errorf("Neighbors() = %v, want none", n)
	}

	// Malformed events are ignored.
	c.Learn(ctx, recommend.FeedbackEvent{})
}

func TestCollaborative_NeighborSource(t *testing.T) {
	t.Parallel()

	c := NewCollaborative(zerolog.Nop())
	c.AddUserSimilarity("u1", "u2")
	c.SetNeighborSource(func(userID string) []string {
		return []string{"u2", "u3", userID}
	})

	got := c.Neighbors("u1")
	if len(got) != 2 || got[0] != "u2" || got[1] != "u3" {
		t.Errorf("Neighbors() = %v, want [u2 u3]", got)
	}

	c.SetNeighborSource(func(string) []string { panic("store closed") })
	if got := c.Neighbors("u1"); len(got) != 1 {
		t.Errorf("Neighbors() with panicking source = %v, want [u2]", got)
	}
}

func TestCollaborative_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewCollaborative(zerolog.Nop())
	p := recommend.NewUserProfile("u1")
	item := ratedItem("i1", 3)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Learn(ctx, recommend.FeedbackEvent{UserID: "u2", ItemID: "i1", Rating: 4})
				c.AddUserSimilarity("u1", "u2")
				if s := c.Score(item, p); s < 0 || s > 1 {
					t.Errorf("Score() = %v out of range", s)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNew_Registry(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"content", "Collaborative", " content "} {
		s, err := New(name, Deps{Logger: zerolog.Nop()})
		if err != nil {
			t.Errorf("New(%q) error = %v", name, err)
			continue
		}
		if s.Name() == "" {
			t.Errorf("New(%q).Name() is empty", name)
		}
	}

	if _, err := New("ml", Deps{}); err == nil {
		t.Error("New(ml) without predictor should fail")
	}

	s, err := New("ml", Deps{Predictor: &fakePredictor{}})
	if err != nil {
		t.Fatalf("New(ml) error = %v", err)
	}
	if s.(*ML).Fallback().Name() != recommend.ScoringContent {
		t.Error("ML default fallback should be content")
	}

	if _, err := New("neural", Deps{}); err == nil {
		t.Error("New(neural) should fail")
	}
}
