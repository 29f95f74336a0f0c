// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package algorithms

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/similarity"
)

// Collaborative weights and priors.
const (
	collabPopularityWeight = 0.4
	collabNeighborWeight   = 0.6

	// DefaultPopularity is assumed for items with no feedback yet.
	DefaultPopularity = 0.5

	// neighborPrior is the contribution of a neighbor that has not rated the item.
	neighborPrior = 0.7

	// tasteSimilarityPrior applies when neighbors exist but none liked the item.
	tasteSimilarityPrior = 0.75

	neutralSimilarity = 0.5
	likedRating       = 4.0
)

// NeighborSource suggests similar users for userID, e.g. from profile similarity.
type NeighborSource func(userID string) []string

// Collaborative scores items from item popularity and the ratings of similar
// users:
//
//	score = 0.4 * popularity(item) + 0.6 * neighbors(user, item)
//
// where neighbors averages each similar user's normalized rating of the item
// (0.7 for a neighbor without a rating). A user with no neighbors falls back to
// the item's average rating / 5.
type Collaborative struct {
	BaseStrategy

	mu         sync.RWMutex
	popularity map[string]float64           // item_id -> popularity
	neighbors  map[string][]string          // user_id -> similar user IDs
	ratings    map[string]similarity.Vector // user_id -> item_id -> rating/5
	source     NeighborSource
}

// NewCollaborative creates a collaborative strategy with empty state.
func NewCollaborative(logger zerolog.Logger) *Collaborative {
	return &Collaborative{
		BaseStrategy: NewBaseStrategy(recommend.ScoringCollaborative, nil, logger),
		popularity:   make(map[string]float64),
		neighbors:    make(map[string][]string),
		ratings:      make(map[string]similarity.Vector),
	}
}

// SetNeighborSource installs an additional source of similar users. Users it
// returns are merged with those added through AddUserSimilarity.
func (c *Collaborative) SetNeighborSource(src NeighborSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = src
}

// AddUserSimilarity records similarUserID as a neighbor of userID.
func (c *Collaborative) AddUserSimilarity(userID, similarUserID string) {
	if userID == "" || similarUserID == "" || userID == similarUserID {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.neighbors[userID], similarUserID) {
		c.neighbors[userID] = append(c.neighbors[userID], similarUserID)
	}
}

// SetItemPopularity overrides the popularity of an item, clamped to [0, 1].
func (c *Collaborative) SetItemPopularity(itemID string, popularity float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popularity[itemID] = recommend.Clamp01(popularity)
}

// ItemPopularity returns the popularity of an item (0.5 when unknown).
func (c *Collaborative) ItemPopularity(itemID string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemPopularityLocked(itemID)
}

func (c *Collaborative) itemPopularityLocked(itemID string) float64 {
	if p, ok := c.popularity[itemID]; ok {
		return p
	}
	return DefaultPopularity
}

// Neighbors returns the similar users of userID.
func (c *Collaborative) Neighbors(userID string) []string {
	c.mu.RLock()
	src := c.source
	explicit := slices.Clone(c.neighbors[userID])
	c.mu.RUnlock()

	if src == nil {
		return explicit
	}

	for _, id := range safeNeighbors(src, userID) {
		if id != userID && !slices.Contains(explicit, id) {
			explicit = append(explicit, id)
		}
	}
	return explicit
}

func safeNeighbors(src NeighborSource, userID string) (ids []string) {
	defer func() {
		if recover() != nil {
			ids = nil
		}
	}()
	return src(userID)
}

// Score returns the collaborative score of item for profile in [0, 1].
func (c *Collaborative) Score(item *recommend.Item, profile *recommend.UserProfile) float64 {
	if item == nil || profile == nil {
		return 0
	}

	neighbors := c.Neighbors(profile.UserID)

	c.mu.RLock()
	defer c.mu.RUnlock()

	score := c.itemPopularityLocked(item.ID) * collabPopularityWeight

	if len(neighbors) == 0 {
		score += item.AverageRating / 5.0 * collabNeighborWeight
		return recommend.Clamp01(score)
	}

	total := 0.0
	for _, id := range neighbors {
		if r, ok := c.ratings[id][item.ID]; ok {
			total += r
			continue
		}
		total += neighborPrior
	}
	score += total / float64(len(neighbors)) * collabNeighborWeight

	return recommend.Clamp01(score)
}

// Similarity returns the mean rating-vector cosine between the user and the
// neighbors who liked the item. Without neighbors it is 0.5.
func (c *Collaborative) Similarity(profile *recommend.UserProfile, item *recommend.Item) float64 {
	if item == nil || profile == nil {
		return neutralSimilarity
	}

	neighbors := c.Neighbors(profile.UserID)
	if len(neighbors) == 0 {
		return neutralSimilarity
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	own := c.ratings[profile.UserID]
	total, n := 0.0, 0
	for _, id := range neighbors {
		theirs := c.ratings[id]
		if r, ok := theirs[item.ID]; !ok || r < likedRating/5.0 {
			continue
		}
		total += similarity.CosineSparse(own, theirs)
		n++
	}
	if n == 0 {
		return tasteSimilarityPrior
	}
	return recommend.Clamp01(total / float64(n))
}

// Rank orders available candidates by Score.
func (c *Collaborative) Rank(ctx context.Context, candidates []*recommend.Item, profile *recommend.UserProfile, limit int) []*recommend.Item {
	return recommend.RankByScore(ctx, candidates, limit, func(item *recommend.Item) float64 {
		return c.Score(item, profile)
	})
}

// Learn moves the item popularity halfway toward rating/5 and stores the
// user's rating. A rating of 4 or more registers the user in the
// neighbor table.
//
//nolint:gocritic // hugeParam: FeedbackEvent passed by value to match the interface
func (c *Collaborative) Learn(_ context.Context, event recommend.FeedbackEvent) {
	if event.ItemID == "" {
		return
	}
	normalized := recommend.Clamp01(event.Rating / 5.0)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.popularity[event.ItemID] = (c.itemPopularityLocked(event.ItemID) + normalized) / 2.0

	if event.UserID == "" {
		return
	}
	if c.ratings[event.UserID] == nil {
		c.ratings[event.UserID] = make(similarity.Vector)
	}
	c.ratings[event.UserID][event.ItemID] = normalized

	if event.Rating >= likedRating {
		if _, ok := c.neighbors[event.UserID]; !ok {
			c.neighbors[event.UserID] = []string{}
		}
		c.logger.Debug().Str("user_id", event.UserID).Msg("registered user for similarity")
	}
}

// Explain describes whether the score came from similar users or popularity.
func (c *Collaborative) Explain(item *recommend.Item, profile *recommend.UserProfile) string {
	if profile != nil && len(c.Neighbors(profile.UserID)) > 0 {
		return "Users with similar tastes also enjoyed this item. Highly rated by customers with preferences like yours."
	}
	rating := 0.0
	if item != nil {
		rating = item.AverageRating
	}
	return fmt.Sprintf("Popular choice among customers. Rating: %.1f/5.0", rating)
}
