// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/algorithms"
	"github.com/tomtom215/menurec/internal/recommend/feedback"
	"github.com/tomtom215/menurec/internal/recommend/filter"
	"github.com/tomtom215/menurec/internal/recommend/profile"
	"github.com/tomtom215/menurec/internal/recommend/reranking"
	"github.com/tomtom215/menurec/internal/recommend/trending"
)

// neighborLimit bounds the similar users fed to the collaborative strategy.
const neighborLimit = 10

// Publisher hands events to the out-of-band bus.
type Publisher interface {
	PublishFeedback(ctx context.Context, event recommend.FeedbackEvent) error
	PublishOrder(ctx context.Context, event recommend.OrderEvent) error
}

// OrderRecorder is implemented by order histories that accept new orders.
type OrderRecorder interface {
	Record(userID, itemID string, quantity int)
}

// RatingUpdater is implemented by catalogs that store item ratings.
type RatingUpdater interface {
	UpdateRating(itemID string, rating float64) error
}

// AvailabilitySetter is implemented by catalogs that record availability
// without mutating items already handed out.
type AvailabilitySetter interface {
	SetAvailable(itemID string, available bool) error
}

// Deps are the collaborators of an Engine. Catalog is required; the rest
// default to in-memory implementations or are optional.
type Deps struct {
	Catalog    recommend.Catalog
	Inventory  recommend.Inventory
	Orders     recommend.OrderHistory
	Categories recommend.CategoryResolver

	Profiles *profile.Store
	Trending *trending.Aggregator

	// Scoring and Feedback override the strategies named in the config.
	Scoring  recommend.ScoringStrategy
	Feedback recommend.FeedbackStrategy

	// Predictor backs the "ml" scoring strategy.
	Predictor algorithms.Predictor

	// Publisher, when set, receives feedback and order events instead of
	// the engine applying them inline.
	Publisher Publisher

	// Now is the clock used for default contexts. Default: time.Now.
	Now func() time.Time
}

// Engine is the recommendation orchestrator. It is safe for concurrent use.
type Engine struct {
	cfg *recommend.Config

	catalog   recommend.Catalog
	inventory recommend.Inventory
	orders    recommend.OrderHistory
	profiles  *profile.Store
	trending  *trending.Aggregator
	scoring   recommend.ScoringStrategy
	feedback  recommend.FeedbackStrategy
	filters   *filter.Canonical
	reranker  *reranking.MMR
	publisher Publisher
	now       func() time.Time
	logger    zerolog.Logger

	metricsMu   sync.Mutex
	performance recommend.PerformanceMetrics
	lastUpdated time.Time
}

// New creates an Engine. A nil cfg uses recommend.DefaultConfig.
//
//nolint:gocritic // hugeParam: Deps is a one-time construction argument
func New(cfg *recommend.Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if deps.Catalog == nil {
		return nil, errors.New("engine requires a catalog")
	}

	logger = logger.With().Str("component", "orchestrator").Logger()

	if deps.Orders == nil {
		deps.Orders = recommend.NewMemoryOrderHistory()
	}
	if deps.Profiles == nil {
		deps.Profiles = profile.NewStore(logger)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Trending == nil {
		deps.Trending = trending.New(trending.Config{TopN: cfg.Trending.TopN, Now: deps.Now}, logger)
	}

	scoring := deps.Scoring
	if scoring == nil {
		s, err := algorithms.New(cfg.Strategies.Scoring, algorithms.Deps{
			Categories: deps.Categories,
			Logger:     logger,
			Predictor:  deps.Predictor,
		})
		if err != nil {
			return nil, fmt.Errorf("create scoring strategy: %w", err)
		}
		scoring = s
	}
	if c, ok := scoring.(*algorithms.Collaborative); ok {
		c.SetNeighborSource(deps.Profiles.NeighborSource(neighborLimit))
	}

	fb := deps.Feedback
	if fb == nil {
		f, err := feedback.New(cfg.Strategies.Feedback, logger)
		if err != nil {
			return nil, fmt.Errorf("create feedback strategy: %w", err)
		}
		fb = f
	}

	custom := filter.FromRulesWith(cfg.Filter.Mode, cfg.Filter.CustomRules, deps.Categories, logger)

	e := &Engine{
		cfg:         cfg,
		catalog:     deps.Catalog,
		inventory:   deps.Inventory,
		orders:      deps.Orders,
		profiles:    deps.Profiles,
		trending:    deps.Trending,
		scoring:     scoring,
		feedback:    fb,
		filters:     filter.NewCanonical(deps.Inventory, custom, logger),
		publisher:   deps.Publisher,
		now:         deps.Now,
		logger:      logger,
		lastUpdated: deps.Now(),
	}
	if cfg.Limits.DiversityLambda < 1 {
		e.reranker = reranking.NewMMR(cfg.Limits.DiversityLambda)
	}

	e.trending.RegisterAll(deps.Catalog.Items())

	e.logger.Info().
		Str("scoring", scoring.Name()).
		Str("feedback", fb.Name()).
		Str("filter_mode", custom.Mode()).
		Int("catalog_items", len(deps.Catalog.Items())).
		Msg("recommendation engine ready")

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *recommend.Config {
	return e.cfg.Clone()
}

// Scoring returns the active scoring strategy.
func (e *Engine) Scoring() recommend.ScoringStrategy {
	return e.scoring
}

// Feedback returns the active feedback strategy.
func (e *Engine) Feedback() recommend.FeedbackStrategy {
	return e.feedback
}

// Filters returns the canonical request filter.
func (e *Engine) Filters() *filter.Canonical {
	return e.filters
}

// Profiles returns the profile store.
func (e *Engine) Profiles() *profile.Store {
	return e.profiles
}

// Trending returns the popularity aggregator.
func (e *Engine) Trending() *trending.Aggregator {
	return e.trending
}

// Catalog returns the item catalog.
func (e *Engine) Catalog() recommend.Catalog {
	return e.catalog
}

// Metrics returns a snapshot of the running performance metrics.
func (e *Engine) Metrics() recommend.PerformanceMetrics {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	return e.performance
}

// LastUpdated returns the time of the last refinement.
func (e *Engine) LastUpdated() time.Time {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	return e.lastUpdated
}

func (e *Engine) observe(rating float64, refined bool) {
	e.metricsMu.Lock()
	e.performance.Observe(rating)
	if refined {
		e.lastUpdated = e.now()
	}
	e.metricsMu.Unlock()
}

// retrack hands the catalog's current copy of an item to the trending
// aggregator, which otherwise keeps presenting the replaced one.
func (e *Engine) retrack(itemID string) {
	if item, ok := e.catalog.Item(itemID); ok {
		e.trending.Register(item)
	}
}

// SyncInventory sets each catalog item's availability from the inventory
// and returns the number of items updated. Catalogs that do not implement
// AvailabilitySetter are updated in place, which is only safe while no
// recommendation is running.
func (e *Engine) SyncInventory() int {
	if e.inventory == nil {
		return 0
	}
	setter, cow := e.catalog.(AvailabilitySetter)
	items := e.catalog.Items()
	for _, item := range items {
		inStock := e.inventory.IsInStock(item.ID)
		if !cow {
			item.Available = inStock
			continue
		}
		if err := setter.SetAvailable(item.ID, inStock); err != nil {
			e.logger.Warn().Err(err).Str("item_id", item.ID).Msg("updating availability failed")
			continue
		}
		e.retrack(item.ID)
	}
	e.logger.Info().Int("items", len(items)).Msg("synchronized with inventory")
	return len(items)
}
