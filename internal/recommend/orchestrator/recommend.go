// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// Outcome metadata keys.
const (
	MetaProcessingTime = "processing_time_ms"
	MetaState          = "state"
	MetaPath           = "path"
	MetaTrace          = "trace"
	MetaError          = "error"
	MetaFilterStages   = "filter_stages"
	MetaWindow         = "trending_window"
)

// Request is a single recommendation request.
type Request struct {
	UserID string `json:"user_id" validate:"required"`

	// Count is the number of items wanted. Non-positive uses the configured
	// default; values above the maximum are capped.
	Count int `json:"count"`

	// Context describes the situation. Nil uses the engine clock with no
	// weather.
	Context *recommend.ContextSnapshot `json:"context,omitempty"`
}

// run carries the per-request state through the state machine.
type run struct {
	userID   string
	count    int
	snapshot *recommend.ContextSnapshot
	state    recommend.State
	trace    []string
}

func (r *run) advance(s recommend.State) {
	r.state = s
	r.trace = append(r.trace, s.String())
}

// Recommend returns up to req.Count items for the user. It never fails: any
// error on the personalized path is logged and answered with cold-start
// items in state FALLBACK_PRESENTED.
//
//nolint:gocritic // hugeParam: Request passed by value for call-site ergonomics
func (e *Engine) Recommend(ctx context.Context, req Request) *recommend.Outcome {
	start := time.Now()

	r := &run{
		userID:   strings.TrimSpace(req.UserID),
		count:    e.count(req.Count),
		snapshot: req.Context,
	}
	if r.snapshot == nil {
		snap := recommend.NewContext(e.now())
		r.snapshot = &snap
	}
	r.advance(recommend.StateStart)

	label := metrics.OutcomePersonalized
	outcome, err := e.personalized(ctx, r)
	switch {
	case err != nil:
		e.logger.Warn().Err(err).Str("user_id", r.userID).Str("state", r.state.String()).
			Msg("recommendation failed, falling back to cold start")
		outcome = e.fallback(r)
		outcome.SetMetadata(MetaError, err.Error())
		r.advance(recommend.StateFallbackPresented)
		outcome.SetMetadata(MetaPath, "fallback")
		label = metrics.OutcomeFallback
	case outcome.Algorithm == recommend.AlgorithmColdStart:
		r.advance(recommend.StatePresented)
		outcome.SetMetadata(MetaPath, "cold_start")
		label = metrics.OutcomeColdStart
	default:
		r.advance(recommend.StatePresented)
		outcome.SetMetadata(MetaPath, "personalized")
		e.observe(recommend.DefaultSuccessSignal, false)
	}

	elapsed := time.Since(start)
	outcome.State = r.state
	outcome.SetMetadata(MetaState, r.state.String())
	outcome.SetMetadata(MetaTrace, r.trace)
	outcome.SetMetadata(MetaProcessingTime, elapsed.Milliseconds())
	metrics.RecordRecommendation(label, outcome.Len(), elapsed)

	e.logger.Debug().
		Str("user_id", r.userID).
		Str("algorithm", outcome.Algorithm).
		Str("state", r.state.String()).
		Int("items", outcome.Len()).
		Dur("elapsed", elapsed).
		Msg("recommendation presented")

	return outcome
}

func (e *Engine) count(requested int) int {
	if requested <= 0 {
		return e.cfg.Limits.DefaultCount
	}
	return min(requested, e.cfg.Limits.MaxCount)
}

// personalized runs the main path. Panics are converted to errors.
func (e *Engine) personalized(ctx context.Context, r *run) (outcome *recommend.Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = nil
			err = fmt.Errorf("recommendation panicked: %v", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Limits.RequestTimeout)
	defer cancel()

	if r.userID == "" {
		return nil, fmt.Errorf("empty user id")
	}
	p := e.profiles.Get(r.userID)
	r.advance(recommend.StateProfileLoaded)

	if !e.orders.HasAnyOrders(r.userID) {
		r.advance(recommend.StateColdStart)
		return e.coldStart(r), nil
	}

	result := e.filters.Run(e.catalog.Items(), p, r.snapshot)
	r.advance(recommend.StateCandidatesFiltered)

	outcome = recommend.NewOutcome(r.userID, recommend.AlgorithmHybrid)
	outcome.SetMetadata(MetaFilterStages, result.Stages)
	if len(result.Items) == 0 {
		r.advance(recommend.StateRanked)
		return outcome, nil
	}

	ranked, err := e.rank(ctx, result.Items, p, r.count)
	if err != nil {
		return nil, err
	}
	r.advance(recommend.StateRanked)

	for _, s := range ranked {
		outcome.Add(s.Item, e.explain(s.Item, p), s.Score)
	}
	return outcome, nil
}

// rank scores candidates in parallel with bounded workers, merges them by
// score then input order, diversifies when configured and truncates.
func (e *Engine) rank(ctx context.Context, candidates []*recommend.Item, p *recommend.UserProfile, count int) ([]recommend.ScoredItem, error) {
	scored := make([]recommend.ScoredItem, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Limits.ScoringWorkers)
	for i, item := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := recommend.SafeScore(func() float64 { return e.scoring.Score(item, p) })
			if err != nil {
				metrics.RecordScoringError(e.scoring.Name())
				e.logger.Warn().Err(err).Str("item_id", item.ID).Msg("candidate scored as zero")
			}
			scored[i] = recommend.ScoredItem{Item: item, Score: recommend.Clamp01(score), Index: i}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	recommend.SortScored(scored)

	if e.reranker != nil {
		return e.reranker.Rerank(ctx, scored, count), nil
	}
	if len(scored) > count {
		scored = scored[:count]
	}
	return scored, nil
}

// explain returns the strategy explanation, or NoExplanation if it panics.
func (e *Engine) explain(item *recommend.Item, p *recommend.UserProfile) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn().Str("item_id", item.ID).Interface("panic", rec).Msg("explanation panicked")
			text = recommend.NoExplanation
		}
	}()
	return e.scoring.Explain(item, p)
}

// coldStart presents trending items that suit the context. Items are
// explained and scored by the active strategy against the user's profile.
func (e *Engine) coldStart(r *run) *recommend.Outcome {
	window := e.cfg.Trending.DefaultWindow
	outcome := recommend.NewOutcome(r.userID, recommend.AlgorithmColdStart)
	outcome.SetMetadata(MetaWindow, window)

	p := e.profiles.Get(r.userID)
	for _, item := range e.trending.Trending(window) {
		if outcome.Len() >= r.count {
			break
		}
		if !r.snapshot.IsAppropriate(item) {
			continue
		}
		score, err := recommend.SafeScore(func() float64 { return e.scoring.Score(item, p) })
		if err != nil {
			metrics.RecordScoringError(e.scoring.Name())
		}
		outcome.Add(item, e.explain(item, p), recommend.Clamp01(score))
	}
	return outcome
}

// fallback is coldStart with panics contained; a failing aggregator yields
// an empty cold-start outcome.
func (e *Engine) fallback(r *run) (outcome *recommend.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error().Interface("panic", rec).Str("user_id", r.userID).Msg("cold start fallback panicked")
			outcome = recommend.NewOutcome(r.userID, recommend.AlgorithmColdStart)
		}
	}()
	return e.coldStart(r)
}
