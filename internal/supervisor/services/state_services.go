// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/store"
)

// Default intervals.
const (
	DefaultRefreshInterval  = time.Minute
	DefaultSnapshotInterval = 5 * time.Minute
)

// TrendingRefresher recomputes trending scores.
type TrendingRefresher interface {
	RefreshAll() int
}

// TrendingRefreshService recomputes every trending score on an interval so
// recency decay shows up in reads that skip refreshing.
type TrendingRefreshService struct {
	trending TrendingRefresher
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewTrendingRefreshService creates the refresh loop.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrendingRefreshService(trending TrendingRefresher, interval time.Duration, logger zerolog.Logger) *TrendingRefreshService {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &TrendingRefreshService{
		trending: trending,
		interval: interval,
		logger:   logger.With().Str("service", "trending-refresh").Logger(),
		name:     "trending-refresh",
	}
}

// Serve implements suture.Service.
func (s *TrendingRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("trending refresh starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n := s.trending.RefreshAll()
			s.logger.Debug().Int("items", n).Msg("trending scores refreshed")
		}
	}
}

func (s *TrendingRefreshService) String() string {
	return s.name
}

// Snapshotter persists and restores engine state.
type Snapshotter interface {
	SaveState(state store.State) error
	RestoreState(state store.State) error
}

// SnapshotService restores the last snapshot when it first starts, saves on
// an interval and saves once more on shutdown.
type SnapshotService struct {
	store    Snapshotter
	state    store.State
	interval time.Duration
	restored bool
	logger   zerolog.Logger
	name     string
}

// NewSnapshotService creates the snapshot loop.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotService(snapshotter Snapshotter, state store.State, interval time.Duration, logger zerolog.Logger) *SnapshotService {
	if interval <= 0 {
		interval = DefaultSnapshotInterval
	}
	return &SnapshotService{
		store:    snapshotter,
		state:    state,
		interval: interval,
		logger:   logger.With().Str("service", "snapshot").Logger(),
		name:     "snapshot",
	}
}

// SkipRestore marks the state as already restored by the caller.
func (s *SnapshotService) SkipRestore() {
	s.restored = true
}

// Serve implements suture.Service. A failed restore fails the service so the
// supervisor retries it before any save can overwrite the stored state.
func (s *SnapshotService) Serve(ctx context.Context) error {
	if !s.restored {
		if err := s.store.RestoreState(s.state); err != nil {
			return fmt.Errorf("restore snapshot: %w", err)
		}
		s.restored = true
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.store.SaveState(s.state); err != nil {
				s.logger.Error().Err(err).Msg("final snapshot failed")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.SaveState(s.state); err != nil {
				s.logger.Warn().Err(err).Msg("snapshot failed")
			}
		}
	}
}

func (s *SnapshotService) String() string {
	return s.name
}
