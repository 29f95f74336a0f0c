// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/profile"
	"github.com/tomtom215/menurec/internal/recommend/trending"
)

// State is the live engine state a snapshot captures. Nil members are
// skipped.
type State struct {
	Profiles *profile.Store
	Trending *trending.Aggregator
	Orders   *recommend.MemoryOrderHistory
}

// Restored counts what Apply loaded.
type Restored struct {
	Profiles int
	Items    int
	Orders   int
}

// Capture builds a snapshot of the live state.
//
//nolint:gocritic // hugeParam: State is three pointers
func Capture(state State, now time.Time) *Snapshot {
	snap := &Snapshot{TakenAt: now}
	if state.Profiles != nil {
		snap.Profiles = state.Profiles.Snapshot()
	}
	if state.Trending != nil {
		snap.Trending = state.Trending.Snapshot()
	}
	if state.Orders != nil {
		snap.Orders = state.Orders.Counts()
	}
	return snap
}

// Apply restores the snapshot into the live state. Register catalog items
// with the aggregator first so restored counters attach to the live items.
func (snap *Snapshot) Apply(state State) Restored {
	var r Restored
	if snap == nil {
		return r
	}
	if state.Profiles != nil {
		r.Profiles = state.Profiles.Restore(snap.Profiles)
	}
	if state.Trending != nil {
		r.Items = state.Trending.Restore(snap.Trending)
	}
	if state.Orders != nil {
		r.Orders = state.Orders.Restore(snap.Orders)
	}
	return r
}

// SaveState captures and saves the live state.
func (s *Store) SaveState(state State) error {
	if err := s.Save(Capture(state, time.Now())); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// RestoreState loads the stored snapshot into the live state. A missing
// snapshot is not an error.
func (s *Store) RestoreState(state State) error {
	snap, err := s.Load()
	if errors.Is(err, ErrSnapshotNotFound) {
		s.logger.Info().Msg("no snapshot to restore")
		return nil
	}
	if err != nil {
		return err
	}

	r := snap.Apply(state)
	s.logger.Info().
		Time("taken_at", snap.TakenAt).
		Int("profiles", r.Profiles).
		Int("items", r.Items).
		Int("orders", r.Orders).
		Msg("snapshot restored")
	return nil
}
