// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/trending"
)

// Key prefixes.
const (
	prefixProfile  = "profile:"
	prefixTrending = "trending:"
	prefixOrder    = "order:"
	keyMeta        = "meta:snapshot"
)

var (
	// ErrSnapshotNotFound is returned by Load before the first Save.
	ErrSnapshotNotFound = errors.New("store: snapshot not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store: closed")
)

// gcDiscardRatio is the value log GC threshold.
const gcDiscardRatio = 0.5

// Config configures the snapshot store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps the database in memory, for tests.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites fsyncs every commit.
	SyncWrites bool `koanf:"sync_writes"`
}

// Meta describes a stored snapshot.
type Meta struct {
	TakenAt  time.Time `json:"taken_at"`
	Profiles int       `json:"profiles"`
	Items    int       `json:"items"`
	Orders   int       `json:"orders"`
}

// Snapshot is the persisted engine state.
type Snapshot struct {
	TakenAt  time.Time                `json:"taken_at"`
	Profiles []*recommend.UserProfile `json:"profiles"`
	Trending []trending.Record        `json:"trending"`
	Orders   []recommend.OrderCount   `json:"orders"`
}

// Store is a BadgerDB-backed snapshot store.
type Store struct {
	mu     sync.RWMutex
	db     *badger.DB
	closed bool
	logger zerolog.Logger
}

// Open opens or creates the store.
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store: path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
	s.logger.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("snapshot store opened")
	return s, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(snap *Snapshot) (err error) {
	start := time.Now()
	defer func() { metrics.RecordSnapshot(time.Since(start), err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	// The meta key goes first so a crash mid-save leaves no complete marker.
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyMeta))
	}); err != nil {
		return fmt.Errorf("clear snapshot marker: %w", err)
	}
	if err := s.db.DropPrefix([]byte(prefixProfile), []byte(prefixTrending), []byte(prefixOrder)); err != nil {
		return fmt.Errorf("drop previous snapshot: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	profiles := 0
	for _, p := range snap.Profiles {
		if p == nil || p.UserID == "" {
			continue
		}
		if err := setJSON(wb, prefixProfile+p.UserID, p); err != nil {
			return err
		}
		profiles++
	}
	items := 0
	for i := range snap.Trending {
		rec := &snap.Trending[i]
		if rec.ItemID == "" {
			continue
		}
		if err := setJSON(wb, prefixTrending+rec.ItemID, rec); err != nil {
			return err
		}
		items++
	}
	orders := 0
	for _, c := range snap.Orders {
		if c.UserID == "" || c.ItemID == "" {
			continue
		}
		// Unit separator keeps user and item ids unambiguous.
		if err := setJSON(wb, prefixOrder+c.UserID+"\x1f"+c.ItemID, c); err != nil {
			return err
		}
		orders++
	}

	takenAt := snap.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	if err := setJSON(wb, keyMeta, Meta{TakenAt: takenAt, Profiles: profiles, Items: items, Orders: orders}); err != nil {
		return err
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	s.logger.Debug().Int("profiles", profiles).Int("items", items).Int("orders", orders).Msg("snapshot saved")
	return nil
}

func setJSON(wb *badger.WriteBatch, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := wb.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Meta returns the description of the stored snapshot.
func (s *Store) Meta() (Meta, error) {
	var meta Meta

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return meta, ErrClosed
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMeta))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return fmt.Errorf("get snapshot marker: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	return meta, err
}

// Load reads the stored snapshot. Entries that fail to decode are skipped
// and logged.
func (s *Store) Load() (*Snapshot, error) {
	meta, err := s.Meta()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{TakenAt: meta.TakenAt}
	err = s.db.View(func(txn *badger.Txn) error {
		if err := s.scan(txn, prefixProfile, func(val []byte) error {
			p := &recommend.UserProfile{}
			if err := json.Unmarshal(val, p); err != nil {
				return err
			}
			p.Normalize()
			snap.Profiles = append(snap.Profiles, p)
			return nil
		}); err != nil {
			return err
		}
		if err := s.scan(txn, prefixTrending, func(val []byte) error {
			var rec trending.Record
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			snap.Trending = append(snap.Trending, rec)
			return nil
		}); err != nil {
			return err
		}
		return s.scan(txn, prefixOrder, func(val []byte) error {
			var c recommend.OrderCount
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			snap.Orders = append(snap.Orders, c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) scan(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if err := item.Value(fn); err != nil {
			s.logger.Warn().Err(err).Str("key", string(item.Key())).Msg("skipping undecodable snapshot entry")
		}
	}
	return nil
}

// RunGC reclaims value log space until nothing is left to rewrite.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	s.logger.Info().Msg("snapshot store closed")
	return nil
}
