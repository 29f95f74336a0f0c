// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package profile

import (
	"errors"
	"sort"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// ErrEmptyUserID is returned for operations keyed by an empty user id.
var ErrEmptyUserID = errors.New("profile: empty user id")

// orderBudgetHeadroom widens the price ceiling when an order exceeds it.
const orderBudgetHeadroom = 1.2

// Neighbor is a similar user and its similarity to the target.
type Neighbor struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

type entry struct {
	mu      sync.Mutex
	profile *recommend.UserProfile
}

// Store holds user profiles keyed by user id.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  zerolog.Logger

	// version changes whenever a profile is created, replaced, updated or
	// deleted.
	version atomic.Uint64
}

// NewStore creates an empty profile store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		logger:  logger.With().Str("component", "profiles").Logger(),
	}
}

func normalizeID(userID string) string {
	return strings.TrimSpace(userID)
}

// entry returns the user's entry, creating a default profile if absent.
func (s *Store) entry(userID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	e, ok = s.entries[userID]
	if !ok {
		e = &entry{profile: recommend.NewUserProfile(userID)}
		s.entries[userID] = e
		s.version.Add(1)
	}
	n := len(s.entries)
	s.mu.Unlock()

	if !ok {
		metrics.SetProfilesTracked(n)
		s.logger.Debug().Str("user_id", userID).Msg("created default profile")
	}
	return e
}

// Get returns a copy of the user's profile, creating a default one on first
// access. An empty id yields an unstored default profile.
func (s *Store) Get(userID string) *recommend.UserProfile {
	userID = normalizeID(userID)
	if userID == "" {
		return recommend.NewUserProfile("")
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

// Exists reports whether a profile is stored for the user.
func (s *Store) Exists(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[normalizeID(userID)]
	return ok
}

// Put replaces the user's profile with a normalized copy of p.
func (s *Store) Put(p *recommend.UserProfile) error {
	if p == nil {
		return errors.New("profile: nil profile")
	}
	userID := normalizeID(p.UserID)
	if userID == "" {
		return ErrEmptyUserID
	}
	c := p.Clone()
	c.UserID = userID
	c.Normalize()

	e := s.entry(userID)
	e.mu.Lock()
	e.profile = c
	s.version.Add(1)
	e.mu.Unlock()
	return nil
}

// Update applies fn to the user's profile under the per-user lock and
// re-normalizes the result. Writes are visible to the next Get.
func (s *Store) Update(userID string, fn func(p *recommend.UserProfile)) error {
	userID = normalizeID(userID)
	if userID == "" {
		return ErrEmptyUserID
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.profile)
	e.profile.UserID = userID
	e.profile.Normalize()
	s.version.Add(1)
	return nil
}

// ApplyOrder widens the user's price ceiling to 1.2x an order total that
// exceeds it.
func (s *Store) ApplyOrder(userID string, total float64) error {
	return s.Update(userID, func(p *recommend.UserProfile) {
		if total > p.PriceMax {
			p.SetPriceRange(p.PriceMin, total*orderBudgetHeadroom)
		}
	})
}

// Delete removes the user's profile.
func (s *Store) Delete(userID string) {
	s.mu.Lock()
	delete(s.entries, normalizeID(userID))
	n := len(s.entries)
	s.version.Add(1)
	s.mu.Unlock()
	metrics.SetProfilesTracked(n)
}

// Count returns the number of stored profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// UserIDs returns the stored user ids in ascending order.
func (s *Store) UserIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// All returns copies of every stored profile ordered by user id.
func (s *Store) All() []*recommend.UserProfile {
	ids := s.UserIDs()
	out := make([]*recommend.UserProfile, 0, len(ids))
	for _, id := range ids {
		s.mu.RLock()
		e, ok := s.entries[id]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		e.mu.Lock()
		out = append(out, e.profile.Clone())
		e.mu.Unlock()
	}
	return out
}

// Compatibility scores an item against the user's current profile.
func (s *Store) Compatibility(userID string, item *recommend.Item) float64 {
	if item == nil {
		return -1
	}
	return s.Get(userID).Compatibility(item)
}

// SimilarUsers returns up to limit other users ordered by similarity
// descending, ties by user id. The target profile is created if absent.
func (s *Store) SimilarUsers(userID string, limit int) []Neighbor {
	userID = normalizeID(userID)
	if limit <= 0 || userID == "" {
		return nil
	}
	target := s.Get(userID)

	var out []Neighbor
	for _, p := range s.All() {
		if p.UserID == userID {
			continue
		}
		out = append(out, Neighbor{UserID: p.UserID, Similarity: UserSimilarity(target, p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NeighborSource returns up to limit similar user ids per user, for the
// collaborative strategy. Results are memoized per user until any profile
// changes, so scoring every candidate of a request ranks the store once.
func (s *Store) NeighborSource(limit int) func(userID string) []string {
	var (
		mu      sync.Mutex
		version uint64
		cached  = make(map[string][]string)
	)
	return func(userID string) []string {
		userID = normalizeID(userID)
		if userID == "" {
			return nil
		}
		// Create the target first so its creation does not invalidate
		// the result computed below.
		s.entry(userID)
		v := s.version.Load()

		mu.Lock()
		if v != version {
			version = v
			clear(cached)
		}
		ids, ok := cached[userID]
		mu.Unlock()
		if ok {
			return slices.Clone(ids)
		}

		neighbors := s.SimilarUsers(userID, limit)
		ids = make([]string, len(neighbors))
		for i, n := range neighbors {
			ids[i] = n.UserID
		}

		mu.Lock()
		if v == version {
			cached[userID] = ids
		}
		mu.Unlock()
		return slices.Clone(ids)
	}
}

// Snapshot returns copies of every profile for persistence.
func (s *Store) Snapshot() []*recommend.UserProfile {
	return s.All()
}

// Restore loads profiles, replacing existing ones with the same id. Invalid
// entries are skipped. It returns the number loaded.
func (s *Store) Restore(profiles []*recommend.UserProfile) int {
	loaded := 0
	for _, p := range profiles {
		if err := s.Put(p); err != nil {
			s.logger.Warn().Err(err).Msg("skipping profile on restore")
			continue
		}
		loaded++
	}
	s.logger.Debug().Int("profiles", loaded).Msg("profiles restored")
	return loaded
}
