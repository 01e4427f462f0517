// Package cache keeps fetched provider values with a timestamp so callers can
// decide freshness per call site. Entries are optionally mirrored to a
// durable backend as one JSON blob.
package cache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/clock"
)

// Backend stores the serialised cache as a single blob.
type Backend interface {
	// Load returns nil without error when nothing has been stored yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Clear(ctx context.Context) error
}

// Entry is the persisted form of one cached value.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`
}

// StoredAt converts the millisecond timestamp.
func (e Entry) StoredAt() time.Time { return time.UnixMilli(e.Timestamp) }

// Info describes a cached key for listings.
type Info struct {
	Key      string
	StoredAt time.Time
	Size     int
}

// Options configure a Store.
type Options struct {
	// Backend is optional; without it the store is memory only.
	Backend Backend
	Clock   clock.Clock
}

// Store is a key to timestamped JSON value map.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry

	persistMu sync.Mutex
	backend   Backend
	clock     clock.Clock
	logger    zerolog.Logger
}

// New constructs an empty Store. Call Load to hydrate it from the backend.
func New(opts Options, logger zerolog.Logger) *Store {
	return &Store{
		entries: make(map[string]Entry),
		backend: opts.Backend,
		clock:   clock.OrReal(opts.Clock),
		logger:  logger.With().Str("component", "cache").Logger(),
	}
}

// Durable reports whether a backend is attached.
func (s *Store) Durable() bool { return s.backend != nil }

// Load replaces the in-memory entries with the backend blob. A corrupt blob
// is discarded so the store starts empty.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	blob, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	if len(blob) == 0 {
		return nil
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(blob, &entries); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable durable cache")
		return nil
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.Debug().Int("entries", len(entries)).Msg("durable cache loaded")
	return nil
}

// Get decodes the value stored under key into dst when it is younger than
// maxAge. Expired or undecodable entries are evicted.
func (s *Store) Get(ctx context.Context, key string, maxAge time.Duration, dst any) bool {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if s.clock.Now().Sub(entry.StoredAt()) >= maxAge {
		delete(s.entries, key)
		s.mu.Unlock()
		s.persist(ctx)
		return false
	}
	s.mu.Unlock()

	if err := json.Unmarshal(entry.Value, dst); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("evicting undecodable cache entry")
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.persist(ctx)
		return false
	}
	return true
}

// Set stores value under key, overwriting any previous entry. Failures are
// logged and never returned.
func (s *Store) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("value not cacheable")
		return
	}

	s.mu.Lock()
	s.entries[key] = Entry{Value: raw, Timestamp: s.clock.Now().UnixMilli()}
	s.mu.Unlock()

	s.persist(ctx)
}

// Clear drops every entry from memory and from the backend.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear durable cache")
	}
}

// Len reports the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries lists cached keys sorted by key.
func (s *Store) Entries() []Info {
	s.mu.Lock()
	infos := make([]Info, 0, len(s.entries))
	for key, entry := range s.entries {
		infos = append(infos, Info{Key: key, StoredAt: entry.StoredAt(), Size: len(entry.Value)})
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

func (s *Store) persist(ctx context.Context) {
	if s.backend == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	blob, err := json.Marshal(s.entries)
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode durable cache")
		return
	}

	if err := s.backend.Save(ctx, blob); err != nil {
		s.logger.Warn().Err(err).Msg("durable cache write failed; entry kept in memory only")
	}
}
