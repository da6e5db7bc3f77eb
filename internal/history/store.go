// Package history keeps a bounded, most-recent-first list of past generation
// runs. The whole list is the persisted unit: it is read once by Load and
// rewritten on every mutation. Storage failures are logged, never returned.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
)

const MaxItems = 20

type Store struct {
	// saveMu is held from a mutation through its Save, so snapshots reach
	// storage in the order they were taken. mu guards items only.
	saveMu  sync.Mutex
	mu      sync.Mutex
	items   []models.GenerateHistoryItem
	storage Storage
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with what storage holds. Missing,
// unreadable or malformed data yields an empty history; malformed records are
// dropped one at a time.
func (s *Store) Load(ctx context.Context) {
	data, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("history unavailable, starting empty")
	}

	items := decodeItems(data, s.now, s.newID)
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.log.Info().Int("items", len(items)).Msg("history loaded")
}

// Append puts item at the front, trims to MaxItems and persists.
func (s *Store) Append(ctx context.Context, item models.GenerateHistoryItem) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	items := make([]models.GenerateHistoryItem, 0, len(s.items)+1)
	items = append(items, item)
	items = append(items, s.items...)
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	s.items = items
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

// Remove drops the item with id and persists. It reports whether anything
// was removed.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	kept := make([]models.GenerateHistoryItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(s.items)
	s.items = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if removed {
		s.persist(ctx, snapshot)
	}
	return removed
}

// Items returns a copy of the list, most recent first.
func (s *Store) Items() []models.GenerateHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Get(id string) (models.GenerateHistoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.GenerateHistoryItem{}, false
}

func (s *Store) snapshotLocked() []models.GenerateHistoryItem {
	return append([]models.GenerateHistoryItem{}, s.items...)
}

func (s *Store) persist(ctx context.Context, items []models.GenerateHistoryItem) {
	data, err := json.Marshal(items)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode history")
		return
	}
	if err := s.storage.Save(ctx, data); err != nil {
		s.log.Warn().Err(err).Msg("persist history")
	}
}
