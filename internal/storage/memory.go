package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
)

// Compile-time interface check.
var _ domain.HistoryStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory history store. Safe for concurrent access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.HistoryEntry // per user, insertion order
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]domain.HistoryEntry),
		log:     log,
	}
}

// Save appends an entry to the user's history.
func (s *MemoryStore) Save(ctx context.Context, userID string, entry *domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(userID, entry)
	s.entries[userID] = append(s.entries[userID], *entry)
	s.log.Debug("saved history entry %s (user=%s)", entry.ID, userID)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *MemoryStore) Recent(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk backwards so equal timestamps come out newest insert first.
	all := s.entries[userID]
	out := make([]domain.HistoryEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	s.log.Debug("listing history for user=%s, count=%d", userID, len(out))
	return out, nil
}

// Get retrieves one entry by ID.
func (s *MemoryStore) Get(ctx context.Context, userID, id string) (*domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries[userID] {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	s.log.Debug("history entry not found: %s", id)
	return nil, domain.ErrNotFound
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
