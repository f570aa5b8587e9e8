package records

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore implements Store with in-memory state. All data is lost when
// the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*RaceRecord
	ordered []*RaceRecord // insertion order, oldest first
	maxSize int
}

// NewMemoryStore creates an in-memory store keeping at most maxSize
// records; the oldest are evicted first. maxSize <= 0 means unbounded.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*RaceRecord),
		maxSize: maxSize,
	}
}

// Save persists a record, evicting the oldest entry when full.
func (m *MemoryStore) Save(ctx context.Context, rec *RaceRecord) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if rec.ID == "" {
		return fmt.Errorf("record ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *rec
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	if _, exists := m.byID[stored.ID]; exists {
		for i, r := range m.ordered {
			if r.ID == stored.ID {
				m.ordered = append(m.ordered[:i], m.ordered[i+1:]...)
				break
			}
		}
	} else if m.maxSize > 0 && len(m.ordered) >= m.maxSize {
		oldest := m.ordered[0]
		m.ordered = m.ordered[1:]
		delete(m.byID, oldest.ID)
	}

	m.byID[stored.ID] = &stored
	m.ordered = append(m.ordered, &stored)
	return nil
}

// Get retrieves a record by race ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*RaceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

// Latest returns the most recently stored record.
func (m *MemoryStore) Latest(ctx context.Context) (*RaceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.ordered) == 0 {
		return nil, ErrNotFound
	}
	out := *m.ordered[len(m.ordered)-1]
	return &out, nil
}

// List returns up to limit records, most recent first.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]*RaceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.ordered)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*RaceRecord, 0, n)
	for i := len(m.ordered) - 1; i >= 0 && len(out) < n; i-- {
		rec := *m.ordered[i]
		out = append(out, &rec)
	}
	return out, nil
}

// Cleanup removes records created before the cutoff.
func (m *MemoryStore) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.ordered[:0]
	deleted := 0
	for _, rec := range m.ordered {
		if rec.CreatedAt.Before(olderThan) {
			delete(m.byID, rec.ID)
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	m.ordered = kept
	return deleted, nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
