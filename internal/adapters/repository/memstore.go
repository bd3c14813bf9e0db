package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/metrics"
)

const defaultCapacity = 10_000

// MemoryStore is a Store backed by a fixed-size ring buffer.
// Once full, each Save overwrites the oldest record.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	ring     []model.Record
	byID     map[string]int // id -> ring slot
	next     int            // slot the next Save writes
	size     int
	closed   bool
}

// NewMemoryStore creates an in-memory history store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.ring = make([]model.Record, s.capacity)
	s.byID = make(map[string]int, s.capacity)
	return s
}

func (s *MemoryStore) Save(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.byID[rec.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidID, rec.ID)
	}

	if s.size == s.capacity {
		delete(s.byID, s.ring[s.next].ID)
	} else {
		s.size++
	}
	s.ring[s.next] = rec
	s.byID[rec.ID] = s.next
	s.next = (s.next + 1) % s.capacity

	metrics.UpdateHistoryRecords(s.size)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.byID[id]
	if !ok {
		return model.Record{}, ErrNotFound
	}
	return s.ring[slot], nil
}

func (s *MemoryStore) Recent(ctx context.Context, n int) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	n = min(n, s.size)
	out := make([]model.Record, 0, n)
	slot := s.next
	for i := 0; i < n; i++ {
		slot = (slot - 1 + s.capacity) % s.capacity
		out = append(out, s.ring[slot])
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Close rejects further writes. Reads keep working.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
