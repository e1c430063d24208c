package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
)

// MemoryStore keeps bookings in process. Records are cloned on the way in
// and out so callers never share slices with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bookings: make(map[string]domain.Booking)}
}

func (s *MemoryStore) Create(_ context.Context, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID]; exists {
		return ErrDuplicateID
	}
	s.bookings[b.ID] = b.Clone()
	return nil
}

func (s *MemoryStore) Update(_ context.Context, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID]; !exists {
		return ErrNotFound
	}
	s.bookings[b.ID] = b.Clone()
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, ErrNotFound
	}
	return b.Clone(), nil
}

// List returns matching bookings, newest first.
func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if matches(b, filter) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListStale returns open bookings idle since cutoff, oldest activity first.
func (s *MemoryStore) ListStale(_ context.Context, cutoff time.Time) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if isOpen(b.MasterStatus) && !b.LastActivityAt.After(cutoff) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.Before(out[j].LastActivityAt)
	})
	return out, nil
}

// Reset drops every booking.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[string]domain.Booking)
}
