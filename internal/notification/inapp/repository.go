package inapp

import (
	"context"
	"sync"
	"time"

	"brokerage_portal_backend/platform/apperr"
)

const defaultCapacity = 500

// Notification is one in-app alert. An empty Recipient addresses the whole
// broker desk.
type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	BookingID string    `json:"bookingId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists the feed. Processes that raise alerts and the api that
// serves them must share one Store for the alerts to be listable.
type Store interface {
	Create(ctx context.Context, n Notification) error
	List(ctx context.Context, recipient string, limit, offset int) ([]Notification, int, error)
	CountUnread(ctx context.Context, recipient string) (int, error)
	MarkRead(ctx context.Context, recipient, id string) error
	MarkAllRead(ctx context.Context, recipient string) error
}

// MemoryRepository keeps the most recent notifications in memory, newest
// last. Older entries are dropped once capacity is reached.
type MemoryRepository struct {
	mu       sync.RWMutex
	items    []Notification
	capacity int
}

func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

func (r *MemoryRepository) Create(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
	if over := len(r.items) - r.capacity; over > 0 {
		r.items = append(r.items[:0:0], r.items[over:]...)
	}
	return nil
}

// List returns notifications visible to recipient, newest first.
func (r *MemoryRepository) List(_ context.Context, recipient string, limit, offset int) ([]Notification, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make([]Notification, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if visibleTo(r.items[i], recipient) {
			visible = append(visible, r.items[i])
		}
	}
	total := len(visible)
	if offset < 0 || limit < 1 || offset >= total {
		return []Notification{}, total, nil
	}
	end := min(offset+limit, total)
	return visible[offset:end], total, nil
}

func (r *MemoryRepository) CountUnread(_ context.Context, recipient string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.items {
		if !n.IsRead && visibleTo(n, recipient) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, recipient, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id && visibleTo(r.items[i], recipient) {
			r.items[i].IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

func (r *MemoryRepository) MarkAllRead(_ context.Context, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if visibleTo(r.items[i], recipient) {
			r.items[i].IsRead = true
		}
	}
	return nil
}

var _ Store = (*MemoryRepository)(nil)

func visibleTo(n Notification, recipient string) bool {
	return n.Recipient == "" || n.Recipient == recipient
}
