package repository

import (
	"context"
	"errors"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
)

var ErrNotFound = errors.New("booking not found")
var ErrDuplicateID = errors.New("booking id already exists")

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Status         domain.MasterStatus
	AssignedBroker string
}

// BookingReader reads bookings.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
}

// BookingWriter persists bookings. Update replaces the stored record and
// returns ErrNotFound when the id is unknown.
type BookingWriter interface {
	Create(ctx context.Context, b domain.Booking) error
	Update(ctx context.Context, b domain.Booking) error
}

// StaleFinder lists open bookings whose last activity is at or before cutoff.
type StaleFinder interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

// Store is the full booking persistence contract.
type Store interface {
	BookingReader
	BookingWriter
	StaleFinder
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

func matches(b domain.Booking, filter ListFilter) bool {
	if filter.Status != "" && b.MasterStatus != filter.Status {
		return false
	}
	if filter.AssignedBroker != "" && (b.AssignedBroker == nil || *b.AssignedBroker != filter.AssignedBroker) {
		return false
	}
	return true
}

func isOpen(status domain.MasterStatus) bool {
	return !status.IsTerminal() && status != domain.StatusCold
}
