package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/internal/bookings/repository"
	"brokerage_portal_backend/platform/apperr"
)

type markerFunc func(ctx context.Context, id string, threshold time.Duration) (bool, error)

func (f markerFunc) ApplyCold(ctx context.Context, id string, threshold time.Duration) (bool, error) {
	return f(ctx, id, threshold)
}

func seedStore(t *testing.T, now time.Time) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	seed := []domain.Booking{
		{ID: "idle-1", MasterStatus: domain.StatusAgentContact, LastActivityAt: now.AddDate(0, 0, -45)},
		{ID: "idle-2", MasterStatus: domain.StatusSiteVisit, LastActivityAt: now.AddDate(0, 0, -31)},
		{ID: "busy", MasterStatus: domain.StatusOfferReservation, LastActivityAt: now.AddDate(0, 0, -60)},
		{ID: "fresh", MasterStatus: domain.StatusAgentContact, LastActivityAt: now.AddDate(0, 0, -2)},
		{ID: "closed", MasterStatus: domain.StatusLost, LastActivityAt: now.AddDate(0, 0, -90)},
	}
	for _, b := range seed {
		if err := store.Create(context.Background(), b); err != nil {
			t.Fatalf("seed %s: %v", b.ID, err)
		}
	}
	return store
}

func TestSweepMarksIdleBookings(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	store := seedStore(t, now)

	var seen []string
	marker := markerFunc(func(_ context.Context, id string, threshold time.Duration) (bool, error) {
		if threshold != domain.ColdThreshold {
			t.Fatalf("unexpected threshold %s", threshold)
		}
		seen = append(seen, id)
		if id == "busy" {
			return false, apperr.Conflict("locked")
		}
		return true, nil
	})

	sweeper := NewColdSweeper(store, marker, 0, nil)
	sweeper.now = func() time.Time { return now }

	result, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Scanned != 3 || result.Marked != 2 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v (seen %v)", result, seen)
	}
	if seen[0] != "busy" {
		t.Fatalf("expected the longest idle booking first, got %v", seen)
	}
}

func TestSweepReportsFailures(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	store := seedStore(t, now)
	marker := markerFunc(func(context.Context, string, time.Duration) (bool, error) {
		return false, errors.New("disk full")
	})

	sweeper := NewColdSweeper(store, marker, 0, nil)
	sweeper.now = func() time.Time { return now }

	result, err := sweeper.Sweep(context.Background())
	if err == nil || result.Failed != 3 {
		t.Fatalf("expected three failures and an error, got %+v %v", result, err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	sweeper := NewColdSweeper(store, markerFunc(func(context.Context, string, time.Duration) (bool, error) {
		return true, nil
	}), time.Hour, nil)

	go func() {
		sweeper.Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
