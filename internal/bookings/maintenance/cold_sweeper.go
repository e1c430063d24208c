// Package maintenance runs background upkeep on the booking pipeline.
package maintenance

import (
	"context"
	"errors"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/platform/apperr"
	"brokerage_portal_backend/platform/logger"
)

const defaultSweepInterval = time.Hour

// StaleLister finds open bookings idle since before cutoff.
type StaleLister interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

// ColdMarker moves one booking to cold if it is still eligible.
type ColdMarker interface {
	ApplyCold(ctx context.Context, id string, threshold time.Duration) (bool, error)
}

// SweepResult counts what one pass did.
type SweepResult struct {
	Scanned int
	Marked  int
	Failed  int
}

// ColdSweeper periodically moves idle bookings to cold.
type ColdSweeper struct {
	repo      StaleLister
	marker    ColdMarker
	log       *logger.Logger
	threshold time.Duration
	now       func() time.Time
}

func NewColdSweeper(repo StaleLister, marker ColdMarker, threshold time.Duration, log *logger.Logger) *ColdSweeper {
	if threshold <= 0 {
		threshold = domain.ColdThreshold
	}
	if log == nil {
		log = logger.Discard()
	}
	return &ColdSweeper{repo: repo, marker: marker, log: log, threshold: threshold, now: time.Now}
}

// Run sweeps once immediately, then every interval until ctx is done.
func (s *ColdSweeper) Run(ctx context.Context, interval time.Duration) {
	if s == nil || s.repo == nil {
		return
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	_, _ = s.Sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

// Sweep makes one pass. A booking that fails is logged and skipped so the
// rest of the pass still runs; only a listing failure aborts it.
func (s *ColdSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := s.now().Add(-s.threshold)
	stale, err := s.repo.ListStale(ctx, cutoff)
	if err != nil {
		s.log.Warn("cold sweep listing failed", "error", err)
		return SweepResult{}, err
	}

	result := SweepResult{Scanned: len(stale)}
	for _, b := range stale {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		marked, err := s.marker.ApplyCold(ctx, b.ID, s.threshold)
		switch {
		case err == nil && marked:
			result.Marked++
		case err == nil:
		case apperr.Is(err, apperr.KindConflict), apperr.Is(err, apperr.KindNotFound):
			// Busy or gone; the next pass picks it up if still idle.
		default:
			result.Failed++
			s.log.Warn("cold sweep failed for booking", "booking_id", b.ID, "error", err)
		}
	}

	if result.Marked > 0 || result.Failed > 0 {
		s.log.Info("cold sweep finished", "scanned", result.Scanned, "marked", result.Marked, "failed", result.Failed)
	}
	if result.Failed > 0 {
		return result, errors.New("cold sweep: some bookings could not be updated")
	}
	return result, nil
}
