package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is returned for backward or sideways status changes.
	ErrInvalidTransition = errors.New("backward or sideways transition not permitted")
	// ErrUnknownStatus is returned for values outside the MasterStatus enumeration.
	ErrUnknownStatus = errors.New("unknown booking status")
)

// CanTransition applies the pipeline rule to a pair of statuses:
//   - a journey step may move strictly forward;
//   - a cold booking may be re-engaged at any journey step;
//   - lost is reachable from every status, closed ones included;
//   - cancelled is reachable from any status that is not terminal;
//   - cold is never a manual target.
//
// A status never transitions to itself.
func CanTransition(from, to MasterStatus) bool {
	if from == to {
		return false
	}
	current, err := ParseStatus(from)
	if err != nil {
		return false
	}
	target, err := ParseStatus(to)
	if err != nil {
		return false
	}

	switch t := target.(type) {
	case InJourney:
		switch c := current.(type) {
		case InJourney:
			return c.Before(t)
		case Closed:
			return c.Outcome == OutcomeCold
		}
	case Closed:
		switch t.Outcome {
		case OutcomeLost:
			return true
		case OutcomeCancelled:
			return !from.IsTerminal()
		case OutcomeCold:
			return false
		}
	}
	return false
}

// Transition moves b to status to. It returns the booking, whether anything
// changed, and ErrInvalidTransition or ErrUnknownStatus when the move is refused.
// A refused or no-op transition returns b untouched. On success only
// MasterStatus and LastActivityAt change.
func Transition(b Booking, to MasterStatus, now time.Time) (Booking, bool, error) {
	if !to.IsValid() {
		return b, false, fmt.Errorf("%w: %q", ErrUnknownStatus, string(to))
	}
	if to == b.MasterStatus {
		return b, false, nil
	}
	if !CanTransition(b.MasterStatus, to) {
		return b, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.MasterStatus, to)
	}

	b.MasterStatus = to
	b.LastActivityAt = now
	return b, true, nil
}

// ApplyCold marks b cold when IsColdAfter holds. LastActivityAt is left alone
// so the booking keeps its real inactivity age.
func ApplyCold(b Booking, now time.Time, threshold time.Duration) (Booking, bool) {
	if !IsColdAfter(b, now, threshold) {
		return b, false
	}
	b.MasterStatus = StatusCold
	return b, true
}
