package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func bookingAt(status MasterStatus, lastActivity time.Time) Booking {
	return Booking{
		ID:             "b-1",
		MasterStatus:   status,
		Client:         Client{Name: "Ahmed"},
		Property:       PropertySnapshot{PropertyID: "P123", Name: "Marina Heights", Price: 1_250_000},
		CreatedAt:      lastActivity,
		LastActivityAt: lastActivity,
	}
}

func TestTransitionIsForwardOnlyAlongHappyPath(t *testing.T) {
	path := HappyPath()
	for i, from := range path {
		for j, to := range path {
			if i == j {
				continue
			}
			before := bookingAt(from, testNow.Add(-time.Hour))
			got, changed, err := Transition(before, to, testNow)

			if j > i {
				if err != nil || !changed {
					t.Fatalf("%s -> %s: expected success, got changed=%v err=%v", from, to, changed, err)
				}
				if got.MasterStatus != to || !got.LastActivityAt.Equal(testNow) {
					t.Fatalf("%s -> %s: unexpected result %+v", from, to, got)
				}
				continue
			}

			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
			if changed || got.MasterStatus != from || !got.LastActivityAt.Equal(before.LastActivityAt) {
				t.Fatalf("%s -> %s: booking must be left untouched, got %+v", from, to, got)
			}
		}
	}
}

func TestTransitionToLostAlwaysSucceeds(t *testing.T) {
	for _, from := range AllStatuses() {
		if from == StatusLost {
			continue
		}
		got, changed, err := Transition(bookingAt(from, testNow.Add(-time.Hour)), StatusLost, testNow)
		if err != nil || !changed || got.MasterStatus != StatusLost {
			t.Errorf("%s -> lost: changed=%v err=%v status=%s", from, changed, err, got.MasterStatus)
		}
	}
}

func TestTransitionNoOpKeepsLastActivity(t *testing.T) {
	for _, status := range AllStatuses() {
		before := bookingAt(status, testNow.Add(-48*time.Hour))
		got, changed, err := Transition(before, status, testNow)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", status, err)
		}
		if changed {
			t.Fatalf("%s: expected no change", status)
		}
		if !got.LastActivityAt.Equal(before.LastActivityAt) {
			t.Fatalf("%s: lastActivityAt moved to %v", status, got.LastActivityAt)
		}
	}
}

func TestTransitionOutcomes(t *testing.T) {
	cases := []struct {
		name string
		from MasterStatus
		to   MasterStatus
		want bool
	}{
		{"cancel open booking", StatusSiteVisit, StatusCancelled, true},
		{"cancel cold booking", StatusCold, StatusCancelled, true},
		{"cancel after handover", StatusHandover, StatusCancelled, false},
		{"cancel lost booking", StatusLost, StatusCancelled, false},
		{"reopen lost booking", StatusLost, StatusAgentContact, false},
		{"reopen cancelled booking", StatusCancelled, StatusSiteVisit, false},
		{"re-engage cold booking", StatusCold, StatusAgentContact, true},
		{"re-engage cold at first step", StatusCold, StatusInterestExpressed, true},
		{"manual cold", StatusAgentContact, StatusCold, false},
		{"lost after cancelled", StatusCancelled, StatusLost, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
			_, changed, err := Transition(bookingAt(tc.from, testNow), tc.to, testNow)
			if changed != tc.want {
				t.Fatalf("Transition changed=%v, want %v (err=%v)", changed, tc.want, err)
			}
			if !tc.want && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	_, changed, err := Transition(bookingAt(StatusAgentContact, testNow), MasterStatus("archived"), testNow)
	if changed || !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got changed=%v err=%v", changed, err)
	}
}

func TestTransitionOnlyTouchesStatusAndActivity(t *testing.T) {
	before := bookingAt(StatusAgentContact, testNow.Add(-time.Hour))
	before.AddNote("n-1", "Sara", "called twice", testNow.Add(-time.Hour))
	broker := "Sara"
	before.AssignedBroker = &broker

	got, _, err := Transition(before, StatusSiteVisit, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != before.ID || got.Client != before.Client || *got.AssignedBroker != broker {
		t.Fatalf("identity fields changed: %+v", got)
	}
	if len(got.BrokerNotes) != 1 || !got.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("unexpected collateral change: %+v", got)
	}
}

func TestNoteStepStatusSurvivesTransition(t *testing.T) {
	b := bookingAt(StatusAgentContact, testNow.Add(-time.Hour))
	b.AddNote("n-1", "Sara", "client prefers weekends", testNow.Add(-time.Minute))

	b, _, err := Transition(b, StatusSiteVisit, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.AddNote("n-2", "Sara", "visit booked", testNow)

	if b.BrokerNotes[0].StepStatus != StatusAgentContact {
		t.Fatalf("first note reattributed to %s", b.BrokerNotes[0].StepStatus)
	}
	if b.BrokerNotes[1].StepStatus != StatusSiteVisit {
		t.Fatalf("second note stamped %s", b.BrokerNotes[1].StepStatus)
	}
}

func TestApplyColdKeepsLastActivity(t *testing.T) {
	stale := bookingAt(StatusSiteVisit, testNow.Add(-31*24*time.Hour))
	got, changed := ApplyCold(stale, testNow, ColdThreshold)
	if !changed || got.MasterStatus != StatusCold {
		t.Fatalf("expected booking to go cold, got %s", got.MasterStatus)
	}
	if !got.LastActivityAt.Equal(stale.LastActivityAt) {
		t.Fatalf("cold sweep must not refresh lastActivityAt")
	}

	fresh := bookingAt(StatusSiteVisit, testNow.Add(-2*24*time.Hour))
	if _, changed := ApplyCold(fresh, testNow, ColdThreshold); changed {
		t.Fatalf("fresh booking must not go cold")
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(StatusOfferReservation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	step, ok := s.(InJourney)
	if !ok || step.Step != StepOfferReservation {
		t.Fatalf("expected InJourney(offer_reservation), got %#v", s)
	}

	s, err = ParseStatus(StatusCold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closed, ok := s.(Closed)
	if !ok || closed.Outcome != OutcomeCold || closed.Final() {
		t.Fatalf("expected non-final Closed(cold), got %#v", s)
	}

	if _, err := ParseStatus("nope"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}

	for _, status := range AllStatuses() {
		parsed, err := ParseStatus(status)
		if err != nil || parsed.MasterStatus() != status {
			t.Fatalf("round trip of %s failed: %v", status, err)
		}
	}
}
