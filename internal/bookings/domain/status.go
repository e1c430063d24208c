// Package domain provides the business rules of the booking pipeline:
// the status model, the transition engine and the derived fields.
package domain

import "fmt"

// MasterStatus is the wire value of a booking's pipeline position.
type MasterStatus string

const (
	StatusInterestExpressed    MasterStatus = "interest_expressed"
	StatusAgentContact         MasterStatus = "agent_contact"
	StatusSiteVisit            MasterStatus = "site_visit"
	StatusOfferReservation     MasterStatus = "offer_reservation"
	StatusAwaitingFinalisation MasterStatus = "awaiting_finalisation"
	StatusHandover             MasterStatus = "handover"
	StatusLost                 MasterStatus = "lost"
	StatusCancelled            MasterStatus = "cancelled"
	StatusCold                 MasterStatus = "cold"
)

// JourneyStep is a position on the happy path. Steps compare by order.
type JourneyStep int

const (
	StepInterestExpressed JourneyStep = iota
	StepAgentContact
	StepSiteVisit
	StepOfferReservation
	StepAwaitingFinalisation
	StepHandover
)

var journey = [...]MasterStatus{
	StepInterestExpressed:    StatusInterestExpressed,
	StepAgentContact:         StatusAgentContact,
	StepSiteVisit:            StatusSiteVisit,
	StepOfferReservation:     StatusOfferReservation,
	StepAwaitingFinalisation: StatusAwaitingFinalisation,
	StepHandover:             StatusHandover,
}

func (s JourneyStep) MasterStatus() MasterStatus { return journey[s] }

// Outcome is a status off the happy path.
type Outcome string

const (
	OutcomeLost      Outcome = Outcome(StatusLost)
	OutcomeCancelled Outcome = Outcome(StatusCancelled)
	OutcomeCold      Outcome = Outcome(StatusCold)
)

// Status is either InJourney or Closed. Journey order is only defined
// between two InJourney values.
type Status interface {
	MasterStatus() MasterStatus
	isStatus()
}

// InJourney is a booking on the happy path.
type InJourney struct {
	Step JourneyStep
}

func (s InJourney) MasterStatus() MasterStatus { return s.Step.MasterStatus() }
func (InJourney) isStatus()                    {}

// Before reports whether s comes strictly earlier on the happy path than other.
func (s InJourney) Before(other InJourney) bool { return s.Step < other.Step }

// Closed is a booking that left the happy path: lost, cancelled or cold.
type Closed struct {
	Outcome Outcome
}

func (s Closed) MasterStatus() MasterStatus { return MasterStatus(s.Outcome) }
func (Closed) isStatus()                    {}

// Final reports whether the outcome ends the engagement. Cold can be re-engaged.
func (s Closed) Final() bool { return s.Outcome != OutcomeCold }

// ParseStatus maps a wire value onto the two-tier model.
func ParseStatus(value MasterStatus) (Status, error) {
	for i, s := range journey {
		if s == value {
			return InJourney{Step: JourneyStep(i)}, nil
		}
	}
	switch Outcome(value) {
	case OutcomeLost, OutcomeCancelled, OutcomeCold:
		return Closed{Outcome: Outcome(value)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(value))
}

// AllStatuses lists every MasterStatus: the happy path first, then the outcomes.
func AllStatuses() []MasterStatus {
	out := make([]MasterStatus, 0, len(journey)+3)
	out = append(out, journey[:]...)
	return append(out, StatusLost, StatusCancelled, StatusCold)
}

// HappyPath returns the ordered journey statuses.
func HappyPath() []MasterStatus {
	out := make([]MasterStatus, len(journey))
	copy(out, journey[:])
	return out
}

// IsValid reports whether s is part of the enumeration.
func (s MasterStatus) IsValid() bool {
	_, err := ParseStatus(s)
	return err == nil
}

// IsTerminal reports whether s closes the booking for good: handover, lost or cancelled.
func (s MasterStatus) IsTerminal() bool {
	switch s {
	case StatusHandover, StatusLost, StatusCancelled:
		return true
	}
	return false
}
