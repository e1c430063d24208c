// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"brokerage_portal_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingCreated is published when a client expresses interest in a property.
type BookingCreated struct {
	BaseEvent
	BookingID      string  `json:"bookingId"`
	PropertyID     string  `json:"propertyId"`
	PropertyName   string  `json:"propertyName"`
	ClientName     string  `json:"clientName"`
	ClientEmail    string  `json:"clientEmail"`
	AssignedBroker *string `json:"assignedBroker,omitempty"`
}

func (e BookingCreated) EventName() string { return "bookings.booking.created" }

// BookingStatusChanged is published after a successful status transition,
// including the automatic move to cold.
type BookingStatusChanged struct {
	BaseEvent
	BookingID      string  `json:"bookingId"`
	ClientName     string  `json:"clientName"`
	PropertyName   string  `json:"propertyName"`
	AssignedBroker *string `json:"assignedBroker,omitempty"`
	OldStatus      string  `json:"oldStatus"`
	NewStatus      string  `json:"newStatus"`
	ActorName      string  `json:"actorName,omitempty"`
}

func (e BookingStatusChanged) EventName() string { return "bookings.booking.status_changed" }

// BookingMarkedCold is published by the cold sweep.
type BookingMarkedCold struct {
	BaseEvent
	BookingID      string  `json:"bookingId"`
	ClientName     string  `json:"clientName"`
	AssignedBroker *string `json:"assignedBroker,omitempty"`
	InactiveDays   int     `json:"inactiveDays"`
}

func (e BookingMarkedCold) EventName() string { return "bookings.booking.marked_cold" }

// BookingNoteAdded is published when a broker adds a note.
type BookingNoteAdded struct {
	BaseEvent
	BookingID  string `json:"bookingId"`
	NoteID     string `json:"noteId"`
	Author     string `json:"author"`
	StepStatus string `json:"stepStatus"`
}

func (e BookingNoteAdded) EventName() string { return "bookings.note.added" }

// BookingSubSectionAdded is published when a timeline entry is appended.
type BookingSubSectionAdded struct {
	BaseEvent
	BookingID    string `json:"bookingId"`
	SubSectionID string `json:"subSectionId"`
	Type         string `json:"type"`
	Summary      string `json:"summary"`
}

func (e BookingSubSectionAdded) EventName() string { return "bookings.sub_section.added" }

// BookingBrokerAssigned is published when a broker takes over a booking.
type BookingBrokerAssigned struct {
	BaseEvent
	BookingID  string `json:"bookingId"`
	ClientName string `json:"clientName"`
	Broker     string `json:"broker"`
}

func (e BookingBrokerAssigned) EventName() string { return "bookings.broker.assigned" }
