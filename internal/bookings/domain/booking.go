package domain

import (
	"slices"
	"time"
)

// Source tags where a booking came from.
type Source string

const (
	SourceSelfCreated   Source = "self_created"
	SourceImported      Source = "imported"
	SourceBrokerCreated Source = "broker_created"
)

// Client is the prospective buyer the booking is about.
type Client struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
}

// PropertySnapshot is the property as it looked when the booking was made.
// It is never refreshed from the catalog.
type PropertySnapshot struct {
	PropertyID string  `json:"propertyId"`
	Name       string  `json:"name"`
	UnitID     *string `json:"unitId,omitempty"`
	UnitNumber *string `json:"unitNumber,omitempty"`
	Price      float64 `json:"price"`
	Image      *string `json:"image,omitempty"`
}

// BrokerNote is a free-text note. StepStatus is the booking status at the
// time the note was written and is never rewritten.
type BrokerNote struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Author     string       `json:"author"`
	CreatedAt  time.Time    `json:"createdAt"`
	StepStatus MasterStatus `json:"stepStatus"`
}

// NextActionType classifies the follow-up a broker should take.
type NextActionType string

const (
	ActionCall      NextActionType = "call"
	ActionVisit     NextActionType = "visit"
	ActionFollowUp  NextActionType = "follow_up"
	ActionReserve   NextActionType = "reservation"
	ActionDocuments NextActionType = "documents"
	ActionHandover  NextActionType = "handover"
	ActionReengage  NextActionType = "reengage"
)

// NextAction is the follow-up hint shown on a booking.
type NextAction struct {
	Type    NextActionType `json:"type"`
	Label   string         `json:"label"`
	Urgent  bool           `json:"urgent"`
	DueDate *time.Time     `json:"dueDate,omitempty"`
}

// Booking is a tracked client/property engagement.
type Booking struct {
	ID             string           `json:"id"`
	MasterStatus   MasterStatus     `json:"masterStatus"`
	Client         Client           `json:"client"`
	Property       PropertySnapshot `json:"property"`
	AssignedBroker *string          `json:"assignedBroker,omitempty"`
	Source         Source           `json:"source,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastActivityAt time.Time        `json:"lastActivityAt"`
	SubSections    []SubSection     `json:"subSections"`
	BrokerNotes    []BrokerNote     `json:"brokerNotes"`
	NextAction     *NextAction      `json:"nextAction,omitempty"`
	// CreatedBy is the id of the actor who opened the booking, empty when
	// it was created without one.
	CreatedBy string `json:"createdBy,omitempty"`
}

// AddNote appends a note stamped with the current status and refreshes
// LastActivityAt.
func (b *Booking) AddNote(id, author, content string, now time.Time) BrokerNote {
	note := BrokerNote{
		ID:         id,
		Content:    content,
		Author:     author,
		CreatedAt:  now,
		StepStatus: b.MasterStatus,
	}
	b.BrokerNotes = append(b.BrokerNotes, note)
	b.LastActivityAt = now
	return note
}

// AppendSubSection adds an entry to the end of the event log.
func (b *Booking) AppendSubSection(s SubSection, now time.Time) {
	b.SubSections = append(b.SubSections, s)
	b.LastActivityAt = now
}

// Clone returns a deep copy of b.
func (b Booking) Clone() Booking {
	out := b
	out.Client.Avatar = clonePtr(b.Client.Avatar)
	out.Property.UnitID = clonePtr(b.Property.UnitID)
	out.Property.UnitNumber = clonePtr(b.Property.UnitNumber)
	out.Property.Image = clonePtr(b.Property.Image)
	out.AssignedBroker = clonePtr(b.AssignedBroker)
	out.BrokerNotes = slices.Clone(b.BrokerNotes)

	if b.SubSections != nil {
		out.SubSections = make([]SubSection, len(b.SubSections))
		for i, s := range b.SubSections {
			s.Data = cloneSubSectionData(s.Data)
			out.SubSections[i] = s
		}
	}
	if b.NextAction != nil {
		next := *b.NextAction
		next.DueDate = clonePtr(b.NextAction.DueDate)
		out.NextAction = &next
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
