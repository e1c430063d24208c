package transport

import (
	"encoding/json"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
)

// ClientRequest is the client block of a new booking.
type ClientRequest struct {
	Name   string  `json:"name" validate:"required,min=1,max=200"`
	Phone  string  `json:"phone" validate:"omitempty,phone"`
	Email  string  `json:"email" validate:"omitempty,email,max=254"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url,max=1000"`
}

// CreateBookingRequest opens a booking. Without a client block the caller
// is booking for themselves.
type CreateBookingRequest struct {
	PropertyID     string         `json:"propertyId" validate:"required,min=1,max=100"`
	UnitID         *string        `json:"unitId,omitempty" validate:"omitempty,max=100"`
	Client         *ClientRequest `json:"client,omitempty"`
	AssignedBroker *string        `json:"assignedBroker,omitempty" validate:"omitempty,max=200"`
	Source         string         `json:"source,omitempty" validate:"omitempty,oneof=self_created imported broker_created"`
}

// ClientPatch updates individual client fields.
type ClientPatch struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url,max=1000"`
}

type NextActionRequest struct {
	Type    string     `json:"type" validate:"required,oneof=call visit follow_up reservation documents handover reengage"`
	Label   string     `json:"label" validate:"required,min=1,max=200"`
	Urgent  bool       `json:"urgent"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// UpdateBookingRequest is a partial update; omitted fields are kept.
type UpdateBookingRequest struct {
	Client         *ClientPatch       `json:"client,omitempty"`
	AssignedBroker *string            `json:"assignedBroker,omitempty" validate:"omitempty,max=200"`
	Source         *string            `json:"source,omitempty" validate:"omitempty,oneof=self_created imported broker_created"`
	NextAction     *NextActionRequest `json:"nextAction,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type AssignBrokerRequest struct {
	Broker string `json:"broker" validate:"required,min=1,max=200"`
}

// AppendSubSectionRequest carries a typed payload; Data is decoded by Type.
type AppendSubSectionRequest struct {
	Type string          `json:"type" validate:"required,oneof=visit offer reservation interaction document"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// ListBookingsQuery filters the booking list.
type ListBookingsQuery struct {
	Status string `form:"status" validate:"omitempty,max=50"`
	Broker string `form:"broker" validate:"omitempty,max=200"`
}

// BookingResponse is a booking with its derived fields.
type BookingResponse struct {
	ID             string                  `json:"id"`
	MasterStatus   domain.MasterStatus     `json:"masterStatus"`
	DisplayLabel   string                  `json:"displayLabel"`
	ColorClass     domain.ColorClass       `json:"colorClass"`
	PriorityScore  int                     `json:"priorityScore"`
	IsCold         bool                    `json:"isCold"`
	Client         domain.Client           `json:"client"`
	Property       domain.PropertySnapshot `json:"property"`
	AssignedBroker *string                 `json:"assignedBroker,omitempty"`
	Source         domain.Source           `json:"source,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	LastActivityAt time.Time               `json:"lastActivityAt"`
	SubSections    []domain.SubSection     `json:"subSections"`
	BrokerNotes    []domain.BrokerNote     `json:"brokerNotes"`
	NextAction     *domain.NextAction      `json:"nextAction,omitempty"`
	ClosureMessage string                  `json:"closureMessage,omitempty"`
}

type BookingListResponse struct {
	Items []BookingResponse `json:"items"`
	Total int               `json:"total"`
}

// DocumentUploadResponse describes a stored booking document.
type DocumentUploadResponse struct {
	FileKey     string           `json:"fileKey"`
	DownloadURL string           `json:"downloadUrl,omitempty"`
	Booking     *BookingResponse `json:"booking"`
}
