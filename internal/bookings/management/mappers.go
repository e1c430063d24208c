package management

import (
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/internal/bookings/transport"
)

// ToBookingResponse attaches the derived fields computed at now.
func ToBookingResponse(b domain.Booking, now time.Time, coldAfter time.Duration) transport.BookingResponse {
	guidance := domain.ResolveNextAction(b, now)

	subSections := b.SubSections
	if subSections == nil {
		subSections = []domain.SubSection{}
	}
	notes := b.BrokerNotes
	if notes == nil {
		notes = []domain.BrokerNote{}
	}

	return transport.BookingResponse{
		ID:             b.ID,
		MasterStatus:   b.MasterStatus,
		DisplayLabel:   domain.DisplayLabel(b.MasterStatus),
		ColorClass:     domain.ColorClassFor(b.MasterStatus),
		PriorityScore:  domain.PriorityScore(b, now),
		IsCold:         domain.IsColdAfter(b, now, coldAfter),
		Client:         b.Client,
		Property:       b.Property,
		AssignedBroker: b.AssignedBroker,
		Source:         b.Source,
		CreatedAt:      b.CreatedAt,
		LastActivityAt: b.LastActivityAt,
		SubSections:    subSections,
		BrokerNotes:    notes,
		NextAction:     guidance.Action,
		ClosureMessage: guidance.ClosureMessage,
	}
}

// ToBookingListResponse maps a list, keeping its order.
func ToBookingListResponse(list []domain.Booking, now time.Time, coldAfter time.Duration) transport.BookingListResponse {
	items := make([]transport.BookingResponse, 0, len(list))
	for _, b := range list {
		items = append(items, ToBookingResponse(b, now, coldAfter))
	}
	return transport.BookingListResponse{Items: items, Total: len(items)}
}

// ToUpdateInput converts an update request into service input.
func ToUpdateInput(req transport.UpdateBookingRequest) UpdateBookingInput {
	in := UpdateBookingInput{AssignedBroker: req.AssignedBroker}
	if req.Client != nil {
		in.ClientName = req.Client.Name
		in.ClientPhone = req.Client.Phone
		in.ClientEmail = req.Client.Email
		in.ClientAvatar = req.Client.Avatar
	}
	if req.Source != nil {
		source := domain.Source(*req.Source)
		in.Source = &source
	}
	if req.NextAction != nil {
		in.NextAction = &domain.NextAction{
			Type:    domain.NextActionType(req.NextAction.Type),
			Label:   req.NextAction.Label,
			Urgent:  req.NextAction.Urgent,
			DueDate: req.NextAction.DueDate,
		}
	}
	return in
}

// ToCreateInput converts a create request into service input.
func ToCreateInput(req transport.CreateBookingRequest) CreateBookingInput {
	in := CreateBookingInput{
		PropertyID:     req.PropertyID,
		UnitID:         req.UnitID,
		AssignedBroker: req.AssignedBroker,
		Source:         domain.Source(req.Source),
	}
	if req.Client != nil {
		in.Client = &ClientInput{
			Name:   req.Client.Name,
			Phone:  req.Client.Phone,
			Email:  req.Client.Email,
			Avatar: req.Client.Avatar,
		}
	}
	return in
}
