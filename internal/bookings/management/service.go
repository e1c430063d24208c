// Package management holds the booking store: the operations that create,
// read and mutate bookings. Every mutation runs under a per-booking lock and
// publishes a domain event after it is persisted.
package management

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/internal/bookings/ports"
	"brokerage_portal_backend/internal/bookings/repository"
	"brokerage_portal_backend/internal/events"
	"brokerage_portal_backend/platform/apperr"
	"brokerage_portal_backend/platform/lock"
	"brokerage_portal_backend/platform/logger"
	"brokerage_portal_backend/platform/phone"
	"brokerage_portal_backend/platform/sanitize"
	"brokerage_portal_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	maxNoteLength = 2000
	roleBroker    = "broker"
	systemAuthor  = "system"
	msgNotFound   = "booking not found"
)

// Repository is the persistence the service needs.
type Repository interface {
	repository.BookingReader
	repository.BookingWriter
}

// Service is the booking store.
type Service struct {
	repo      Repository
	locker    lock.Locker
	catalog   ports.PropertyCatalog
	actors    ports.ActorProvider
	bus       events.Bus
	validator *validator.Validator
	log       *logger.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for booking, note and sub-section ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithValidator(v *validator.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// New creates the booking store. locker may be nil for single-process use.
func New(repo Repository, locker lock.Locker, catalog ports.PropertyCatalog, actors ports.ActorProvider, bus events.Bus, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		locker:  locker,
		catalog: catalog,
		actors:  actors,
		bus:     bus,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locker == nil {
		s.locker = lock.NewKeyedMutex()
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.validator == nil {
		s.validator = validator.New()
	}
	return s
}

// ClientInput is the client captured at creation.
type ClientInput struct {
	Name   string
	Phone  string
	Email  string
	Avatar *string
}

// CreateBookingInput describes a new inquiry. A nil Client defaults to the
// current actor.
type CreateBookingInput struct {
	PropertyID     string
	UnitID         *string
	Client         *ClientInput
	AssignedBroker *string
	Source         domain.Source
}

// CreateBooking opens a booking in interest_expressed with one inquiry
// interaction on its timeline.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	propertyID := strings.TrimSpace(in.PropertyID)
	if propertyID == "" {
		return domain.Booking{}, apperr.Validation("propertyId is required")
	}

	property, err := s.catalog.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, ports.ErrPropertyNotFound) {
			return domain.Booking{}, apperr.NotFound("property not found")
		}
		return domain.Booking{}, err
	}
	snapshot, err := snapshotProperty(property, in.UnitID)
	if err != nil {
		return domain.Booking{}, err
	}

	actor, hasActor := s.actors.CurrentActor(ctx)
	client, err := s.resolveClient(in.Client, actor, hasActor)
	if err != nil {
		return domain.Booking{}, err
	}

	now := s.now()
	b := domain.Booking{
		ID:             s.newID(),
		MasterStatus:   domain.StatusInterestExpressed,
		Client:         client,
		Property:       snapshot,
		AssignedBroker: trimmedPtr(in.AssignedBroker),
		Source:         in.Source,
		CreatedAt:      now,
		LastActivityAt: now,
		SubSections:    []domain.SubSection{},
		BrokerNotes:    []domain.BrokerNote{},
	}
	if hasActor {
		b.CreatedBy = actor.ID
	}
	if hasActor && actor.Role == roleBroker {
		if b.AssignedBroker == nil && actor.Name != "" {
			name := actor.Name
			b.AssignedBroker = &name
		}
		if b.Source == "" {
			b.Source = domain.SourceBrokerCreated
		}
	}
	if b.Source == "" {
		b.Source = domain.SourceSelfCreated
	}

	inquiry := domain.InteractionData{
		Type:      "inquiry",
		Summary:   inquirySummary(snapshot),
		Timestamp: now,
	}
	b.AppendSubSection(domain.NewSubSection(s.newID(), inquiry, now), now)

	if err := s.repo.Create(ctx, b); err != nil {
		return domain.Booking{}, s.storeError(ctx, "create booking", err)
	}

	s.log.WithContext(ctx).BookingEvent("created", b.ID, string(b.MasterStatus))
	s.bus.Publish(ctx, events.BookingCreated{
		BaseEvent:      events.NewBaseEvent(now),
		BookingID:      b.ID,
		PropertyID:     b.Property.PropertyID,
		PropertyName:   b.Property.Name,
		ClientName:     b.Client.Name,
		ClientEmail:    b.Client.Email,
		AssignedBroker: b.AssignedBroker,
	})
	return b, nil
}

// GetBookingByID returns the booking or an apperr NotFound.
func (s *Service) GetBookingByID(ctx context.Context, id string) (domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, s.storeError(ctx, "get booking", err)
	}
	return b, nil
}

// GetBookingForActor is GetBookingByID scoped to the current actor. Brokers
// see every booking; anyone else only the ones they created. Everything
// else reports NotFound.
func (s *Service) GetBookingForActor(ctx context.Context, id string) (domain.Booking, error) {
	b, err := s.GetBookingByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	actor, ok := s.actors.CurrentActor(ctx)
	if !ok || (actor.Role != roleBroker && (actor.ID == "" || actor.ID != b.CreatedBy)) {
		return domain.Booking{}, apperr.NotFound(msgNotFound)
	}
	return b, nil
}

// ListBookingsInput filters ListBookings.
type ListBookingsInput struct {
	Status         domain.MasterStatus
	AssignedBroker string
}

// ListBookings returns matching bookings, highest priority first.
func (s *Service) ListBookings(ctx context.Context, in ListBookingsInput) ([]domain.Booking, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, apperr.Validation("unknown status filter")
	}
	list, err := s.repo.List(ctx, repository.ListFilter{Status: in.Status, AssignedBroker: in.AssignedBroker})
	if err != nil {
		return nil, s.storeError(ctx, "list bookings", err)
	}

	now := s.now()
	scores := make(map[string]int, len(list))
	for _, b := range list {
		scores[b.ID] = domain.PriorityScore(b, now)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return scores[list[i].ID] > scores[list[j].ID]
	})
	return list, nil
}

// UpdateBookingInput is a partial update. Nil fields are left alone.
// Status changes go through TransitionBookingStatus.
type UpdateBookingInput struct {
	ClientName     *string
	ClientPhone    *string
	ClientEmail    *string
	ClientAvatar   *string
	AssignedBroker *string
	Source         *domain.Source
	NextAction     *domain.NextAction
}

func (in UpdateBookingInput) empty() bool {
	return in.ClientName == nil && in.ClientPhone == nil && in.ClientEmail == nil &&
		in.ClientAvatar == nil && in.AssignedBroker == nil && in.Source == nil && in.NextAction == nil
}

// UpdateBooking merges the given fields and refreshes LastActivityAt.
func (s *Service) UpdateBooking(ctx context.Context, id string, in UpdateBookingInput) (domain.Booking, error) {
	if in.empty() {
		return domain.Booking{}, apperr.Validation("no fields to update")
	}

	return s.mutate(ctx, id, func(b *domain.Booking) (bool, error) {
		if in.ClientName != nil {
			name := sanitize.Text(*in.ClientName)
			if name == "" {
				return false, apperr.Validation("client name cannot be empty")
			}
			b.Client.Name = name
		}
		if in.ClientPhone != nil {
			b.Client.Phone = phone.NormalizeE164(*in.ClientPhone)
		}
		if in.ClientEmail != nil {
			email := strings.TrimSpace(*in.ClientEmail)
			if email != "" {
				if err := s.validator.Var(email, "email"); err != nil {
					return false, apperr.Validation("client email is invalid")
				}
			}
			b.Client.Email = email
		}
		if in.ClientAvatar != nil {
			b.Client.Avatar = trimmedPtr(in.ClientAvatar)
		}
		if in.AssignedBroker != nil {
			b.AssignedBroker = trimmedPtr(in.AssignedBroker)
		}
		if in.Source != nil {
			b.Source = *in.Source
		}
		if in.NextAction != nil {
			next := *in.NextAction
			b.NextAction = &next
		}
		b.LastActivityAt = s.now()
		return true, nil
	})
}

// TransitionBookingStatus applies the pipeline rule. A request for the
// current status returns the booking unchanged.
func (s *Service) TransitionBookingStatus(ctx context.Context, id string, to domain.MasterStatus) (domain.Booking, error) {
	if to == domain.StatusCold {
		return domain.Booking{}, apperr.Validation("cold is applied automatically after inactivity")
	}

	var from domain.MasterStatus
	b, err := s.mutate(ctx, id, func(b *domain.Booking) (bool, error) {
		from = b.MasterStatus
		next, changed, err := domain.Transition(*b, to, s.now())
		if err != nil {
			return false, s.transitionError(ctx, b.ID, from, to, err)
		}
		*b = next
		return changed, nil
	})
	if err != nil || from == to {
		return b, err
	}

	s.publishStatusChanged(ctx, b, from)
	return b, nil
}

// MarkBookingAsLost forces the booking into lost.
func (s *Service) MarkBookingAsLost(ctx context.Context, id string) (domain.Booking, error) {
	return s.TransitionBookingStatus(ctx, id, domain.StatusLost)
}

// AddBrokerNote appends a note stamped with the current status.
func (s *Service) AddBrokerNote(ctx context.Context, id, content string) (domain.Booking, error) {
	body := sanitize.Text(content)
	if body == "" || len(body) > maxNoteLength {
		return domain.Booking{}, apperr.Validation(fmt.Sprintf("note must be between 1 and %d characters", maxNoteLength))
	}
	author := systemAuthor
	if actor, ok := s.actors.CurrentActor(ctx); ok && actor.Name != "" {
		author = actor.Name
	}

	var note domain.BrokerNote
	b, err := s.mutate(ctx, id, func(b *domain.Booking) (bool, error) {
		note = b.AddNote(s.newID(), author, body, s.now())
		return true, nil
	})
	if err != nil {
		return b, err
	}

	s.bus.Publish(ctx, events.BookingNoteAdded{
		BaseEvent:  events.NewBaseEvent(note.CreatedAt),
		BookingID:  b.ID,
		NoteID:     note.ID,
		Author:     note.Author,
		StepStatus: string(note.StepStatus),
	})
	return b, nil
}

// AppendSubSection validates data and adds it to the timeline.
func (s *Service) AppendSubSection(ctx context.Context, id string, data domain.SubSectionData) (domain.Booking, error) {
	if data == nil {
		return domain.Booking{}, apperr.Validation("sub-section data is required")
	}
	if err := s.validator.Struct(data); err != nil {
		return domain.Booking{}, apperr.Validation("invalid sub-section").WithDetails(validator.FieldErrors(err))
	}

	var entry domain.SubSection
	b, err := s.mutate(ctx, id, func(b *domain.Booking) (bool, error) {
		now := s.now()
		entry = domain.NewSubSection(s.newID(), data, now)
		b.AppendSubSection(entry, now)
		return true, nil
	})
	if err != nil {
		return b, err
	}

	s.bus.Publish(ctx, events.BookingSubSectionAdded{
		BaseEvent:    events.NewBaseEvent(entry.CreatedAt),
		BookingID:    b.ID,
		SubSectionID: entry.ID,
		Type:         string(entry.Type),
		Summary:      domain.Summary(entry.Data),
	})
	return b, nil
}

// AssignBroker sets the broker working the booking.
func (s *Service) AssignBroker(ctx context.Context, id, broker string) (domain.Booking, error) {
	name := sanitize.Text(broker)
	if name == "" {
		return domain.Booking{}, apperr.Validation("broker is required")
	}

	var assigned bool
	b, err := s.mutate(ctx, id, func(b *domain.Booking) (bool, error) {
		if b.AssignedBroker != nil && *b.AssignedBroker == name {
			return false, nil
		}
		b.AssignedBroker = &name
		b.LastActivityAt = s.now()
		assigned = true
		return true, nil
	})
	if err != nil || !assigned {
		return b, err
	}

	s.bus.Publish(ctx, events.BookingBrokerAssigned{
		BaseEvent:  events.NewBaseEvent(s.now()),
		BookingID:  b.ID,
		ClientName: b.Client.Name,
		Broker:     name,
	})
	return b, nil
}

// ApplyCold moves an idle booking to cold. It reports false when the
// booking is no longer eligible, e.g. it saw activity since it was listed.
func (s *Service) ApplyCold(ctx context.Context, id string, threshold time.Duration) (bool, error) {
	var from domain.MasterStatus
	var marked bool
	b, err := s.mutate(ctx, id, func(b *domain.Booking) (bool, error) {
		from = b.MasterStatus
		next, changed := domain.ApplyCold(*b, s.now(), threshold)
		*b = next
		marked = changed
		return changed, nil
	})
	if err != nil || !marked {
		return false, err
	}

	now := s.now()
	s.publishStatusChanged(ctx, b, from)
	s.bus.Publish(ctx, events.BookingMarkedCold{
		BaseEvent:      events.NewBaseEvent(now),
		BookingID:      b.ID,
		ClientName:     b.Client.Name,
		AssignedBroker: b.AssignedBroker,
		InactiveDays:   int(now.Sub(b.LastActivityAt) / (24 * time.Hour)),
	})
	return true, nil
}

// mutate loads the booking under its lock, applies fn and persists the
// result when fn reports a change.
func (s *Service) mutate(ctx context.Context, id string, fn func(b *domain.Booking) (bool, error)) (domain.Booking, error) {
	unlock, err := s.locker.Lock(ctx, "booking:"+id)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return domain.Booking{}, apperr.Wrap(apperr.KindConflict, "booking is being updated, retry shortly", err)
		}
		return domain.Booking{}, apperr.Wrap(apperr.KindUnavailable, "booking lock unavailable", err)
	}
	defer unlock()

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, s.storeError(ctx, "load booking", err)
	}

	changed, err := fn(&b)
	if err != nil {
		return domain.Booking{}, err
	}
	if !changed {
		return b, nil
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return domain.Booking{}, s.storeError(ctx, "update booking", err)
	}
	return b, nil
}

func (s *Service) publishStatusChanged(ctx context.Context, b domain.Booking, from domain.MasterStatus) {
	actorName := ""
	if actor, ok := s.actors.CurrentActor(ctx); ok {
		actorName = actor.Name
	}
	s.log.WithContext(ctx).BookingEvent("status_changed", b.ID, string(b.MasterStatus))
	s.bus.Publish(ctx, events.BookingStatusChanged{
		BaseEvent:      events.NewBaseEvent(s.now()),
		BookingID:      b.ID,
		ClientName:     b.Client.Name,
		PropertyName:   b.Property.Name,
		AssignedBroker: b.AssignedBroker,
		OldStatus:      string(from),
		NewStatus:      string(b.MasterStatus),
		ActorName:      actorName,
	})
}

func (s *Service) transitionError(ctx context.Context, id string, from, to domain.MasterStatus, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		s.log.WithContext(ctx).TransitionRejected(id, string(from), string(to))
		return apperr.Wrap(apperr.KindValidation, domain.ErrInvalidTransition.Error(), err).
			WithDetails(map[string]string{"from": string(from), "to": string(to)})
	case errors.Is(err, domain.ErrUnknownStatus):
		return apperr.Wrap(apperr.KindValidation, "unknown status", err)
	default:
		return err
	}
}

func (s *Service) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, msgNotFound, err)
	case errors.Is(err, repository.ErrDuplicateID):
		return apperr.Wrap(apperr.KindConflict, "booking already exists", err)
	default:
		s.log.WithContext(ctx).DatabaseError(op, err)
		return apperr.Wrap(apperr.KindInternal, "booking store failure", err).WithOp(op)
	}
}

func (s *Service) resolveClient(in *ClientInput, actor ports.Actor, hasActor bool) (domain.Client, error) {
	var client domain.Client
	switch {
	case in != nil:
		client = domain.Client{
			Name:   sanitize.Text(in.Name),
			Phone:  phone.NormalizeE164(in.Phone),
			Email:  strings.TrimSpace(in.Email),
			Avatar: trimmedPtr(in.Avatar),
		}
	case hasActor:
		client = domain.Client{
			Name:  actor.Name,
			Phone: phone.NormalizeE164(actor.Phone),
			Email: actor.Email,
		}
	}
	if client.Name == "" {
		return domain.Client{}, apperr.Validation("client name is required")
	}
	if client.Email != "" {
		if err := s.validator.Var(client.Email, "email"); err != nil {
			return domain.Client{}, apperr.Validation("client email is invalid")
		}
	}
	return client, nil
}

func snapshotProperty(p ports.Property, unitID *string) (domain.PropertySnapshot, error) {
	snapshot := domain.PropertySnapshot{
		PropertyID: p.ID,
		Name:       p.Name,
		Price:      p.Price,
	}
	if p.Image != "" {
		image := p.Image
		snapshot.Image = &image
	}
	if unitID == nil || strings.TrimSpace(*unitID) == "" {
		return snapshot, nil
	}

	unit, ok := p.FindUnit(strings.TrimSpace(*unitID))
	if !ok {
		return domain.PropertySnapshot{}, apperr.Validation("unit not found on property")
	}
	id, number := unit.ID, unit.Number
	snapshot.UnitID = &id
	snapshot.UnitNumber = &number
	if unit.Price > 0 {
		snapshot.Price = unit.Price
	}
	return snapshot, nil
}

func inquirySummary(p domain.PropertySnapshot) string {
	if p.UnitNumber != nil {
		return fmt.Sprintf("Inquiry about %s, unit %s", p.Name, *p.UnitNumber)
	}
	return "Inquiry about " + p.Name
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
