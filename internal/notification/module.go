// Package notification turns booking domain events into broker alerts.
// Every alert lands in the in-app feed; the ones the desk must act on are
// also emailed to the broker desk address.
package notification

import (
	"context"
	"fmt"
	"strings"

	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/internal/email"
	"brokerage_portal_backend/internal/events"
	apphttp "brokerage_portal_backend/internal/http"
	notifhandler "brokerage_portal_backend/internal/notification/handler"
	"brokerage_portal_backend/internal/notification/inapp"
	"brokerage_portal_backend/platform/logger"
)

const (
	CategoryInfo    = "info"
	CategorySuccess = "success"
	CategoryWarning = "warning"
)

// Config is what the notification module reads from the app config.
type Config interface {
	GetBrokerDeskEmail() string
	GetAppBaseURL() string
}

// Alert is a fire-and-forget user alert.
type Alert struct {
	Title     string
	Message   string
	Category  string
	Recipient string
	BookingID string
	// Email also sends the alert to the broker desk.
	Email        bool
	ClientName   string
	PropertyName string
	Status       string
}

// Sink accepts alerts.
type Sink interface {
	Notify(ctx context.Context, alert Alert) error
}

type Module struct {
	sender   email.Sender
	inApp    *inapp.Service
	handler  *notifhandler.HTTPHandler
	deskMail string
	baseURL  string
	log      *logger.Logger
}

// Option configures a Module.
type Option func(*options)

type options struct {
	feed inapp.Store
}

// WithFeed stores alerts in feed instead of a process-local memory feed.
// Use it whenever another process raises alerts for the same brokers.
func WithFeed(feed inapp.Store) Option {
	return func(o *options) { o.feed = feed }
}

func New(sender email.Sender, cfg Config, log *logger.Logger, opts ...Option) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	if log == nil {
		log = logger.Discard()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.feed == nil {
		o.feed = inapp.NewMemoryRepository(0)
	}
	inApp := inapp.NewService(o.feed, log)
	return &Module{
		sender:   sender,
		inApp:    inApp,
		handler:  notifhandler.NewHTTPHandler(inApp),
		deskMail: strings.TrimSpace(cfg.GetBrokerDeskEmail()),
		baseURL:  strings.TrimRight(cfg.GetAppBaseURL(), "/"),
		log:      log,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the broker notification feed.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Broker.Group("/notifications"))
}

// InAppService exposes the feed for tests and other modules.
func (m *Module) InAppService() *inapp.Service { return m.inApp }

// RegisterHandlers subscribes to the booking events that produce alerts.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BookingCreated{}.EventName(), m)
	bus.Subscribe(events.BookingStatusChanged{}.EventName(), m)
	bus.Subscribe(events.BookingMarkedCold{}.EventName(), m)
	bus.Subscribe(events.BookingBrokerAssigned{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to alerts.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BookingCreated:
		return m.Notify(ctx, Alert{
			Title:        "New booking inquiry",
			Message:      fmt.Sprintf("%s is interested in %s.", e.ClientName, e.PropertyName),
			Category:     CategoryInfo,
			Recipient:    deref(e.AssignedBroker),
			BookingID:    e.BookingID,
			Email:        true,
			ClientName:   e.ClientName,
			PropertyName: e.PropertyName,
			Status:       domain.DisplayLabel(domain.StatusInterestExpressed),
		})
	case events.BookingStatusChanged:
		return m.handleStatusChanged(ctx, e)
	case events.BookingMarkedCold:
		return m.Notify(ctx, Alert{
			Title:      "Booking went cold",
			Message:    fmt.Sprintf("No activity on %s's booking for %d days.", e.ClientName, e.InactiveDays),
			Category:   CategoryWarning,
			Recipient:  deref(e.AssignedBroker),
			BookingID:  e.BookingID,
			Email:      true,
			ClientName: e.ClientName,
			Status:     domain.DisplayLabel(domain.StatusCold),
		})
	case events.BookingBrokerAssigned:
		return m.Notify(ctx, Alert{
			Title:      "Booking assigned to you",
			Message:    fmt.Sprintf("You now handle %s's booking.", e.ClientName),
			Category:   CategoryInfo,
			Recipient:  e.Broker,
			BookingID:  e.BookingID,
			ClientName: e.ClientName,
		})
	default:
		return nil
	}
}

func (m *Module) handleStatusChanged(ctx context.Context, e events.BookingStatusChanged) error {
	to := domain.MasterStatus(e.NewStatus)
	if to == domain.StatusCold {
		// Reported by BookingMarkedCold with the idle duration.
		return nil
	}

	alert := Alert{
		Title:        "Booking moved to " + domain.DisplayLabel(to),
		Category:     CategoryInfo,
		Recipient:    deref(e.AssignedBroker),
		BookingID:    e.BookingID,
		ClientName:   e.ClientName,
		PropertyName: e.PropertyName,
		Status:       domain.DisplayLabel(to),
	}
	actor := e.ActorName
	if actor == "" {
		actor = "The pipeline"
	}
	alert.Message = fmt.Sprintf("%s moved %s's booking from %s to %s.",
		actor, e.ClientName, domain.DisplayLabel(domain.MasterStatus(e.OldStatus)), domain.DisplayLabel(to))

	switch to {
	case domain.StatusHandover:
		alert.Category = CategorySuccess
		alert.Email = true
	case domain.StatusLost, domain.StatusCancelled:
		alert.Category = CategoryWarning
		alert.Email = true
	}
	return m.Notify(ctx, alert)
}

// Notify stores the alert in the in-app feed and, when requested and
// configured, emails the broker desk. Email failures are logged only.
func (m *Module) Notify(ctx context.Context, alert Alert) error {
	if err := m.inApp.Send(ctx, inapp.SendParams{
		Recipient: alert.Recipient,
		Title:     alert.Title,
		Content:   alert.Message,
		BookingID: alert.BookingID,
		Category:  alert.Category,
	}); err != nil {
		return err
	}

	if !alert.Email || m.deskMail == "" {
		return nil
	}
	err := m.sender.SendBookingAlert(ctx, m.deskMail, email.BookingAlert{
		Title:        alert.Title,
		Message:      alert.Message,
		Category:     alert.Category,
		ClientName:   alert.ClientName,
		PropertyName: alert.PropertyName,
		Status:       alert.Status,
		BookingURL:   m.bookingURL(alert.BookingID),
	})
	if err != nil {
		m.log.Warn("booking alert email failed", "booking_id", alert.BookingID, "error", err)
	}
	return nil
}

func (m *Module) bookingURL(id string) string {
	if m.baseURL == "" || id == "" {
		return ""
	}
	return m.baseURL + "/bookings/" + id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ apphttp.Module = (*Module)(nil)
	_ Sink           = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
