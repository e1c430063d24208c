// Package email delivers broker desk alerts over SMTP.
package email

import "context"

// BookingAlert is one notification about a booking.
type BookingAlert struct {
	Title        string
	Message      string
	Category     string
	ClientName   string
	PropertyName string
	Status       string
	BookingURL   string
}

// Sender delivers booking alerts by email.
type Sender interface {
	SendBookingAlert(ctx context.Context, toEmail string, alert BookingAlert) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendBookingAlert(context.Context, string, BookingAlert) error {
	return nil
}
