package email

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderBookingAlert(t *testing.T) {
	subject, body, err := renderBookingAlert(BookingAlert{
		Title:        "Booking moved to site visit",
		Message:      "Sara Haddad moved the booking forward.",
		Category:     "info",
		ClientName:   "Omar <Nasser>",
		PropertyName: "Marina Heights",
		Status:       "Site visit",
		BookingURL:   "https://portal.example.com/bookings/b-1",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "[info] Booking moved to site visit" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Marina Heights", "Omar &lt;Nasser&gt;", "https://portal.example.com/bookings/b-1", "Open booking"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildMessage(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "desk@example.com", "Broker Desk")

	msg, err := s.buildMessage("sara@example.com", "Hello", "<p>hi</p>")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.String()
	if !strings.Contains(raw, "Subject: Hello") || !strings.Contains(raw, "sara@example.com") {
		t.Fatalf("unexpected message:\n%s", raw)
	}

	if _, err := s.buildMessage("not an address", "Hello", "x"); err == nil {
		t.Fatal("expected an invalid recipient to be rejected")
	}
}
