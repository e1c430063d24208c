package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type bookingAlertEmailData struct {
	baseEmailData
	Message      string
	ClientName   string
	PropertyName string
	Status       string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderBookingAlert(alert BookingAlert) (subject, body string, err error) {
	body, err = renderEmailTemplate("booking_alert.html", bookingAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    alert.Title,
			Heading:  alert.Title,
			CTALabel: "Open booking",
			CTAURL:   alert.BookingURL,
		},
		Message:      alert.Message,
		ClientName:   alert.ClientName,
		PropertyName: alert.PropertyName,
		Status:       alert.Status,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectBookingAlertFmt, alert.Category, alert.Title), body, nil
}
