// Package registration validates the broker onboarding wizard one step at a
// time. Each field check returns "" when the value is acceptable or a single
// message for the user; a step collects those messages by field name.
package registration

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"brokerage_portal_backend/platform/phone"
	"brokerage_portal_backend/platform/validator"
)

const (
	msgRequired = "This field is required"

	maxNameLength = 120
	maxTextLength = 300
)

var (
	fieldValidator = validator.New()

	ibanPattern          = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	brokerLicensePattern = regexp.MustCompile(`^[0-9]{3,10}$`)
	tradeLicensePattern  = regexp.MustCompile(`^[A-Z0-9][A-Z0-9/-]{3,29}$`)
	emiratesIDPattern    = regexp.MustCompile(`^784-?[0-9]{4}-?[0-9]{7}-?[0-9]$`)
)

// Required rejects blank values.
func Required(value string) string {
	if strings.TrimSpace(value) == "" {
		return msgRequired
	}
	return ""
}

// Name accepts a person or company name.
func Name(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxNameLength {
		return fmt.Sprintf("Must be at most %d characters", maxNameLength)
	}
	return ""
}

// Text accepts optional free text up to a sane length.
func Text(value string) string {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxTextLength {
		return fmt.Sprintf("Must be at most %d characters", maxTextLength)
	}
	return ""
}

func Email(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if err := fieldValidator.Var(strings.TrimSpace(value), "email"); err != nil {
		return "Enter a valid email address"
	}
	return ""
}

func Phone(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if !phone.IsValid(value) {
		return "Enter a valid phone number"
	}
	return ""
}

// EmiratesID accepts 784-YYYY-NNNNNNN-C with or without dashes.
func EmiratesID(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if !emiratesIDPattern.MatchString(strings.TrimSpace(value)) {
		return "Enter a valid Emirates ID (784-XXXX-XXXXXXX-X)"
	}
	return ""
}

// BrokerLicense is the regulator issued broker card number.
func BrokerLicense(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if !brokerLicensePattern.MatchString(strings.TrimSpace(value)) {
		return "Broker license number must be 3 to 10 digits"
	}
	return ""
}

func TradeLicense(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if !tradeLicensePattern.MatchString(strings.ToUpper(strings.TrimSpace(value))) {
		return "Enter a valid trade license number"
	}
	return ""
}

// IBAN checks the shape and the ISO 13616 mod-97 checksum. Spaces are
// ignored and letters may be lower case.
func IBAN(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	iban := normalizeIBAN(value)
	if !ibanPattern.MatchString(iban) {
		return "Enter a valid IBAN"
	}
	if ibanMod97(iban) != 1 {
		return "IBAN check digits do not match"
	}
	return ""
}

// SWIFT accepts an 8 or 11 character BIC.
func SWIFT(value string) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	if err := fieldValidator.Var(strings.ToUpper(strings.TrimSpace(value)), "bic"); err != nil {
		return "Enter a valid SWIFT/BIC code"
	}
	return ""
}

// FutureDate requires an ISO date (YYYY-MM-DD) after today.
func FutureDate(value string, now time.Time) string {
	if msg := Required(value); msg != "" {
		return msg
	}
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return "Use the format YYYY-MM-DD"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		return "Must be a date in the future"
	}
	return ""
}

// Accepted requires a ticked checkbox.
func Accepted(value bool) string {
	if !value {
		return "You must accept to continue"
	}
	return ""
}

func normalizeIBAN(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), ""))
}

// ibanMod97 moves the first four characters to the end, expands letters to
// 10..35 and returns the remainder mod 97, one digit at a time.
func ibanMod97(iban string) int {
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			remainder = (remainder*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			remainder = (remainder*100 + v) % 97
		}
	}
	return remainder
}
