// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers entered without a country prefix.
const DefaultRegion = "AE"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, ok := parse(trimmed)
	if !ok {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// IsValid reports whether input parses to a valid number for its region.
func IsValid(input string) bool {
	_, ok := parse(strings.TrimSpace(input))
	return ok
}

func parse(input string) (*phonenumbers.PhoneNumber, bool) {
	if input == "" {
		return nil, false
	}
	number, err := phonenumbers.Parse(input, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return nil, false
	}
	return number, true
}
