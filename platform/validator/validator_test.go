package validator

import (
	"errors"
	"testing"
)

type contactForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
	Role  string `json:"role" validate:"oneof=broker buyer"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(contactForm{Email: "nope", Phone: "12", Role: "admin"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	got := FieldErrors(err)
	want := map[string]string{
		"name":  "is required",
		"email": "must be a valid email address",
		"phone": "must be a valid phone number",
		"role":  "must be one of: broker buyer",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %q: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestFieldErrorsValid(t *testing.T) {
	v := New()
	err := v.Struct(contactForm{Name: "Ahmed", Email: "ahmed@example.com", Phone: "+971501234567", Role: "buyer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(FieldErrors(nil)) != 0 {
		t.Fatalf("expected empty map for nil error")
	}
}

func TestFieldErrorsNonValidationError(t *testing.T) {
	got := FieldErrors(errors.New("boom"))
	if got["_"] != "boom" {
		t.Fatalf("expected generic error under _, got %v", got)
	}
}
