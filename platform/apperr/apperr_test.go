package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("booking not found"), http.StatusNotFound},
		{Validation("invalid transition"), http.StatusUnprocessableEntity},
		{Conflict("locked"), http.StatusConflict},
		{Forbidden("forbidden"), http.StatusForbidden},
		{Unauthorized("unauthorized"), http.StatusUnauthorized},
		{Unavailable("storage disabled"), http.StatusServiceUnavailable},
		{Internal("boom"), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%q: HTTPStatus() = %d, want %d", tc.err.Message, got, tc.want)
		}
	}
}

func TestGetKindFindsWrappedError(t *testing.T) {
	base := errors.New("disk on fire")
	domainErr := Wrap(KindInternal, "save booking", base).WithOp("bookings.save")
	wrapped := fmt.Errorf("handler: %w", domainErr)

	if !Is(wrapped, KindInternal) {
		t.Fatalf("expected wrapped error to carry KindInternal, got %v", GetKind(wrapped))
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected underlying error to be reachable")
	}
	if domainErr.Error() != "bookings.save: save booking" {
		t.Fatalf("unexpected message %q", domainErr.Error())
	}
	if GetKind(base) != KindUnknown {
		t.Fatalf("plain errors must report KindUnknown")
	}
}
