package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+971 50 123 4567", "+971501234567"},
		{"050 123 4567", "+971501234567"},
		{"  ", ""},
		{"not a number", "not a number"},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("+971501234567") {
		t.Fatalf("expected UAE mobile number to be valid")
	}
	if IsValid("12") {
		t.Fatalf("expected short number to be invalid")
	}
}
