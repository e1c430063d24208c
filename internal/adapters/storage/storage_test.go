package storage

import "testing"

func TestBuildFileKey(t *testing.T) {
	cases := map[string]string{
		"passport.pdf":              "bookings/b-1/passport_abc123.pdf",
		"../../etc/passwd":          "bookings/b-1/passwd_abc123",
		`C:\Users\omar\id card.png`: "bookings/b-1/id card_abc123.png",
		"":                          "bookings/b-1/file_abc123",
	}
	for in, want := range cases {
		if got := BuildFileKey("bookings/b-1", in, "abc123"); got != want {
			t.Errorf("BuildFileKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidation(t *testing.T) {
	svc := &MinIOService{maxFileSize: 1024}

	if err := svc.ValidateContentType("application/pdf; charset=binary"); err != nil {
		t.Fatalf("pdf must be allowed: %v", err)
	}
	if err := svc.ValidateContentType("video/mp4"); err == nil {
		t.Fatalf("video must be rejected")
	}
	if err := svc.ValidateFileSize(0); err == nil {
		t.Fatalf("empty file must be rejected")
	}
	if err := svc.ValidateFileSize(2048); err == nil {
		t.Fatalf("oversized file must be rejected")
	}
	if err := svc.ValidateFileSize(512); err != nil {
		t.Fatalf("small file must pass: %v", err)
	}
}
