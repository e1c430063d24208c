package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("BOOKINGS_STORE", "memory")
	t.Setenv("COLD_AFTER_DAYS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetBookingsStore() != StoreMemory {
		t.Fatalf("expected memory store, got %q", cfg.GetBookingsStore())
	}
	if cfg.GetColdAfter() != 30*24*time.Hour {
		t.Fatalf("expected 30 day cold threshold, got %s", cfg.GetColdAfter())
	}
	if cfg.IsMinIOEnabled() {
		t.Fatalf("expected MinIO disabled without endpoint")
	}
}

func TestLoadRejectsPostgresWithoutURL(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("BOOKINGS_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing for postgres store")
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("BOOKINGS_STORE", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("BOOKINGS_STORE", "memory")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_ACCESS_SECRET")
	}
}

func TestScheduledColdSweep(t *testing.T) {
	cases := []struct {
		name  string
		store string
		redis string
		want  bool
	}{
		{"memory only", StoreMemory, "", false},
		{"memory with redis", StoreMemory, "redis://localhost:6379", false},
		{"postgres only", StorePostgres, "", false},
		{"postgres with redis", StorePostgres, "redis://localhost:6379", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{BookingsStore: tc.store, RedisURL: tc.redis}
			if got := cfg.ScheduledColdSweep(); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
