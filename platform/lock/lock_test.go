package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	k := NewKeyedMutex()
	unlock, err := k.Lock(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := k.Lock(ctx, "booking-1"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected second lock on same key to time out, got %v", err)
	}

	other, err := k.Lock(context.Background(), "booking-2")
	if err != nil {
		t.Fatalf("expected independent key to lock, got %v", err)
	}
	other()

	unlock()
	unlock() // second call is a no-op

	again, err := k.Lock(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	again()

	if len(k.locks) != 0 {
		t.Fatalf("expected lock table to be empty, has %d entries", len(k.locks))
	}
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	locker := NewRedisLocker(client, "lock:booking:", time.Second)
	unlock, err := locker.Lock(context.Background(), "abc")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !mr.Exists("lock:booking:abc") {
		t.Fatalf("expected lock key to exist in redis")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "abc"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected contended lock to fail, got %v", err)
	}

	unlock()
	if mr.Exists("lock:booking:abc") {
		t.Fatalf("expected lock key to be deleted after unlock")
	}
}

func TestRedisLockerDoesNotReleaseForeignToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	locker := NewRedisLocker(client, "lock:", time.Second)
	unlock, err := locker.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	// Simulate expiry followed by another holder taking the key.
	if err := mr.Set("lock:k", "someone-else"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	unlock()

	got, err := mr.Get("lock:k")
	if err != nil || got != "someone-else" {
		t.Fatalf("expected foreign lock to survive, got %q (%v)", got, err)
	}
}
