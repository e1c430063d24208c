package inapp

import (
	"context"
	"fmt"
	"math"
	"testing"
)

func TestRepositoryDropsOldestBeyondCapacity(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()
	for i := range 5 {
		_ = repo.Create(ctx, Notification{ID: fmt.Sprintf("n-%d", i)})
	}

	items, total, err := repo.List(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || items[0].ID != "n-4" || items[2].ID != "n-2" {
		t.Fatalf("unexpected feed %+v", items)
	}

	page, total, _ := repo.List(ctx, "", 2, 2)
	if total != 3 || len(page) != 1 || page[0].ID != "n-2" {
		t.Fatalf("unexpected second page %+v", page)
	}
	if empty, _, _ := repo.List(ctx, "", 2, 10); len(empty) != 0 {
		t.Fatalf("expected an empty page past the end")
	}
}

func TestRepositoryRejectsOutOfRangeWindow(t *testing.T) {
	repo := NewMemoryRepository(0)
	ctx := context.Background()
	_ = repo.Create(ctx, Notification{ID: "n-1"})

	for _, tc := range []struct{ limit, offset int }{{10, -20}, {0, 0}, {-1, 0}} {
		items, total, err := repo.List(ctx, "", tc.limit, tc.offset)
		if err != nil || total != 1 || len(items) != 0 {
			t.Fatalf("limit %d offset %d: got %d items, total %d, err %v", tc.limit, tc.offset, len(items), total, err)
		}
	}
}

func TestServiceListClampsHugePage(t *testing.T) {
	repo := NewMemoryRepository(0)
	svc := NewService(repo, nil)
	ctx := context.Background()
	_ = svc.Send(ctx, SendParams{Title: "cold", Content: "idle"})

	items, total, err := svc.List(ctx, "", math.MaxInt, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 0 {
		t.Fatalf("expected an empty page past the end, got %d items of %d", len(items), total)
	}
	if first, _, _ := svc.List(ctx, "", 1, 50); len(first) != 1 {
		t.Fatalf("expected the alert on page one, got %+v", first)
	}
}
