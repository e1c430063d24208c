package inapp

import (
	"context"
	"testing"
	"time"

	"brokerage_portal_backend/platform/apperr"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var feedColumns = []string{"id", "recipient", "title", "content", "category", "booking_id", "is_read", "created_at"}

func TestPostgresRepositoryCreateAndList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	n := Notification{ID: "n-1", Recipient: "Sara", Title: "Booking went cold", Content: "No activity", Category: "warning", BookingID: "b-1", CreatedAt: at}

	mock.ExpectExec("INSERT INTO booking_notifications").
		WithArgs(n.ID, n.Recipient, n.Title, n.Content, n.Category, n.BookingID, false, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("Sara").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, recipient, title").
		WithArgs("Sara", 20, 0).
		WillReturnRows(pgxmock.NewRows(feedColumns).AddRow(n.ID, n.Recipient, n.Title, n.Content, n.Category, n.BookingID, false, at))

	repo := NewPostgresRepository(mock)
	ctx := context.Background()
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("create: %v", err)
	}
	items, total, err := repo.List(ctx, "Sara", 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0] != n {
		t.Fatalf("unexpected feed %+v (total %d)", items, total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryListPastEndSkipsQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	items, total, err := NewPostgresRepository(mock).List(context.Background(), "", 20, 40)
	if err != nil || total != 3 || len(items) != 0 {
		t.Fatalf("got %d items, total %d, err %v", len(items), total, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryMarkRead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("UPDATE booking_notifications SET is_read").
		WithArgs("Sara", "n-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE booking_notifications SET is_read").
		WithArgs("Omar", "n-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepository(mock)
	ctx := context.Background()
	if err := repo.MarkRead(ctx, "Sara", "n-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := repo.MarkRead(ctx, "Omar", "n-1"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for another broker, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
