package inapp

import (
	"context"
	"fmt"

	"brokerage_portal_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	opCreate      = "notification.inapp.repository.create"
	opList        = "notification.inapp.repository.list"
	opCountUnread = "notification.inapp.repository.count_unread"
	opMarkRead    = "notification.inapp.repository.mark_read"
	opMarkAllRead = "notification.inapp.repository.mark_all_read"

	// An empty recipient is the desk feed every broker sees.
	visibleClause = "(recipient = '' OR recipient = $1)"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository keeps the feed in booking_notifications so the
// scheduler's alerts reach brokers reading from the api.
type PostgresRepository struct {
	db querier
}

func NewPostgresRepository(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO booking_notifications (id, recipient, title, content, category, booking_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.Recipient, n.Title, n.Content, n.Category, n.BookingID, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("create in-app notification failed: %v", err)).WithOp(opCreate)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, recipient string, limit, offset int) ([]Notification, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM booking_notifications WHERE `+visibleClause, recipient).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count notifications failed: %v", err)).WithOp(opList)
	}
	if offset < 0 || limit < 1 || offset >= total {
		return []Notification{}, total, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, recipient, title, content, category, booking_id, is_read, created_at
		FROM booking_notifications
		WHERE `+visibleClause+`
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, recipient, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Title, &n.Content, &n.Category, &n.BookingID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan notifications failed: %v", err)).WithOp(opList)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", err)).WithOp(opList)
	}
	return items, total, nil
}

func (r *PostgresRepository) CountUnread(ctx context.Context, recipient string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM booking_notifications
		WHERE `+visibleClause+` AND is_read = FALSE`, recipient).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread notifications failed: %v", err)).WithOp(opCountUnread)
	}
	return count, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, recipient, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE booking_notifications SET is_read = TRUE
		WHERE `+visibleClause+` AND id = $2`, recipient, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found").WithOp(opMarkRead)
	}
	return nil
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, recipient string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE booking_notifications SET is_read = TRUE
		WHERE `+visibleClause+` AND is_read = FALSE`, recipient)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark all notifications read failed: %v", err)).WithOp(opMarkAllRead)
	}
	return nil
}

var _ Store = (*PostgresRepository)(nil)
