package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brokerage_portal_backend/internal/bookings/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore stores each booking as a JSONB document with the columns
// used for filtering lifted out next to it.
type PostgresStore struct {
	db querier
}

func NewPostgresStore(db querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Create(ctx context.Context, b domain.Booking) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO bookings (id, master_status, assigned_broker, created_at, last_activity_at, document)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, string(b.MasterStatus), b.AssignedBroker, b.CreatedAt, b.LastActivityAt, doc,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateID
	}
	return err
}

func (r *PostgresStore) Update(ctx context.Context, b domain.Booking) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET master_status = $2, assigned_broker = $3, last_activity_at = $4, document = $5
		WHERE id = $1`,
		b.ID, string(b.MasterStatus), b.AssignedBroker, b.LastActivityAt, doc,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT document FROM bookings WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Booking{}, ErrNotFound
	}
	if err != nil {
		return domain.Booking{}, err
	}
	return decodeBooking(doc)
}

func (r *PostgresStore) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT document FROM bookings
		WHERE ($1 = '' OR master_status = $1)
		  AND ($2 = '' OR assigned_broker = $2)
		ORDER BY created_at DESC, id`,
		string(filter.Status), filter.AssignedBroker,
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PostgresStore) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT document FROM bookings
		WHERE last_activity_at <= $1
		  AND master_status NOT IN ('handover', 'lost', 'cancelled', 'cold')
		ORDER BY last_activity_at`,
		cutoff,
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := decodeBooking(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeBooking(doc []byte) (domain.Booking, error) {
	var b domain.Booking
	if err := json.Unmarshal(doc, &b); err != nil {
		return domain.Booking{}, fmt.Errorf("decode booking: %w", err)
	}
	return b, nil
}
