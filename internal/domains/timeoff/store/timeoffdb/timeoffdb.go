// Package timeoffdb persists time off requests in Postgres. Decide and
// Withdraw are conditional statements guarded on the pending state, so a
// request settles exactly once no matter how many managers race on it.
package timeoffdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	timeoffBus "github.com/KSx23/archer/internal/domains/timeoff/bus"
	"github.com/KSx23/archer/internal/page"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
)

const foreignKeyViolation = "23503"

type Store struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

func NewStore(db *sqlx.DB, tracer trace.Tracer) *Store {
	return &Store{
		db:     db,
		tracer: tracer,
	}
}

func (s *Store) Create(ctx context.Context, req timeoffBus.Request) (int64, error) {
	const q = `
	INSERT INTO time_off_request (user_id, start_date, end_date, status, created_at, updated_at)
	VALUES (:user_id, :start_date, :end_date, :status, :created_at, :updated_at)
	RETURNING id
	`

	ctx, span := s.tracer.Start(ctx, "timeoff.store.create")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, q, fromBusRequest(req))
	if err != nil {
		var pgerror *pgconn.PgError
		if errors.As(err, &pgerror) {
			if pgerror.Code == foreignKeyViolation {
				return 0, timeoffBus.ErrUnknownUser
			}
		}
		return 0, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return 0, errors.New("insert returned no id")
	}

	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("scan: %w", err)
	}

	return id, nil
}

// Decide settles a pending request. Zero rows means the pending guard failed:
// a follow-up read tells a missing request apart from one already decided.
func (s *Store) Decide(ctx context.Context, requestID int64, status timeoffBus.Status, now time.Time) (timeoffBus.Request, error) {
	const q = `
	UPDATE time_off_request
	SET
		status = :status,
		updated_at = :updated_at
	WHERE
		id = :id AND status = :pending
	RETURNING *
	`

	ctx, span := s.tracer.Start(ctx, "timeoff.store.decide")
	defer span.End()

	data := map[string]any{
		"id":         requestID,
		"status":     status.String(),
		"pending":    timeoffBus.StatusPending.String(),
		"updated_at": now,
	}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return timeoffBus.Request{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		if _, qerr := s.QueryByID(ctx, requestID); qerr != nil {
			return timeoffBus.Request{}, qerr
		}
		return timeoffBus.Request{}, timeoffBus.ErrAlreadyDecided
	}

	var r request
	if err := rows.StructScan(&r); err != nil {
		return timeoffBus.Request{}, fmt.Errorf("structScan: %w", err)
	}

	return toRequestBus(r)
}

// Withdraw deletes a pending request owned by the given user.
func (s *Store) Withdraw(ctx context.Context, requestID int64, userID int64) error {
	const q = `
	DELETE FROM time_off_request
	WHERE id = :id AND user_id = :user_id AND status = :pending
	`

	ctx, span := s.tracer.Start(ctx, "timeoff.store.withdraw")
	defer span.End()

	data := map[string]any{
		"id":      requestID,
		"user_id": userID,
		"pending": timeoffBus.StatusPending.String(),
	}

	res, err := s.db.NamedExecContext(ctx, q, data)
	if err != nil {
		return fmt.Errorf("namedExecContext: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowsAffected: %w", err)
	}

	if affected == 0 {
		req, qerr := s.QueryByID(ctx, requestID)
		if qerr != nil {
			return qerr
		}
		if req.UserID != userID {
			return timeoffBus.ErrNotRequester
		}
		return timeoffBus.ErrAlreadyDecided
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, requestID int64) (timeoffBus.Request, error) {
	const q = `SELECT * FROM time_off_request WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "timeoff.store.queryByID")
	defer span.End()

	data := map[string]any{"id": requestID}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return timeoffBus.Request{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return timeoffBus.Request{}, timeoffBus.ErrNotFound
	}

	var r request
	if err := rows.StructScan(&r); err != nil {
		return timeoffBus.Request{}, fmt.Errorf("structScan: %w", err)
	}

	return toRequestBus(r)
}

func (s *Store) Query(ctx context.Context, filters timeoffBus.QueryFilter, orderBy timeoffBus.Field, page page.Page) ([]timeoffBus.Request, error) {
	data := map[string]any{
		"offset":        (page.Number - 1) * page.Rows,
		"rows_per_page": page.Rows,
	}

	const q = "SELECT * FROM time_off_request "
	buf := bytes.NewBufferString(q)

	applyFilters(filters, data, buf)

	orderClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, fmt.Errorf("orderByClause: %w", err)
	}

	buf.WriteString(orderClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	ctx, span := s.tracer.Start(ctx, "timeoff.store.query")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, buf.String(), data)
	if err != nil {
		return nil, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	var rs []request
	for rows.Next() {
		var r request
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("structScan: %w", err)
		}
		rs = append(rs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preparing next row to scan: %w", err)
	}

	busReqs := make([]timeoffBus.Request, len(rs))
	for i, r := range rs {
		busReqs[i], err = toRequestBus(r)
		if err != nil {
			return nil, err
		}
	}

	return busReqs, nil
}

func (s *Store) Count(ctx context.Context, filters timeoffBus.QueryFilter) (int, error) {
	const q = `SELECT COUNT(1) AS count FROM time_off_request`

	ctx, span := s.tracer.Start(ctx, "timeoff.store.count")
	defer span.End()

	buf := bytes.NewBufferString(q)
	data := map[string]any{}

	applyFilters(filters, data, buf)

	var count struct {
		Count int `db:"count"`
	}

	rows, err := s.db.NamedQueryContext(ctx, buf.String(), data)
	if err != nil {
		return 0, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return 0, errors.New("count returned no rows")
	}

	if err := rows.StructScan(&count); err != nil {
		return 0, fmt.Errorf("structScan: %w", err)
	}

	return count.Count, nil
}
