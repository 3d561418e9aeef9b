// Package notificationdb persists notifications in Postgres.
package notificationdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	notificationBus "github.com/KSx23/archer/internal/domains/notification/bus"
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

func (s *Store) Create(ctx context.Context, n notificationBus.Notification) (int64, error) {
	const q = `
	INSERT INTO notifications (user_id, message, status, created_at, updated_at)
	VALUES (:user_id, :message, :status, :created_at, :updated_at)
	RETURNING id
	`

	ctx, span := s.tracer.Start(ctx, "notification.store.create")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, q, fromBusNotification(n))
	if err != nil {
		var pgerror *pgconn.PgError
		if errors.As(err, &pgerror) {
			if pgerror.Code == foreignKeyViolation {
				return 0, notificationBus.ErrUnknownUser
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

func (s *Store) Update(ctx context.Context, n notificationBus.Notification) error {
	const q = `
	UPDATE notifications
	SET
		message = :message,
		status = :status,
		updated_at = :updated_at
	WHERE
		id = :id
	`

	ctx, span := s.tracer.Start(ctx, "notification.store.update")
	defer span.End()

	res, err := s.db.NamedExecContext(ctx, q, fromBusNotification(n))
	if err != nil {
		return fmt.Errorf("namedExecContext: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowsAffected: %w", err)
	}

	if affected == 0 {
		return notificationBus.ErrNotFound
	}

	return nil
}

func (s *Store) SetStatus(ctx context.Context, notificationID int64, status notificationBus.Status, now time.Time) error {
	const q = `
	UPDATE notifications
	SET
		status = :status,
		updated_at = :updated_at
	WHERE
		id = :id
	`

	ctx, span := s.tracer.Start(ctx, "notification.store.setStatus")
	defer span.End()

	data := map[string]any{
		"id":         notificationID,
		"status":     status.String(),
		"updated_at": now,
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
		return notificationBus.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, notificationID int64) error {
	const q = `DELETE FROM notifications WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "notification.store.delete")
	defer span.End()

	data := map[string]any{"id": notificationID}

	res, err := s.db.NamedExecContext(ctx, q, data)
	if err != nil {
		return fmt.Errorf("namedExecContext: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowsAffected: %w", err)
	}

	if affected == 0 {
		return notificationBus.ErrNotFound
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, notificationID int64) (notificationBus.Notification, error) {
	const q = `SELECT * FROM notifications WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "notification.store.queryByID")
	defer span.End()

	data := map[string]any{"id": notificationID}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return notificationBus.Notification{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return notificationBus.Notification{}, notificationBus.ErrNotFound
	}

	var n notification
	if err := rows.StructScan(&n); err != nil {
		return notificationBus.Notification{}, fmt.Errorf("structScan: %w", err)
	}

	return toNotificationBus(n)
}

func (s *Store) Query(ctx context.Context, filters notificationBus.QueryFilter, orderBy notificationBus.Field, page page.Page) ([]notificationBus.Notification, error) {
	data := map[string]any{
		"offset":        (page.Number - 1) * page.Rows,
		"rows_per_page": page.Rows,
	}

	const q = "SELECT * FROM notifications "
	buf := bytes.NewBufferString(q)

	applyFilters(filters, data, buf)

	orderClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, fmt.Errorf("orderByClause: %w", err)
	}

	buf.WriteString(orderClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	ctx, span := s.tracer.Start(ctx, "notification.store.query")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, buf.String(), data)
	if err != nil {
		return nil, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	var ns []notification
	for rows.Next() {
		var n notification
		if err := rows.StructScan(&n); err != nil {
			return nil, fmt.Errorf("structScan: %w", err)
		}
		ns = append(ns, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preparing next row to scan: %w", err)
	}

	busNotifications := make([]notificationBus.Notification, len(ns))
	for i, n := range ns {
		busNotifications[i], err = toNotificationBus(n)
		if err != nil {
			return nil, err
		}
	}

	return busNotifications, nil
}

func (s *Store) Count(ctx context.Context, filters notificationBus.QueryFilter) (int, error) {
	const q = `SELECT COUNT(1) AS count FROM notifications`

	ctx, span := s.tracer.Start(ctx, "notification.store.count")
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
