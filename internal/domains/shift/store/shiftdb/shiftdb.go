// Package shiftdb persists shifts in Postgres.
//
// Claim and Release are single conditional UPDATEs: the ownership check and
// the write happen in one statement, so concurrent transitions on the same
// shift serialize inside the database and the first writer wins.
package shiftdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	shiftBus "github.com/KSx23/archer/internal/domains/shift/bus"
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

func (s *Store) Create(ctx context.Context, sh shiftBus.Shift) (int64, error) {
	const q = `
	INSERT INTO shifts (owner_id, start_time, end_time, location, availability, role_id, created_at, updated_at)
	VALUES (:owner_id, :start_time, :end_time, :location, :availability, :role_id, :created_at, :updated_at)
	RETURNING id
	`

	ctx, span := s.tracer.Start(ctx, "shift.store.create")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, q, fromBusShift(sh))
	if err != nil {
		var pgerror *pgconn.PgError
		if errors.As(err, &pgerror) {
			if pgerror.Code == foreignKeyViolation {
				return 0, shiftBus.ErrUnknownReference
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

func (s *Store) Delete(ctx context.Context, shiftID int64) error {
	const q = `DELETE FROM shifts WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "shift.store.delete")
	defer span.End()

	data := map[string]any{"id": shiftID}

	res, err := s.db.NamedExecContext(ctx, q, data)
	if err != nil {
		return fmt.Errorf("namedExecContext: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowsAffected: %w", err)
	}

	if affected == 0 {
		return shiftBus.ErrNotFound
	}

	return nil
}

// Claim flips an unclaimed shift to the given owner. Zero rows means the
// guard did not match: a follow-up read tells a missing shift apart from a
// lost race.
func (s *Store) Claim(ctx context.Context, shiftID int64, userID int64, now time.Time) (shiftBus.Shift, error) {
	const q = `
	UPDATE shifts
	SET
		owner_id = :owner_id,
		availability = :availability,
		updated_at = :updated_at
	WHERE
		id = :id AND owner_id IS NULL
	RETURNING *
	`

	ctx, span := s.tracer.Start(ctx, "shift.store.claim")
	defer span.End()

	data := map[string]any{
		"id":           shiftID,
		"owner_id":     userID,
		"availability": shiftBus.AvailabilityBooked.String(),
		"updated_at":   now,
	}

	sh, err := s.execTransition(ctx, q, data)
	if err != nil {
		if errors.Is(err, errGuardMiss) {
			//the shift exists but someone else holds it
			if _, qerr := s.QueryByID(ctx, shiftID); qerr != nil {
				return shiftBus.Shift{}, qerr
			}
			return shiftBus.Shift{}, shiftBus.ErrAlreadyClaimed
		}
		return shiftBus.Shift{}, err
	}

	return sh, nil
}

// Release hands the shift back, guarded on the caller being the owner.
func (s *Store) Release(ctx context.Context, shiftID int64, userID int64, now time.Time) (shiftBus.Shift, error) {
	const q = `
	UPDATE shifts
	SET
		owner_id = NULL,
		availability = :availability,
		updated_at = :updated_at
	WHERE
		id = :id AND owner_id = :owner_id
	RETURNING *
	`

	ctx, span := s.tracer.Start(ctx, "shift.store.release")
	defer span.End()

	data := map[string]any{
		"id":           shiftID,
		"owner_id":     userID,
		"availability": shiftBus.AvailabilityOpen.String(),
		"updated_at":   now,
	}

	sh, err := s.execTransition(ctx, q, data)
	if err != nil {
		if errors.Is(err, errGuardMiss) {
			if _, qerr := s.QueryByID(ctx, shiftID); qerr != nil {
				return shiftBus.Shift{}, qerr
			}
			return shiftBus.Shift{}, shiftBus.ErrNotOwner
		}
		return shiftBus.Shift{}, err
	}

	return sh, nil
}

// errGuardMiss signals that a conditional transition matched no row.
var errGuardMiss = errors.New("transition guard matched no row")

func (s *Store) execTransition(ctx context.Context, q string, data map[string]any) (shiftBus.Shift, error) {
	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return shiftBus.Shift{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return shiftBus.Shift{}, errGuardMiss
	}

	var sh shift
	if err := rows.StructScan(&sh); err != nil {
		return shiftBus.Shift{}, fmt.Errorf("structScan: %w", err)
	}

	return toShiftBus(sh)
}

func (s *Store) QueryByID(ctx context.Context, shiftID int64) (shiftBus.Shift, error) {
	const q = `SELECT * FROM shifts WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "shift.store.queryByID")
	defer span.End()

	data := map[string]any{"id": shiftID}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return shiftBus.Shift{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return shiftBus.Shift{}, shiftBus.ErrNotFound
	}

	var sh shift
	if err := rows.StructScan(&sh); err != nil {
		return shiftBus.Shift{}, fmt.Errorf("structScan: %w", err)
	}

	return toShiftBus(sh)
}

func (s *Store) Query(ctx context.Context, filters shiftBus.QueryFilter, orderBy shiftBus.Field, page page.Page) ([]shiftBus.Shift, error) {
	data := map[string]any{
		"offset":        (page.Number - 1) * page.Rows,
		"rows_per_page": page.Rows,
	}

	const q = "SELECT * FROM shifts "
	buf := bytes.NewBufferString(q)

	applyFilters(filters, data, buf)

	orderClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, fmt.Errorf("orderByClause: %w", err)
	}

	buf.WriteString(orderClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	ctx, span := s.tracer.Start(ctx, "shift.store.query")
	defer span.End()

	var shs []shift
	rows, err := s.db.NamedQueryContext(ctx, buf.String(), data)
	if err != nil {
		return nil, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var sh shift
		if err := rows.StructScan(&sh); err != nil {
			return nil, fmt.Errorf("structScan: %w", err)
		}
		shs = append(shs, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preparing next row to scan: %w", err)
	}

	busShifts := make([]shiftBus.Shift, len(shs))
	for i, sh := range shs {
		busShifts[i], err = toShiftBus(sh)
		if err != nil {
			return nil, err
		}
	}

	return busShifts, nil
}

func (s *Store) Count(ctx context.Context, filters shiftBus.QueryFilter) (int, error) {
	const q = `SELECT COUNT(1) AS count FROM shifts`

	ctx, span := s.tracer.Start(ctx, "shift.store.count")
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
