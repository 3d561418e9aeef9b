// Package roledb persists roles in Postgres.
package roledb

import (
	"context"
	"errors"
	"fmt"

	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

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

func (s *Store) Create(ctx context.Context, role roleBus.Role) (int64, error) {
	const q = `
	INSERT INTO roles (name, description)
	VALUES (:name, :description)
	RETURNING id
	`

	ctx, span := s.tracer.Start(ctx, "role.store.create")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, q, fromBusRole(role))
	if err != nil {
		var pgerror *pgconn.PgError
		if errors.As(err, &pgerror) {
			if pgerror.Code == uniqueViolation {
				return 0, roleBus.ErrDuplicatedName
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

func (s *Store) Delete(ctx context.Context, roleID int64) error {
	const q = `DELETE FROM roles WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "role.store.delete")
	defer span.End()

	data := map[string]any{"id": roleID}

	res, err := s.db.NamedExecContext(ctx, q, data)
	if err != nil {
		var pgerror *pgconn.PgError
		if errors.As(err, &pgerror) {
			//restricted by referencing users or shifts
			if pgerror.Code == foreignKeyViolation {
				return roleBus.ErrRoleInUse
			}
		}
		return fmt.Errorf("namedExecContext: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowsAffected: %w", err)
	}

	if affected == 0 {
		return roleBus.ErrNotFound
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, roleID int64) (roleBus.Role, error) {
	const q = `SELECT * FROM roles WHERE id = :id`

	ctx, span := s.tracer.Start(ctx, "role.store.queryByID")
	defer span.End()

	data := map[string]any{"id": roleID}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return roleBus.Role{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return roleBus.Role{}, roleBus.ErrNotFound
	}

	var r role
	if err := rows.StructScan(&r); err != nil {
		return roleBus.Role{}, fmt.Errorf("structScan: %w", err)
	}

	return toRoleBus(r), nil
}

func (s *Store) Query(ctx context.Context) ([]roleBus.Role, error) {
	const q = `SELECT * FROM roles ORDER BY id ASC`

	ctx, span := s.tracer.Start(ctx, "role.store.query")
	defer span.End()

	var rr []role
	rows, err := s.db.NamedQueryContext(ctx, q, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var r role
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("structScan: %w", err)
		}
		rr = append(rr, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preparing next row to scan: %w", err)
	}

	busRoles := make([]roleBus.Role, len(rr))
	for i, r := range rr {
		busRoles[i] = toRoleBus(r)
	}

	return busRoles, nil
}
