// Package userdb persists users in Postgres.
package userdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	usrBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/page"
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

func (s *Store) Create(ctx context.Context, usr usrBus.User) (int64, error) {
	const q = `
	INSERT INTO users (username, password_hash, email, first_name, last_name, phone, role_id, created_at, updated_at)
	VALUES (:username, :password_hash, :email, :first_name, :last_name, :phone, :role_id, :created_at, :updated_at)
	RETURNING id
	`

	ctx, span := s.tracer.Start(ctx, "user.store.create")
	defer span.End()

	rows, err := s.db.NamedQueryContext(ctx, q, fromBusUser(usr))
	if err != nil {
		return 0, mapConstraintErr(err)
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

func (s *Store) Update(ctx context.Context, usr usrBus.User) error {
	const q = `
	UPDATE users
	SET
		email = :email,
		password_hash = :password_hash,
		first_name = :first_name,
		last_name = :last_name,
		phone = :phone,
		role_id = :role_id,
		updated_at = :updated_at
	WHERE
		id = :id
	`

	ctx, span := s.tracer.Start(ctx, "user.store.update")
	defer span.End()

	if _, err := s.db.NamedExecContext(ctx, q, fromBusUser(usr)); err != nil {
		return mapConstraintErr(err)
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, userID int64) (usrBus.User, error) {
	const q = `
	SELECT u.*, r.name AS role_name
	FROM users u
	JOIN roles r ON r.id = u.role_id
	WHERE u.id = :id
	`

	ctx, span := s.tracer.Start(ctx, "user.store.queryByID")
	defer span.End()

	data := map[string]any{"id": userID}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return usrBus.User{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return usrBus.User{}, usrBus.ErrNotFound
	}

	var usr user
	if err := rows.StructScan(&usr); err != nil {
		return usrBus.User{}, fmt.Errorf("structScan: %w", err)
	}

	return toUserBus(usr), nil
}

func (s *Store) QueryByUsername(ctx context.Context, username string) (usrBus.User, error) {
	const q = `
	SELECT u.*, r.name AS role_name
	FROM users u
	JOIN roles r ON r.id = u.role_id
	WHERE u.username = :username
	`

	ctx, span := s.tracer.Start(ctx, "user.store.queryByUsername")
	defer span.End()

	data := map[string]any{"username": username}

	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return usrBus.User{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	if !rows.Next() {
		return usrBus.User{}, usrBus.ErrNotFound
	}

	var usr user
	if err := rows.StructScan(&usr); err != nil {
		return usrBus.User{}, fmt.Errorf("structScan: %w", err)
	}

	return toUserBus(usr), nil
}

func (s *Store) Query(ctx context.Context, filters usrBus.QueryFilter, orderBy usrBus.Field, page page.Page) ([]usrBus.User, error) {
	data := map[string]any{
		"offset":        (page.Number - 1) * page.Rows,
		"rows_per_page": page.Rows,
	}

	const q = `
	SELECT u.*, r.name AS role_name
	FROM users u
	JOIN roles r ON r.id = u.role_id
	`
	buf := bytes.NewBufferString(q)

	applyFilters(filters, data, buf)

	orderClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, fmt.Errorf("orderByClause: %w", err)
	}

	buf.WriteString(orderClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	ctx, span := s.tracer.Start(ctx, "user.store.query")
	defer span.End()

	var usrs []user
	rows, err := s.db.NamedQueryContext(ctx, buf.String(), data)
	if err != nil {
		return nil, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var usr user
		if err := rows.StructScan(&usr); err != nil {
			return nil, fmt.Errorf("structScan: %w", err)
		}
		usrs = append(usrs, usr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preparing next row to scan: %w", err)
	}

	busUsers := make([]usrBus.User, len(usrs))
	for i, usr := range usrs {
		busUsers[i] = toUserBus(usr)
	}

	return busUsers, nil
}

func (s *Store) Count(ctx context.Context, filters usrBus.QueryFilter) (int, error) {
	const q = `SELECT COUNT(1) AS count FROM users u`

	ctx, span := s.tracer.Start(ctx, "user.store.count")
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

// mapConstraintErr translates the pg constraint failures this table can raise
// into the bus sentinels.
func mapConstraintErr(err error) error {
	var pgerror *pgconn.PgError
	if errors.As(err, &pgerror) {
		switch pgerror.Code {
		case uniqueViolation:
			if strings.Contains(pgerror.ConstraintName, "email") {
				return usrBus.ErrDuplicatedEmail
			}
			return usrBus.ErrDuplicatedUsername
		case foreignKeyViolation:
			return usrBus.ErrUnknownRole
		}
	}

	return fmt.Errorf("namedExecContext: %w", err)
}
