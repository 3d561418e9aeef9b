package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
)

// SeedRole inserts a role directly and returns its id. Tests for the other
// domains need one to satisfy the role_id references.
func SeedRole(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()

	const q = `INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := db.QueryRowContext(context.Background(), q, name, "seeded for tests").Scan(&id); err != nil {
		t.Fatalf("seeding role %s: %s", name, err)
	}

	return id
}

// SeedUser inserts a user directly and returns its id. The password hash is
// not a real bcrypt hash, tests that authenticate have to create users
// through the bus instead.
func SeedUser(t *testing.T, db *sqlx.DB, username string, roleID int64) int64 {
	t.Helper()

	const q = `
	INSERT INTO users (username, email, password_hash, first_name, last_name, phone, role_id, created_at, updated_at)
	VALUES ($1, $2, $3, '', '', '', $4, now(), now())
	RETURNING id
	`

	var id int64
	err := db.QueryRowContext(context.Background(), q, username, username+"@example.com", []byte("x"), roleID).Scan(&id)
	if err != nil {
		t.Fatalf("seeding user %s: %s", username, err)
	}

	return id
}
