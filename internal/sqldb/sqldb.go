// Package sqldb provides support for opening and checking the Postgres
// connection every store layer runs on.
package sqldb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Config holds what is required to open a connection.
type Config struct {
	User         string
	Password     string
	Host         string
	Name         string
	Schema       string
	MaxIdleConns int
	MaxOpenConns int
	DisableTLS   bool
}

// Open creates a sqlx handle against the configured database. The connection
// is lazy, call ConnCheck to verify it actually works.
func Open(cfg Config) (*sqlx.DB, error) {
	sslmode := "require"
	if cfg.DisableTLS {
		sslmode = "disable"
	}

	q := make(url.Values)
	q.Set("sslmode", sslmode)
	q.Set("timezone", "utc")

	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}

	uri := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host,
		Path:     cfg.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Open("pgx", uri.String())
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	return db, nil
}

// ConnCheck pings the database until it answers or the deadline passes, then
// runs a round trip through the sql engine.
func ConnCheck(ctx context.Context, db *sqlx.DB) error {
	//make sure the ctx carries a deadline, slow machines included
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
	}

	for attempt := 1; ; attempt++ {
		pingErr := db.PingContext(ctx)
		if pingErr == nil {
			break
		}

		d := time.Duration(attempt) * 100 * time.Millisecond
		time.Sleep(d)

		if ctx.Err() != nil {
			return fmt.Errorf("deadline exceeded: %s: %w", ctx.Err(), pingErr)
		}
	}

	var res bool
	if err := db.QueryRowContext(ctx, "SELECT TRUE").Scan(&res); err != nil {
		return fmt.Errorf("check sql engine: %w", err)
	}

	return nil
}
