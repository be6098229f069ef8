// Package database opens the SQL databases backing the profile stores: a local
// SQLite file that caches profiles on the device host, and an optional Postgres
// database used as the remote store when Firestore is not configured.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// OpenSQLite opens (creating if needed) the SQLite file at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	if path == "" {
		path = "filif.db"
	}
	db, err := sqlx.ConnectContext(ctx, DriverSQLite, path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	// SQLite serializes writers; a single connection avoids "database is locked".
	db.SetMaxOpenConns(1)
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres connects to the Postgres database at url and applies the schema.
func OpenPostgres(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverPostgres, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables if they do not exist. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func schema(driver string) []string {
	ts := "TIMESTAMP"
	if driver == DriverPostgres {
		ts = "TIMESTAMPTZ"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			name TEXT NOT NULL,
			avatar TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 1,
			last_challenge_date TEXT NOT NULL DEFAULT '',
			last_art_date TEXT NOT NULL DEFAULT '',
			last_video_date TEXT NOT NULL DEFAULT '',
			unlocked_items TEXT NOT NULL DEFAULT '[]',
			favorites TEXT NOT NULL DEFAULT '[]',
			gallery TEXT NOT NULL DEFAULT '[]',
			paintings TEXT NOT NULL DEFAULT '[]',
			recordings TEXT NOT NULL DEFAULT '[]',
			art_mission_theme TEXT NOT NULL DEFAULT '',
			verse_challenge TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_account_id ON profiles (account_id)`,
		`CREATE TABLE IF NOT EXISTS shop_prices (
			item_id TEXT PRIMARY KEY,
			price INTEGER NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
	}
}
