package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicate is returned when an insert violates a UNIQUE constraint,
// e.g. registering a username or email that is already taken.
var ErrDuplicate = errors.New("db: duplicate key")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

func Open(path string) (*sql.DB, error) {
	dbc, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases coherent and serializes writes.
	dbc.SetMaxOpenConns(1)
	return dbc, dbc.Ping()
}

func Migrate(dbc *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS users(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			image_file TEXT NOT NULL DEFAULT 'default.jpg',
			password_hash TEXT NOT NULL,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions(
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS posts(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS inquiries(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
	}
	ctx := context.Background()
	for _, s := range stmts {
		if _, err := dbc.ExecContext(ctx, s); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
