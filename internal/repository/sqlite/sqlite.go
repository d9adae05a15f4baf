// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere
// Go works.
//
// REFERENTIAL INTEGRITY:
// The engagement model leans on the database rather than application code for
// its two hardest invariants:
//   - projects.name UNIQUE            → duplicate submissions can't race past
//     a check-then-insert; the constraint rejects the second writer
//   - likes(user_id, project_id) UNIQUE → one like per user per project, so
//     popularity counts can't be inflated by double-liking
// Foreign keys on comments and likes CASCADE on user deletion so removing a
// user never orphans engagement rows.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" at init time. sql.Open("sqlite", ...) works after this.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One struct implements all seven entity repositories — they share the pool,
// the schema, and the transaction helpers.
type DB struct {
	conn *sql.DB
}

// New creates a SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/toolshed.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping verifies the connection actually works. Without this, a bad path
	// or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is happening — needed
	// for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// Everything here depends on them being enforced.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every startup. Tables are created in FK dependency
// order: users/groups/categories first, then projects, then the engagement
// tables that reference both.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          TEXT PRIMARY KEY,
			github_id   INTEGER NOT NULL UNIQUE,
			login       TEXT NOT NULL UNIQUE,
			profile_url TEXT NOT NULL DEFAULT '',
			avatar_url  TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL UNIQUE,
			description     TEXT NOT NULL DEFAULT '',
			url             TEXT NOT NULL DEFAULT '',
			date_added      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			score           INTEGER NOT NULL DEFAULT 0,
			status          INTEGER NOT NULL DEFAULT 0,
			submitted_by_id TEXT NOT NULL REFERENCES users(id),
			group_id        TEXT REFERENCES groups(id),
			category_id     TEXT REFERENCES categories(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_submitted_by ON projects(submitted_by_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_group ON projects(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category_id)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			created    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_project ON comments(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id)`,
		`CREATE TABLE IF NOT EXISTS likes (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			UNIQUE (user_id, project_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_project ON likes(project_id)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			event      TEXT NOT NULL,
			score      INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_project ON logs(project_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on nil and rolling back on
// error. Every read-modify-write sequence in this package (submission
// duplicate check + insert, like duplicate check + insert) goes through here
// so concurrent requests can't race a check-then-insert.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		// Rollback error is secondary — the fn error is what the caller needs.
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver exposes this only through the error text, so we match
// on the constant prefix SQLite emits.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
