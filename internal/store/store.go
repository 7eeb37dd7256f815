// Package store implements the relational persistence layer on an
// in-process SQLite database. The default DSN keeps the database in
// memory, so all data lives only for the process lifetime. That is an
// intentional property of this service, not a defect.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN is the default data source: a named in-memory database with
// a shared cache so every pooled connection sees the same data, and
// foreign keys enforced for the tasks -> users cascade.
const MemoryDSN = "file:taskflow?mode=memory&cache=shared&_foreign_keys=on"

// Store handles user and task persistence.
type Store struct {
	db *sql.DB
}

// Open connects to the database and verifies the connection. The pool is
// capped at a single connection: SQLite executes statements serially
// anyway, and one connection keeps the in-memory database alive for the
// whole process.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates the users and tasks tables and their indexes. Idempotent:
// existing tables are left untouched.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT    NOT NULL UNIQUE,
			password_hash TEXT    NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT    NOT NULL CHECK (length(title) BETWEEN 1 AND 255),
			description TEXT    NOT NULL DEFAULT '' CHECK (length(description) <= 1000),
			status      TEXT    NOT NULL DEFAULT 'pending'
			            CHECK (status IN ('pending', 'completed')),
			priority    TEXT    NOT NULL DEFAULT 'medium'
			            CHECK (priority IN ('low', 'medium', 'high')),
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_users_email    ON users(email);
		CREATE INDEX IF NOT EXISTS idx_tasks_user_id  ON tasks(user_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_status   ON tasks(status);
		CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
	`)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// BeginTx returns a transaction for multi-statement operations. No current
// endpoint needs one; the accessor exists so future operations don't have
// to reach into the raw handle.
func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// Ping reports store connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying handle. For the in-memory DSN this also
// discards all data.
func (s *Store) Close() error {
	return s.db.Close()
}
