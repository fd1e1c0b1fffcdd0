// Package ledger provides a SQLite-backed record of runs, accepted
// publications and fetched documents.
package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	status      TEXT NOT NULL DEFAULT 'running',
	summary     TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS publications (
	symbol          TEXT PRIMARY KEY,
	idempotency_key TEXT NOT NULL,
	target          TEXT NOT NULL DEFAULT '',
	status          INTEGER NOT NULL DEFAULT 0,
	stub            INTEGER NOT NULL DEFAULT 0,
	run_id          TEXT NOT NULL DEFAULT '',
	published_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
	invoice_id  TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	checksum    TEXT NOT NULL DEFAULT '',
	size        INTEGER NOT NULL DEFAULT 0,
	fetched_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_publications_run ON publications(run_id);
`

// DB wraps a sql.DB with ledger operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
