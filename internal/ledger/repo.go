package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/harvester/internal/apperr"
)

// Run is one row of the runs table.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Summary    string
}

// Publication is a contract the downstream accepted (or a stubbed one).
type Publication struct {
	Symbol         string
	IdempotencyKey string
	Target         string
	Status         int
	Stub           bool
	RunID          string
	PublishedAt    time.Time
}

// Document is a stored invoice document.
type Document struct {
	InvoiceID string
	Path      string
	Checksum  string
	Size      int64
	FetchedAt time.Time
}

// BeginRun inserts a running row and returns its id.
func (db *DB) BeginRun(startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, startedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("ledger: begin run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final status and a JSON rendering of summary.
func (db *DB) FinishRun(id, status string, summary any) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("ledger: encode summary: %w", err)
	}
	res, err := db.conn.Exec(`
		UPDATE runs SET finished_at = ?, status = ?, summary = ? WHERE id = ?
	`, time.Now().UTC(), status, string(raw), id)
	if err != nil {
		return fmt.Errorf("ledger: finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ledger: finish run %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// LastRun returns the most recently started run.
func (db *DB) LastRun() (*Run, error) {
	var r Run
	var finished sql.NullTime
	err := db.conn.QueryRow(`
		SELECT id, started_at, finished_at, status, summary
		FROM runs ORDER BY started_at DESC LIMIT 1
	`).Scan(&r.ID, &r.StartedAt, &finished, &r.Status, &r.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: last run: %w", err)
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}

// RecordPublication upserts p keyed by its reference symbol. A stubbed
// record never replaces one the downstream accepted.
func (db *DB) RecordPublication(p Publication) error {
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO publications (symbol, idempotency_key, target, status, stub, run_id, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			idempotency_key = excluded.idempotency_key,
			target          = excluded.target,
			status          = excluded.status,
			stub            = excluded.stub,
			run_id          = excluded.run_id,
			published_at    = excluded.published_at
		WHERE publications.stub = 1 OR excluded.stub = 0
	`, p.Symbol, p.IdempotencyKey, p.Target, p.Status, p.Stub, p.RunID, p.PublishedAt.UTC())
	if err != nil {
		return fmt.Errorf("ledger: record publication: %w", err)
	}
	return nil
}

// Publication returns the recorded publication for symbol.
func (db *DB) Publication(symbol string) (*Publication, error) {
	var p Publication
	err := db.conn.QueryRow(`
		SELECT symbol, idempotency_key, target, status, stub, run_id, published_at
		FROM publications WHERE symbol = ?
	`, symbol).Scan(&p.Symbol, &p.IdempotencyKey, &p.Target, &p.Status, &p.Stub, &p.RunID, &p.PublishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get publication: %w", err)
	}
	return &p, nil
}

// Published reports whether the downstream really accepted symbol.
// Stubbed publications do not count.
func (db *DB) Published(symbol string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT count(*) FROM publications WHERE symbol = ? AND stub = 0
	`, symbol).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("ledger: published: %w", err)
	}
	return n > 0, nil
}

// RecordDocument upserts the stored location of an invoice document.
func (db *DB) RecordDocument(d Document) error {
	if d.FetchedAt.IsZero() {
		d.FetchedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO documents (invoice_id, path, checksum, size, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(invoice_id) DO UPDATE SET
			path       = excluded.path,
			checksum   = excluded.checksum,
			size       = excluded.size,
			fetched_at = excluded.fetched_at
	`, d.InvoiceID, d.Path, d.Checksum, d.Size, d.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("ledger: record document: %w", err)
	}
	return nil
}

// Document returns the recorded document of invoiceID.
func (db *DB) Document(invoiceID string) (*Document, error) {
	var d Document
	err := db.conn.QueryRow(`
		SELECT invoice_id, path, checksum, size, fetched_at FROM documents WHERE invoice_id = ?
	`, invoiceID).Scan(&d.InvoiceID, &d.Path, &d.Checksum, &d.Size, &d.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get document: %w", err)
	}
	return &d, nil
}
