package ledger

import "time"

// Ledger records what a run did so that later runs and operators can
// consult it. Consumers depend on this interface rather than *DB.
type Ledger interface {
	BeginRun(startedAt time.Time) (string, error)
	FinishRun(id, status string, summary any) error
	LastRun() (*Run, error)
	RecordPublication(p Publication) error
	Publication(symbol string) (*Publication, error)
	Published(symbol string) (bool, error)
	RecordDocument(d Document) error
	Document(invoiceID string) (*Document, error)
	Close() error
}

// Verify *DB satisfies Ledger at compile time.
var _ Ledger = (*DB)(nil)
