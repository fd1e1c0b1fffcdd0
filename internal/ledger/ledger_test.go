package ledger

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/starford/harvester/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "harvester-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"runs", "publications", "documents"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestRunLifecycle(t *testing.T) {
	db := testDB(t)
	if _, err := db.LastRun(); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("LastRun on empty db: %v", err)
	}

	id, err := db.BeginRun(time.Now())
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := db.FinishRun(id, "ok", map[string]int{"contracts_built": 3}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	run, err := db.LastRun()
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if run.ID != id || run.Status != "ok" || run.FinishedAt == nil {
		t.Errorf("run = %+v", run)
	}
	if !strings.Contains(run.Summary, `"contracts_built":3`) {
		t.Errorf("summary = %s", run.Summary)
	}
}

func TestFinishRun_Unknown(t *testing.T) {
	db := testDB(t)
	if err := db.FinishRun("nope", "ok", nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestPublications(t *testing.T) {
	db := testDB(t)

	ok, err := db.Published("1042#0")
	if err != nil || ok {
		t.Fatalf("Published on empty db = %v, %v", ok, err)
	}

	_ = db.RecordPublication(Publication{Symbol: "1042#0", IdempotencyKey: "upstream:1042#0", Target: "buyer", Status: 201})
	_ = db.RecordPublication(Publication{Symbol: "1042#1", IdempotencyKey: "upstream:1042#1", Stub: true})

	if ok, _ := db.Published("1042#0"); !ok {
		t.Error("accepted publication not reported")
	}
	if ok, _ := db.Published("1042#1"); ok {
		t.Error("stubbed publication must not count as published")
	}

	p, err := db.Publication("1042#0")
	if err != nil {
		t.Fatalf("Publication: %v", err)
	}
	if p.IdempotencyKey != "upstream:1042#0" || p.Status != 201 || p.Target != "buyer" {
		t.Errorf("publication = %+v", p)
	}
	if _, err := db.Publication("missing#0"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing publication err = %v", err)
	}
}

func TestRecordPublication_Upsert(t *testing.T) {
	db := testDB(t)
	_ = db.RecordPublication(Publication{Symbol: "7#0", IdempotencyKey: "upstream:7#0", Stub: true})
	_ = db.RecordPublication(Publication{Symbol: "7#0", IdempotencyKey: "upstream:7#0", Status: 200})

	if ok, _ := db.Published("7#0"); !ok {
		t.Error("second record should replace the stub")
	}
}

func TestRecordPublication_StubKeepsAcceptedRow(t *testing.T) {
	db := testDB(t)
	if err := db.RecordPublication(Publication{Symbol: "7#0", IdempotencyKey: "upstream:7#0", Target: "seller", Status: 201, RunID: "run-1"}); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordPublication(Publication{Symbol: "7#0", IdempotencyKey: "upstream:7#0", Stub: true, RunID: "run-2"}); err != nil {
		t.Fatalf("stub record: %v", err)
	}

	if ok, _ := db.Published("7#0"); !ok {
		t.Error("a stubbed run must not demote an accepted publication")
	}
	p, err := db.Publication("7#0")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stub || p.Status != 201 || p.RunID != "run-1" {
		t.Errorf("publication = %+v", p)
	}
}

func TestDocuments(t *testing.T) {
	db := testDB(t)
	d := Document{InvoiceID: "130", Path: "documents/Acme/INV-130.pdf", Checksum: "abc", Size: 12}
	if err := db.RecordDocument(d); err != nil {
		t.Fatalf("RecordDocument: %v", err)
	}
	got, err := db.Document("130")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if got.Path != d.Path || got.Checksum != "abc" || got.Size != 12 {
		t.Errorf("document = %+v", got)
	}
	if _, err := db.Document("999"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
