package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/harvester/internal/checksum"
	"github.com/starford/harvester/internal/ledger"
	"github.com/starford/harvester/internal/material"
	"github.com/starford/harvester/internal/storage"
	"github.com/starford/harvester/internal/testutil"
)

func testServer(t *testing.T) (*Server, storage.Provider, *ledger.DB, *material.CSVSink) {
	t.Helper()

	_, files := testutil.TestVault(t)
	db := testutil.TestDB(t)
	sink := material.NewCSVSink(files, "unmapped_materials.csv")
	overrides := map[string]map[string]string{"acme metals": {"turnings": "Shredded Steel"}}
	canon := material.New(material.NewTables(nil, overrides), sink, 0.88, nil)

	return New(canon, sink, db, files), files, db, sink
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "canonicalize_material":
		result, err = srv.canonicalizeMaterial(ctx, req)
	case "list_unmapped":
		result, err = srv.listUnmapped(ctx, req)
	case "lookup_publication":
		result, err = srv.lookupPublication(ctx, req)
	case "document_info":
		result, err = srv.documentInfo(ctx, req)
	case "last_run":
		result, err = srv.lastRun(ctx, req)
	case "get_contract_format":
		result, err = srv.getContractFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCanonicalizeMaterial(t *testing.T) {
	srv, files, _, _ := testServer(t)

	r := callTool(t, srv, "canonicalize_material", map[string]interface{}{"text": "Heavy Melt"})
	var got canonicalResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("decode: %v (%s)", err, resultText(r))
	}
	if got.Label != "HMS" || got.Tier != string(material.TierBuiltin) {
		t.Errorf("got %+v", got)
	}

	r = callTool(t, srv, "canonicalize_material", map[string]interface{}{"text": "turnings", "customer": "Acme Metals"})
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Label != "Shredded Steel" || got.Tier != string(material.TierOverride) {
		t.Errorf("override: got %+v", got)
	}

	r = callTool(t, srv, "canonicalize_material", map[string]interface{}{"text": "zzqx widget"})
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Unmapped || got.Label != "zzqx widget" {
		t.Errorf("miss: got %+v", got)
	}
	if files.Exists("unmapped_materials.csv") {
		t.Error("previewing a material must not write the unmapped list")
	}
}

func TestCanonicalizeMaterial_MissingText(t *testing.T) {
	srv, _, _, _ := testServer(t)
	r := callTool(t, srv, "canonicalize_material", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing text")
	}
}

func TestListUnmapped(t *testing.T) {
	srv, _, _, sink := testServer(t)

	r := callTool(t, srv, "list_unmapped", map[string]interface{}{})
	if resultText(r) != "no unmapped materials" {
		t.Errorf("empty list = %q", resultText(r))
	}

	_ = sink.Record("mystery alloy", "Acme Metals")
	r = callTool(t, srv, "list_unmapped", map[string]interface{}{})
	var rows []material.Unmapped
	if err := json.Unmarshal([]byte(resultText(r)), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].Source != "mystery alloy" || rows[0].Customer != "Acme Metals" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestLookupPublication(t *testing.T) {
	srv, _, db, _ := testServer(t)

	r := callTool(t, srv, "lookup_publication", map[string]interface{}{"symbol": "500#0"})
	if !r.IsError {
		t.Error("expected error for unknown symbol")
	}

	if err := db.RecordPublication(ledger.Publication{Symbol: "500#0", IdempotencyKey: "upstream:500#0", Status: 201, RunID: "run-1"}); err != nil {
		t.Fatal(err)
	}
	r = callTool(t, srv, "lookup_publication", map[string]interface{}{"symbol": "500#0"})
	var got publicationResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != 201 || got.RunID != "run-1" || got.IdempotencyKey != "upstream:500#0" {
		t.Errorf("got %+v", got)
	}
}

func TestDocumentInfo(t *testing.T) {
	srv, files, db, _ := testServer(t)
	content := []byte("%PDF-1.4 invoice")
	_ = files.Write("documents/Acme/INV-130.pdf", content)
	if err := db.RecordDocument(ledger.Document{InvoiceID: "130", Path: "documents/Acme/INV-130.pdf", Checksum: checksum.Sum(content), Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "document_info", map[string]interface{}{"invoice_id": "130"})
	var got documentResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Present || !got.Intact {
		t.Errorf("got %+v", got)
	}

	_ = files.Write("documents/Acme/INV-130.pdf", []byte("truncated"))
	r = callTool(t, srv, "document_info", map[string]interface{}{"invoice_id": "130"})
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Intact {
		t.Error("modified document reported intact")
	}
}

func TestLastRun(t *testing.T) {
	srv, _, db, _ := testServer(t)

	r := callTool(t, srv, "last_run", map[string]interface{}{})
	if resultText(r) != "no runs recorded" {
		t.Errorf("empty ledger = %q", resultText(r))
	}

	id, err := db.BeginRun(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.FinishRun(id, "ok", map[string]int{"rows_resolved": 3}); err != nil {
		t.Fatal(err)
	}
	r = callTool(t, srv, "last_run", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, id) || !strings.Contains(text, `"rows_resolved": 3`) {
		t.Errorf("last run = %s", text)
	}
}

func TestGetContractFormat(t *testing.T) {
	srv, _, _, _ := testServer(t)
	r := callTool(t, srv, "get_contract_format", map[string]interface{}{})
	if !strings.Contains(resultText(r), "reference_symbol") {
		t.Error("format reference missing fields")
	}
}
