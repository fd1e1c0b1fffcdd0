// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes harvester tools for operators via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/ledger"
	"github.com/starford/harvester/internal/material"
	"github.com/starford/harvester/internal/storage"
)

// UnmappedReader lists material inputs no tier could map.
type UnmappedReader interface {
	ReadUnmapped() ([]material.Unmapped, error)
}

// Ledger is the read side of the run ledger.
type Ledger interface {
	Publication(symbol string) (*ledger.Publication, error)
	Document(invoiceID string) (*ledger.Document, error)
	LastRun() (*ledger.Run, error)
}

// Server wraps the MCP server with harvester tools.
type Server struct {
	mcp      *server.MCPServer
	canon    *material.Canonicalizer
	unmapped UnmappedReader
	ledger   Ledger
	files    storage.Provider
}

// New creates a new MCP server with all harvester tools registered.
func New(canon *material.Canonicalizer, unmapped UnmappedReader, l Ledger, files storage.Provider) *Server {
	s := &Server{canon: canon, unmapped: unmapped, ledger: l, files: files}

	s.mcp = server.NewMCPServer(
		"Harvester",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("canonicalize_material",
		mcp.WithDescription("Map a free-text material description to its canonical commodity label. "+
			"Reports which tier matched. Nothing is written to the unmapped list."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Material description as it appears on the invoice line")),
		mcp.WithString("customer", mcp.Description("Optional customer display name for per-customer overrides")),
	), s.canonicalizeMaterial)

	s.mcp.AddTool(mcp.NewTool("list_unmapped",
		mcp.WithDescription("List material descriptions that no mapping tier recognised during past runs."),
	), s.listUnmapped)

	s.mcp.AddTool(mcp.NewTool("lookup_publication",
		mcp.WithDescription("Show whether a contract reference symbol (e.g. 1042#0) was published downstream."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Contract reference symbol {doc_number}#{line_index}")),
	), s.lookupPublication)

	s.mcp.AddTool(mcp.NewTool("document_info",
		mcp.WithDescription("Show where an invoice document is stored and whether its checksum still matches."),
		mcp.WithString("invoice_id", mcp.Required(), mcp.Description("Upstream invoice id")),
	), s.documentInfo)

	s.mcp.AddTool(mcp.NewTool("last_run",
		mcp.WithDescription("Summary of the most recent harvest run."),
	), s.lastRun)

	s.mcp.AddTool(mcp.NewTool("get_contract_format",
		mcp.WithDescription("Returns the field reference of the contract record sent downstream."),
	), s.getContractFormat)

	s.mcp.AddResource(
		mcp.NewResource("harvester://contract-format", "Contract Format",
			mcp.WithResourceDescription("Field reference of the downstream contract record."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// Serve runs the stdio transport on in/out until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type canonicalResult struct {
	Input    string `json:"input"`
	Label    string `json:"label"`
	Tier     string `json:"tier"`
	Unmapped bool   `json:"unmapped"`
}

func (s *Server) canonicalizeMaterial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	customer := ""
	if c, err := req.RequireString("customer"); err == nil {
		customer = c
	}

	res := s.canon.Resolve(text, customer)
	return jsonResult(canonicalResult{Input: text, Label: res.Label, Tier: string(res.Tier), Unmapped: res.Unmapped})
}

func (s *Server) listUnmapped(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.unmapped.ReadUnmapped()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no unmapped materials"), nil
	}
	return jsonResult(rows)
}

type publicationResult struct {
	Symbol         string `json:"symbol"`
	IdempotencyKey string `json:"idempotency_key"`
	Target         string `json:"target"`
	Status         int    `json:"status"`
	Stub           bool   `json:"stub"`
	RunID          string `json:"run_id"`
	PublishedAt    string `json:"published_at"`
}

func (s *Server) lookupPublication(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol, err := req.RequireString("symbol")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.ledger.Publication(symbol)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not published: %s", symbol)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(publicationResult{
		Symbol:         p.Symbol,
		IdempotencyKey: p.IdempotencyKey,
		Target:         p.Target,
		Status:         p.Status,
		Stub:           p.Stub,
		RunID:          p.RunID,
		PublishedAt:    p.PublishedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func (s *Server) lastRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := s.ledger.LastRun()
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultText("no runs recorded"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := map[string]any{"id": r.ID, "status": r.Status, "started_at": r.StartedAt.UTC()}
	if r.FinishedAt != nil {
		out["finished_at"] = r.FinishedAt.UTC()
	}
	if r.Summary != "" {
		out["summary"] = json.RawMessage(r.Summary)
	}
	return jsonResult(out)
}

func (s *Server) getContractFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContractFormat), nil
}

func (s *Server) readContractFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "harvester://contract-format",
			MIMEType: "text/markdown",
			Text:     ContractFormat,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
