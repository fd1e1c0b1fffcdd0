package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/checksum"
)

type documentResult struct {
	InvoiceID string `json:"invoice_id"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Checksum  string `json:"checksum"`
	FetchedAt string `json:"fetched_at"`
	Present   bool   `json:"present"`
	Intact    bool   `json:"intact"`
}

// documentInfo reports the ledger entry of a stored invoice document and
// re-hashes the file to detect tampering or truncation.
func (s *Server) documentInfo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("invoice_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.ledger.Document(id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no document recorded for invoice %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := documentResult{
		InvoiceID: d.InvoiceID,
		Path:      d.Path,
		Size:      d.Size,
		Checksum:  d.Checksum,
		FetchedAt: d.FetchedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if s.files != nil && s.files.Exists(d.Path) {
		out.Present = true
		if data, err := s.files.Read(d.Path); err == nil {
			out.Intact = checksum.Sum(data) == d.Checksum
		}
	}
	return jsonResult(out)
}
