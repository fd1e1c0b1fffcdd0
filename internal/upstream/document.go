package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/starford/harvester/internal/credentials"
	"github.com/starford/harvester/internal/ledger"
)

// FetchResult describes a document download.
type FetchResult struct {
	Path     string
	Skipped  bool
	Size     int64
	Checksum string
}

// FetchDocument downloads the rendered invoice to dest. An existing dest
// is never re-downloaded. The body is streamed to a temporary sibling and
// only renamed into place once complete.
func (c *Client) FetchDocument(ctx context.Context, creds *credentials.Credentials, invoiceID, dest string) (FetchResult, *credentials.Credentials, error) {
	if c.files.Exists(dest) {
		return FetchResult{Path: dest, Skipped: true}, creds, nil
	}

	u := fmt.Sprintf("%s/%s/invoice/%s/pdf", c.base, url.PathEscape(creds.RealmID), url.PathEscape(invoiceID))
	res, err := c.do(ctx, c.docs, http.MethodGet, u, "application/pdf", creds)
	if err != nil {
		return FetchResult{}, res.Credentials, fmt.Errorf("upstream: fetch document %s: %w", invoiceID, err)
	}
	resp := res.Response
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := apiError("upstream: fetch document "+invoiceID, resp, 500)
		c.logger.Error("upstream: document download failed",
			slog.String("invoice_id", invoiceID),
			slog.Int("status", resp.StatusCode),
			slog.String("tid", resp.Header.Get(traceHeader)))
		return FetchResult{}, res.Credentials, err
	}

	n, sum, err := c.files.WriteFrom(dest, resp.Body)
	if err != nil {
		return FetchResult{}, res.Credentials, fmt.Errorf("upstream: store document %s: %w", invoiceID, err)
	}

	if c.recorder != nil {
		if err := c.recorder.RecordDocument(ledger.Document{InvoiceID: invoiceID, Path: dest, Checksum: sum, Size: n}); err != nil {
			c.logger.Warn("upstream: record document", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		}
	}
	return FetchResult{Path: dest, Size: n, Checksum: sum}, res.Credentials, nil
}
