// Package publisher posts contracts to the downstream marketplace. A
// failed publish is reported in the Outcome and never stops the caller.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/contract"
	"github.com/starford/harvester/internal/ledger"
	"github.com/starford/harvester/internal/models"
)

// Target selects the downstream base URL.
type Target string

const (
	TargetBuyer  Target = "buyer"
	TargetSeller Target = "seller"
	TargetAuto   Target = "auto"
)

// ImportHistorical backdates downstream records to the transaction date.
const ImportHistorical = "historical"

const bodyLogLimit = 200

// Ledger is the slice of the run ledger the publisher uses.
type Ledger interface {
	RecordPublication(p ledger.Publication) error
	Published(symbol string) (bool, error)
}

// Options configures a Publisher.
type Options struct {
	BuyerBase     string
	SellerBase    string
	Target        Target
	Username      string
	Password      string
	Enabled       bool
	Disabled      bool
	Env           string
	ImportMode    string
	Source        string
	Timeout       time.Duration
	SkipPublished bool
	Ledger        Ledger
	Logger        *slog.Logger
	Transport     http.RoundTripper
}

// Outcome reports what happened to one contract.
type Outcome struct {
	Symbol  string
	Key     string
	Target  string
	Status  int
	OK      bool
	Stub    bool
	Skipped bool
	Err     error
}

// Publisher sends contracts downstream.
type Publisher struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
	runID  string
}

// New creates a Publisher with its own cookie jar for the login session.
func New(opts Options) (*Publisher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("publisher: cookie jar: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 25 * time.Second
	}
	if opts.Target == "" {
		opts.Target = TargetSeller
	}
	if opts.Source == "" {
		opts.Source = "upstream"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout, Jar: jar, Transport: opts.Transport},
		logger: logger,
	}, nil
}

// SetRunID tags subsequent ledger records.
func (p *Publisher) SetRunID(id string) { p.runID = id }

// Stubbed reports whether publishing is short-circuited.
func (p *Publisher) Stubbed() bool {
	env := strings.ToLower(p.opts.Env)
	return !p.opts.Enabled || p.opts.Disabled || env == "ci" || env == "test"
}

// BaseFor returns the downstream base for a document type.
func BaseFor(target Target, buyerBase, sellerBase, docType string) string {
	switch target {
	case TargetBuyer:
		return buyerBase
	case TargetSeller:
		return sellerBase
	}
	switch strings.ToLower(docType) {
	case "invoice", "payment", "bill":
		return sellerBase
	}
	return buyerBase
}

// Login opens a downstream session when credentials are configured.
func (p *Publisher) Login(ctx context.Context) error {
	if p.opts.Username == "" || p.opts.Password == "" || p.Stubbed() {
		return nil
	}
	base := strings.TrimRight(BaseFor(p.opts.Target, p.opts.BuyerBase, p.opts.SellerBase, ""), "/")
	body, _ := json.Marshal(map[string]string{"username": p.opts.Username, "password": p.opts.Password})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("publisher: login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publisher: login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, bodyLogLimit))
		return &apperr.APIError{Op: "publisher: login", Status: resp.StatusCode, Body: string(text)}
	}
	p.logger.Info("publisher: logged in", slog.String("base", base))
	return nil
}

// CreatedAt normalises a transaction date for the backdating header: a bare
// date becomes midnight UTC and an RFC 3339 instant is converted to UTC.
func CreatedAt(txnDate string) string {
	s := strings.TrimSpace(txnDate)
	if s == "" {
		return ""
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d.Format("2006-01-02") + "T00:00:00Z"
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC().Format(time.RFC3339)
	}
	return s
}

// Publish posts c. It never returns an error; failures live in Outcome.
func (p *Publisher) Publish(ctx context.Context, c models.Contract, txnDate string) Outcome {
	out := Outcome{
		Symbol: c.ReferenceSymbol,
		Key:    contract.IdempotencyKey(p.opts.Source, c.ReferenceSymbol),
	}

	if p.Stubbed() {
		p.logger.Debug("publisher: skipped, publishing disabled", slog.String("symbol", out.Symbol))
		out.OK, out.Stub = true, true
		p.record(out)
		return out
	}

	if p.opts.SkipPublished && p.opts.Ledger != nil {
		done, err := p.opts.Ledger.Published(out.Symbol)
		if err != nil {
			p.logger.Warn("publisher: ledger lookup", slog.String("symbol", out.Symbol), slog.String("error", err.Error()))
		} else if done {
			p.logger.Debug("publisher: already published", slog.String("symbol", out.Symbol))
			out.OK, out.Skipped = true, true
			return out
		}
	}

	base := strings.TrimRight(BaseFor(p.opts.Target, p.opts.BuyerBase, p.opts.SellerBase, "invoice"), "/")
	out.Target = base
	payload, err := json.Marshal(c)
	if err != nil {
		out.Err = fmt.Errorf("publisher: encode %s: %w", out.Symbol, err)
		return out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/contracts", bytes.NewReader(payload))
	if err != nil {
		out.Err = fmt.Errorf("publisher: build request: %w", err)
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", out.Key)
	if strings.EqualFold(p.opts.ImportMode, ImportHistorical) {
		req.Header.Set("X-Import-Mode", ImportHistorical)
		if ts := CreatedAt(txnDate); ts != "" {
			req.Header.Set("X-Import-Created-At", ts)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		out.Err = fmt.Errorf("publisher: post %s: %w", out.Symbol, err)
		p.logger.Error("publisher: post failed", slog.String("symbol", out.Symbol), slog.String("error", err.Error()))
		return out
	}
	defer resp.Body.Close()
	out.Status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		body := apperr.Truncate(string(text), bodyLogLimit)
		out.Err = &apperr.APIError{Op: "publisher: post " + out.Symbol, Status: resp.StatusCode, Body: body}
		p.logger.Error("publisher: contract rejected",
			slog.String("symbol", out.Symbol),
			slog.Int("status", resp.StatusCode),
			slog.String("body", body))
		return out
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	out.OK = true
	p.record(out)
	return out
}

func (p *Publisher) record(out Outcome) {
	if p.opts.Ledger == nil {
		return
	}
	err := p.opts.Ledger.RecordPublication(ledger.Publication{
		Symbol:         out.Symbol,
		IdempotencyKey: out.Key,
		Target:         out.Target,
		Status:         out.Status,
		Stub:           out.Stub,
		RunID:          p.runID,
	})
	if err != nil {
		p.logger.Warn("publisher: record publication", slog.String("symbol", out.Symbol), slog.String("error", err.Error()))
	}
}
