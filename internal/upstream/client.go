// Package upstream talks to the accounting API: paginated queries and
// invoice document downloads, each retried once after a token refresh.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/credentials"
	"github.com/starford/harvester/internal/ledger"
	"github.com/starford/harvester/internal/models"
	"github.com/starford/harvester/internal/storage"
)

// traceHeader carries the upstream request id used in support tickets.
const traceHeader = "intuit_tid"

// Options configures a Client.
type Options struct {
	BaseURL         string
	MinorVersion    int
	PageSize        int
	ScanLimit       int
	RatePerMinute   int
	RequestTimeout  time.Duration
	DocumentTimeout time.Duration

	Refresher credentials.Refresher
	Files     storage.Provider
	Documents DocumentRecorder
	Logger    *slog.Logger

	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

// DocumentRecorder persists where a document was stored.
type DocumentRecorder interface {
	RecordDocument(d ledger.Document) error
}

// Client is the upstream query engine and document fetcher.
type Client struct {
	base         string
	minorVersion int
	pageSize     int
	scanLimit    int

	api       *http.Client
	docs      *http.Client
	limiter   *rate.Limiter
	refresher credentials.Refresher
	files     storage.Provider
	recorder  DocumentRecorder
	logger    *slog.Logger
}

// New creates a Client from opts.
func New(opts Options) *Client {
	c := &Client{
		base:         strings.TrimRight(opts.BaseURL, "/"),
		minorVersion: opts.MinorVersion,
		pageSize:     opts.PageSize,
		scanLimit:    opts.ScanLimit,
		refresher:    opts.Refresher,
		files:        opts.Files,
		recorder:     opts.Documents,
		logger:       opts.Logger,
	}
	if c.pageSize <= 0 {
		c.pageSize = 500
	}
	if c.scanLimit <= 0 {
		c.scanLimit = 1000
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	reqTimeout := opts.RequestTimeout
	if reqTimeout <= 0 {
		reqTimeout = 30 * time.Second
	}
	docTimeout := opts.DocumentTimeout
	if docTimeout <= 0 {
		docTimeout = 120 * time.Second
	}
	c.api = &http.Client{Timeout: reqTimeout, Transport: opts.Transport}
	c.docs = &http.Client{Timeout: docTimeout, Transport: opts.Transport}

	if opts.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return c
}

// sendFunc issues one request with the given credentials.
type sendFunc func(ctx context.Context, creds *credentials.Credentials) (*http.Response, error)

// Result is a response together with the credentials that produced it.
type Result struct {
	Response    *http.Response
	Credentials *credentials.Credentials
}

// withAuthRetry sends once and, on 401, refreshes exactly once and replays
// the identical request. A second 401 is returned to the caller as is.
func withAuthRetry(ctx context.Context, creds *credentials.Credentials, refresher credentials.Refresher, send sendFunc) (Result, error) {
	resp, err := send(ctx, creds)
	if err != nil {
		return Result{Credentials: creds}, err
	}
	if resp.StatusCode != http.StatusUnauthorized || refresher == nil {
		return Result{Response: resp, Credentials: creds}, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	next, err := refresher.Refresh(ctx, creds)
	if err != nil {
		return Result{Credentials: creds}, err
	}
	resp, err = send(ctx, next)
	if err != nil {
		return Result{Credentials: next}, err
	}
	return Result{Response: resp, Credentials: next}, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, rawURL, accept string, creds *credentials.Credentials) (Result, error) {
	send := func(ctx context.Context, cr *credentials.Credentials) (*http.Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+cr.AccessToken)
		req.Header.Set("Accept", accept)
		return hc.Do(req)
	}
	return withAuthRetry(ctx, creds, c.refresher, send)
}

// apiError drains resp and builds the error for a non-2xx status.
func apiError(op string, resp *http.Response, limit int) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(limit)))
	e := &apperr.APIError{
		Op:      op,
		Status:  resp.StatusCode,
		TraceID: resp.Header.Get(traceHeader),
		Body:    string(body),
	}
	if resp.StatusCode == http.StatusUnauthorized {
		e.Err = apperr.ErrUnauthorized
	}
	return e
}

// QueryResult is the QueryResponse object of the query endpoint.
type QueryResult struct {
	Invoice       []models.Invoice  `json:"Invoice"`
	Customer      []models.Customer `json:"Customer"`
	StartPosition int               `json:"startPosition"`
	MaxResults    int               `json:"maxResults"`
}

type queryEnvelope struct {
	QueryResponse QueryResult `json:"QueryResponse"`
}

// Query runs one query expression. The returned credentials are the ones
// in effect after the call and must replace the caller's copy.
func (c *Client) Query(ctx context.Context, creds *credentials.Credentials, expr string) (QueryResult, *credentials.Credentials, error) {
	q := url.Values{}
	q.Set("query", expr)
	if c.minorVersion > 0 {
		q.Set("minorversion", strconv.Itoa(c.minorVersion))
	}
	u := fmt.Sprintf("%s/%s/query?%s", c.base, url.PathEscape(creds.RealmID), q.Encode())

	res, err := c.do(ctx, c.api, http.MethodGet, u, "application/json", creds)
	if err != nil {
		return QueryResult{}, res.Credentials, fmt.Errorf("upstream: query: %w", err)
	}
	resp := res.Response
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := apiError("upstream: query", resp, 2000)
		c.logger.Error("upstream: query failed",
			slog.Int("status", resp.StatusCode),
			slog.String("tid", resp.Header.Get(traceHeader)),
			slog.String("error", err.Error()))
		return QueryResult{}, res.Credentials, err
	}

	var env queryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return QueryResult{}, res.Credentials, fmt.Errorf("upstream: decode query response: %w", err)
	}
	return env.QueryResponse, res.Credentials, nil
}

// paginate re-issues base with an increasing STARTPOSITION until a page
// comes back empty.
func paginate[T any](ctx context.Context, c *Client, creds *credentials.Credentials, base string, pick func(QueryResult) []T) ([]T, *credentials.Credentials, error) {
	var all []T
	start := 1
	for {
		expr := fmt.Sprintf("%s STARTPOSITION %d MAXRESULTS %d", base, start, c.pageSize)
		res, next, err := c.Query(ctx, creds, expr)
		creds = next
		if err != nil {
			return all, creds, err
		}
		page := pick(res)
		if len(page) == 0 {
			return all, creds, nil
		}
		all = append(all, page...)
		start += len(page)
	}
}
