package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/credentials"
	"github.com/starford/harvester/internal/testutil"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(_ context.Context, c *credentials.Credentials) (*credentials.Credentials, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &credentials.Credentials{AccessToken: "fresh", RefreshToken: "rt-2", RealmID: c.RealmID}, nil
}

func newClient(t *testing.T, srv *httptest.Server, ref credentials.Refresher) *Client {
	t.Helper()
	_, files := testutil.TestVault(t)
	return New(Options{
		BaseURL:      srv.URL + "/v3/company",
		MinorVersion: 73,
		PageSize:     2,
		ScanLimit:    1000,
		Refresher:    ref,
		Files:        files,
	})
}

func writeQuery(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"QueryResponse": body})
}

func TestQuery_RefreshesOnceOn401(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeQuery(w, map[string]any{"Customer": []map[string]string{{"Id": "7", "DisplayName": "Acme"}}})
	}))
	defer srv.Close()

	ref := &countingRefresher{}
	c := newClient(t, srv, ref)
	res, next, err := c.Query(context.Background(), &credentials.Credentials{AccessToken: "stale", RealmID: "9130"}, "SELECT * FROM Customer")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Customer) != 1 || res.Customer[0].ID != "7" {
		t.Errorf("result = %+v", res)
	}
	if next.AccessToken != "fresh" || next.RealmID != "9130" {
		t.Errorf("credentials not replaced: %+v", next)
	}
	if ref.calls.Load() != 1 || calls.Load() != 2 {
		t.Errorf("refresh calls = %d, requests = %d", ref.calls.Load(), calls.Load())
	}
}

func TestQuery_Second401IsFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("intuit_tid", "tid-42")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ref := &countingRefresher{}
	c := newClient(t, srv, ref)
	_, next, err := c.Query(context.Background(), &credentials.Credentials{AccessToken: "stale", RealmID: "9130"}, "SELECT 1")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 401 || apiErr.TraceID != "tid-42" {
		t.Errorf("api error = %+v", apiErr)
	}
	if ref.calls.Load() != 1 || calls.Load() != 2 {
		t.Errorf("refresh calls = %d, requests = %d", ref.calls.Load(), calls.Load())
	}
	if next.AccessToken != "fresh" {
		t.Error("refreshed credentials must still be handed back")
	}
}

func TestQuery_RefreshFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newClient(t, srv, &countingRefresher{err: apperr.ErrTokenExchange})
	_, _, err := c.Query(context.Background(), &credentials.Credentials{AccessToken: "stale", RealmID: "1"}, "SELECT 1")
	if !apperr.IsCredentialFailure(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestQuery_ServerErrorCarriesStatusAndTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("intuit_tid", "tid-9")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Fault":{"Error":[{"Message":"parse error"}]}}`))
	}))
	defer srv.Close()

	ref := &countingRefresher{}
	c := newClient(t, srv, ref)
	_, _, err := c.Query(context.Background(), &credentials.Credentials{AccessToken: "a", RealmID: "1"}, "SELECT 1")
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "tid-9") || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("error text = %q", err.Error())
	}
	if ref.calls.Load() != 0 {
		t.Error("non-auth failures must not refresh")
	}
}

func TestQuery_URLShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/company/9130/query" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("minorversion") != "73" {
			t.Errorf("minorversion = %q", r.URL.Query().Get("minorversion"))
		}
		if r.URL.Query().Get("query") != "SELECT 1" {
			t.Errorf("query = %q", r.URL.Query().Get("query"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("accept = %q", r.Header.Get("Accept"))
		}
		writeQuery(w, map[string]any{})
	}))
	defer srv.Close()

	c := newClient(t, srv, nil)
	if _, _, err := c.Query(context.Background(), &credentials.Credentials{AccessToken: "a", RealmID: "9130"}, "SELECT 1"); err != nil {
		t.Fatal(err)
	}
}

func TestInvoicesForCustomer_PaginatesUntilEmpty(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()
		switch {
		case strings.HasSuffix(q, "STARTPOSITION 1 MAXRESULTS 2"):
			writeQuery(w, map[string]any{"Invoice": []map[string]any{{"Id": "1"}, {"Id": "2"}}})
		case strings.HasSuffix(q, "STARTPOSITION 3 MAXRESULTS 2"):
			writeQuery(w, map[string]any{"Invoice": []map[string]any{{"Id": "3"}}})
		default:
			writeQuery(w, map[string]any{})
		}
	}))
	defer srv.Close()

	c := newClient(t, srv, nil)
	got, _, err := c.InvoicesForCustomer(context.Background(), &credentials.Credentials{AccessToken: "a", RealmID: "1"}, "58", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("InvoicesForCustomer: %v", err)
	}
	if len(got) != 3 || got[2].ID != "3" {
		t.Errorf("invoices = %+v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 3 {
		t.Fatalf("queries = %d, want 3", len(queries))
	}
	for _, want := range []string{"CustomerRef = '58'", "TxnDate >= '2024-01-01'", "TxnDate <= '2024-12-31'", "ORDER BY TxnDate"} {
		if !strings.Contains(queries[0], want) {
			t.Errorf("query %q missing %q", queries[0], want)
		}
	}
	if !strings.HasSuffix(queries[2], "STARTPOSITION 4 MAXRESULTS 2") {
		t.Errorf("last query = %q", queries[2])
	}
}

func TestInvoicesInWindow_NoCustomerFilter(t *testing.T) {
	var mu sync.Mutex
	var first string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		if first == "" {
			first = r.URL.Query().Get("query")
		}
		mu.Unlock()
		writeQuery(w, map[string]any{})
	}))
	defer srv.Close()

	c := newClient(t, srv, nil)
	got, _, err := c.InvoicesInWindow(context.Background(), &credentials.Credentials{AccessToken: "a", RealmID: "1"}, "2024-01-01", "2024-12-31")
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Contains(first, "CustomerRef") || !strings.Contains(first, "ORDER BY TxnDate") {
		t.Errorf("query = %q", first)
	}
}

func TestQuote(t *testing.T) {
	if got := Quote("O'Brien's"); got != "'O''Brien''s'" {
		t.Errorf("Quote = %s", got)
	}
}

func TestSession_KeepsRefreshedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeQuery(w, map[string]any{"Customer": []map[string]string{{"Id": "1", "DisplayName": "A"}}})
	}))
	defer srv.Close()

	s := NewSession(newClient(t, srv, &countingRefresher{}), &credentials.Credentials{AccessToken: "stale", RealmID: "1"})
	if _, err := s.CustomerScan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Credentials().AccessToken != "fresh" {
		t.Errorf("session credentials = %+v", s.Credentials())
	}
}
