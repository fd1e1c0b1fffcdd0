package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/testutil"
)

type fakeAuthorizer struct {
	grant     Grant
	err       error
	gotState  string
	gotURL    string
	callCount int
}

func (f *fakeAuthorizer) Authorize(_ context.Context, consentURL, state string) (Grant, error) {
	f.callCount++
	f.gotURL = consentURL
	f.gotState = state
	return f.grant, f.err
}

// tokenServer answers both grant types and counts calls per grant type.
func tokenServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32, *atomic.Int32) {
	t.Helper()
	var codeCalls, refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("missing basic client auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			codeCalls.Add(1)
			if r.PostForm.Get("code") != "the-code" {
				t.Errorf("code = %q", r.PostForm.Get("code"))
			}
		case "refresh_token":
			refreshCalls.Add(1)
			if r.PostForm.Get("refresh_token") != "rt-1" {
				t.Errorf("refresh_token = %q", r.PostForm.Get("refresh_token"))
			}
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-2",
			"refresh_token": "rt-2",
			"token_type":    "bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &codeCalls, &refreshCalls
}

func oauthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5055/callback",
		Scopes:       []string{"com.intuit.quickbooks.accounting"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://consent.example.com/connect",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func TestObtain_UsesPersistedTokens(t *testing.T) {
	_, files := testutil.TestVault(t)
	_ = files.Write("tokens.json", []byte(`{"access_token":"at-1","refresh_token":"rt-1","realm_id":"9130"}`))
	auth := &fakeAuthorizer{}

	s := NewStore(Options{OAuth: oauthConfig("http://unused"), Files: files, Path: "tokens.json", Authorizer: auth})
	c, err := s.Obtain(context.Background())
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	if c.AccessToken != "at-1" || c.RealmID != "9130" {
		t.Errorf("got %+v", c)
	}
	if auth.callCount != 0 {
		t.Error("authorization flow must not run when tokens exist")
	}
}

func TestObtain_RunsFlowAndPersists(t *testing.T) {
	srv, codeCalls, _ := tokenServer(t, http.StatusOK)
	_, files := testutil.TestVault(t)
	auth := &fakeAuthorizer{grant: Grant{Code: "the-code", RealmID: "4620"}}
	var presented string

	s := NewStore(Options{
		OAuth:      oauthConfig(srv.URL),
		Files:      files,
		Path:       "tokens.json",
		Authorizer: auth,
		Presenter:  func(u string) { presented = u },
	})
	c, err := s.Obtain(context.Background())
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	if c.AccessToken != "at-2" || c.RefreshToken != "rt-2" || c.RealmID != "4620" {
		t.Errorf("got %+v", c)
	}
	if codeCalls.Load() != 1 {
		t.Errorf("code exchanges = %d", codeCalls.Load())
	}
	if presented == "" || !strings.Contains(presented, "state="+auth.gotState) {
		t.Errorf("consent URL %q does not carry state %q", presented, auth.gotState)
	}

	raw, err := files.Read("tokens.json")
	if err != nil {
		t.Fatalf("tokens not persisted: %v", err)
	}
	var onDisk Credentials
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.RealmID != "4620" || onDisk.AccessToken != "at-2" {
		t.Errorf("persisted %+v", onDisk)
	}
}

func TestObtain_CorruptFileFallsBackToFlow(t *testing.T) {
	srv, _, _ := tokenServer(t, http.StatusOK)
	_, files := testutil.TestVault(t)
	_ = files.Write("tokens.json", []byte("{not json"))
	auth := &fakeAuthorizer{grant: Grant{Code: "the-code", RealmID: "1"}}

	s := NewStore(Options{OAuth: oauthConfig(srv.URL), Files: files, Path: "tokens.json", Authorizer: auth, Presenter: func(string) {}})
	if _, err := s.Obtain(context.Background()); err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	if auth.callCount != 1 {
		t.Errorf("authorizer calls = %d", auth.callCount)
	}
}

func TestObtain_AuthorizerTimeoutIsFatal(t *testing.T) {
	_, files := testutil.TestVault(t)
	auth := &fakeAuthorizer{err: apperr.ErrAuthTimeout}

	s := NewStore(Options{OAuth: oauthConfig("http://unused"), Files: files, Path: "tokens.json", Authorizer: auth, Presenter: func(string) {}})
	_, err := s.Obtain(context.Background())
	if !errors.Is(err, apperr.ErrAuthTimeout) {
		t.Fatalf("err = %v", err)
	}
	if !apperr.IsCredentialFailure(err) {
		t.Error("timeout must be classified as a credential failure")
	}
}

func TestObtain_ExchangeFailure(t *testing.T) {
	srv, _, _ := tokenServer(t, http.StatusBadRequest)
	_, files := testutil.TestVault(t)
	auth := &fakeAuthorizer{grant: Grant{Code: "the-code", RealmID: "1"}}

	s := NewStore(Options{OAuth: oauthConfig(srv.URL), Files: files, Path: "tokens.json", Authorizer: auth, Presenter: func(string) {}})
	_, err := s.Obtain(context.Background())
	if !errors.Is(err, apperr.ErrTokenExchange) {
		t.Fatalf("err = %v", err)
	}
	if files.Exists("tokens.json") {
		t.Error("nothing should be persisted after a failed exchange")
	}
}

func TestRefresh_PreservesRealmAndPersists(t *testing.T) {
	srv, _, refreshCalls := tokenServer(t, http.StatusOK)
	_, files := testutil.TestVault(t)

	s := NewStore(Options{OAuth: oauthConfig(srv.URL), Files: files, Path: "tokens.json"})
	next, err := s.Refresh(context.Background(), &Credentials{AccessToken: "at-1", RefreshToken: "rt-1", RealmID: "9130"})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.AccessToken != "at-2" || next.RealmID != "9130" {
		t.Errorf("got %+v", next)
	}
	if refreshCalls.Load() != 1 {
		t.Errorf("refresh calls = %d", refreshCalls.Load())
	}
	if !files.Exists("tokens.json") {
		t.Error("refreshed tokens not persisted")
	}
}

func TestRefresh_Rejected(t *testing.T) {
	srv, _, refreshCalls := tokenServer(t, http.StatusUnauthorized)
	_, files := testutil.TestVault(t)

	s := NewStore(Options{OAuth: oauthConfig(srv.URL), Files: files, Path: "tokens.json"})
	_, err := s.Refresh(context.Background(), &Credentials{RefreshToken: "rt-1", RealmID: "9130"})
	if !errors.Is(err, apperr.ErrTokenExchange) {
		t.Fatalf("err = %v", err)
	}
	if refreshCalls.Load() != 1 {
		t.Errorf("refresh must not be retried, calls = %d", refreshCalls.Load())
	}
}

func TestUseRelay(t *testing.T) {
	cases := []struct {
		base, auth, redirect string
		want                 bool
	}{
		{"https://relay", "secret", "https://relay/callback", true},
		{"https://relay", "", "https://relay/callback", false},
		{"", "secret", "https://relay/callback", false},
		{"https://relay", "secret", "http://localhost:5055/callback", false},
	}
	for _, tc := range cases {
		if got := UseRelay(tc.base, tc.auth, tc.redirect); got != tc.want {
			t.Errorf("UseRelay(%q,%q,%q) = %v", tc.base, tc.auth, tc.redirect, got)
		}
	}
}

func TestReauthorize_ReplacesStoredTokens(t *testing.T) {
	srv, codeCalls, _ := tokenServer(t, http.StatusOK)
	_, files := testutil.TestVault(t)
	_ = files.Write("tokens.json", []byte(`{"access_token":"at-1","refresh_token":"rt-1","realm_id":"9130"}`))
	auth := &fakeAuthorizer{grant: Grant{Code: "the-code", RealmID: "4620"}}

	s := NewStore(Options{OAuth: oauthConfig(srv.URL), Files: files, Path: "tokens.json", Authorizer: auth, Presenter: func(string) {}})
	c, err := s.Reauthorize(context.Background())
	if err != nil {
		t.Fatalf("Reauthorize: %v", err)
	}
	if c.RealmID != "4620" || codeCalls.Load() != 1 || auth.callCount != 1 {
		t.Errorf("got %+v, exchanges = %d", c, codeCalls.Load())
	}
}
