// Package credentials owns the upstream bearer tokens: it loads them from
// disk, drives the authorization-code flow when none exist, and refreshes
// them on demand. Every change is persisted before it is returned.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/storage"
)

// Credentials are the upstream tokens plus the tenant (realm) they belong to.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RealmID      string    `json:"realm_id"`
	Expiry       time.Time `json:"expiry,omitempty"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Grant is the out-of-band result of the consent step.
type Grant struct {
	Code    string
	RealmID string
}

// Authorizer waits for the authorization code belonging to state.
type Authorizer interface {
	Authorize(ctx context.Context, consentURL, state string) (Grant, error)
}

// Refresher exchanges a refresh token for new credentials.
type Refresher interface {
	Refresh(ctx context.Context, c *Credentials) (*Credentials, error)
}

// Presenter shows the consent URL to the operator.
type Presenter func(consentURL string)

// Options configures a Store.
type Options struct {
	OAuth      *oauth2.Config
	Files      storage.Provider
	Path       string
	Authorizer Authorizer
	Presenter  Presenter
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Store persists and refreshes credentials.
type Store struct {
	oauth      *oauth2.Config
	files      storage.Provider
	path       string
	authorizer Authorizer
	present    Presenter
	client     *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ Refresher = (*Store)(nil)

// NewStore creates a Store from opts.
func NewStore(opts Options) *Store {
	s := &Store{
		oauth:      opts.OAuth,
		files:      opts.Files,
		path:       opts.Path,
		authorizer: opts.Authorizer,
		present:    opts.Presenter,
		client:     opts.HTTPClient,
		logger:     opts.Logger,
		now:        time.Now,
	}
	if s.present == nil {
		s.present = func(u string) {
			fmt.Fprintf(os.Stderr, "Open this URL in a browser to authorize access:\n%s\n", u)
		}
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: 30 * time.Second}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Obtain returns the persisted credentials, or runs the authorization flow
// when there are none.
func (s *Store) Obtain(ctx context.Context) (*Credentials, error) {
	c, err := s.load()
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		s.logger.Warn("credentials: ignoring unreadable token file",
			slog.String("path", s.path), slog.String("error", err.Error()))
	}
	s.logger.Info("credentials: no stored tokens, starting authorization flow")
	return s.authorize(ctx)
}

// Reauthorize runs the authorization flow even when tokens are stored,
// replacing them on success.
func (s *Store) Reauthorize(ctx context.Context) (*Credentials, error) {
	return s.authorize(ctx)
}

// Refresh exchanges c's refresh token once. The realm is carried over
// because the token endpoint does not return it.
func (s *Store) Refresh(ctx context.Context, c *Credentials) (*Credentials, error) {
	if c == nil || c.RefreshToken == "" {
		return nil, fmt.Errorf("credentials: refresh: %w: no refresh token", apperr.ErrTokenExchange)
	}
	src := s.oauth.TokenSource(s.clientCtx(ctx), &oauth2.Token{RefreshToken: c.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("credentials: refresh: %w: %w", apperr.ErrTokenExchange, err)
	}
	next := s.fromToken(tok, c.RealmID)
	if err := s.save(next); err != nil {
		return nil, err
	}
	s.logger.Info("credentials: refreshed", slog.String("realm_id", next.RealmID))
	return next, nil
}

func (s *Store) authorize(ctx context.Context) (*Credentials, error) {
	if s.authorizer == nil {
		return nil, fmt.Errorf("credentials: no authorizer configured: %w", apperr.ErrAuthTimeout)
	}
	state := uuid.NewString()
	consentURL := s.oauth.AuthCodeURL(state)
	s.present(consentURL)
	s.logger.Info("credentials: waiting for authorization", slog.String("consent_url", consentURL))

	grant, err := s.authorizer.Authorize(ctx, consentURL, state)
	if err != nil {
		return nil, fmt.Errorf("credentials: authorize: %w", err)
	}

	tok, err := s.oauth.Exchange(s.clientCtx(ctx), grant.Code)
	if err != nil {
		return nil, fmt.Errorf("credentials: exchange code: %w: %w", apperr.ErrTokenExchange, err)
	}
	c := s.fromToken(tok, grant.RealmID)
	if err := s.save(c); err != nil {
		return nil, err
	}
	s.logger.Info("credentials: authorized", slog.String("realm_id", c.RealmID))
	return c, nil
}

func (s *Store) load() (*Credentials, error) {
	if !s.files.Exists(s.path) {
		return nil, apperr.ErrNotFound
	}
	data, err := s.files.Read(s.path)
	if err != nil {
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("credentials: decode %s: %w", s.path, err)
	}
	if c.AccessToken == "" || c.RealmID == "" {
		return nil, fmt.Errorf("credentials: %s is missing access token or realm", s.path)
	}
	return &c, nil
}

func (s *Store) save(c *Credentials) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("credentials: encode: %w", err)
	}
	if err := s.files.Write(s.path, data); err != nil {
		return fmt.Errorf("credentials: persist: %w", err)
	}
	return nil
}

func (s *Store) fromToken(tok *oauth2.Token, realmID string) *Credentials {
	return &Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		RealmID:      realmID,
		Expiry:       tok.Expiry,
		IssuedAt:     s.now().UTC(),
	}
}

func (s *Store) clientCtx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.client)
}

// UseRelay reports whether the relay handshake should replace the local
// callback listener. The relay only works with a public https redirect.
func UseRelay(relayBase, relayAuth, redirectURI string) bool {
	return relayBase != "" && relayAuth != "" && len(redirectURI) > len("https://") &&
		redirectURI[:len("https://")] == "https://"
}
