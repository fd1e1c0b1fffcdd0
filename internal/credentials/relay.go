package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/harvester/internal/apperr"
)

// RelayPoller collects the authorization code from a hosted relay that
// received the redirect on our behalf. The wait is bounded by Attempts.
type RelayPoller struct {
	BaseURL   string
	AuthToken string
	Attempts  int
	Interval  time.Duration
	Client    *http.Client
	Logger    *slog.Logger
}

type relayPayload struct {
	Code    string `json:"code"`
	RealmID string `json:"realmId"`
}

// Authorize implements Authorizer.
func (p *RelayPoller) Authorize(ctx context.Context, _ string, state string) (Grant, error) {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 240
	}
	interval := p.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 6 * time.Second}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	peekURL := strings.TrimRight(p.BaseURL, "/") + "/admin/qbo/peek?" + url.Values{"state": {state}}.Encode()

	for i := 0; i < attempts; i++ {
		grant, err := p.peek(ctx, client, peekURL)
		if err == nil {
			logger.Info("credentials: relay delivered code", slog.Int("attempt", i+1))
			return grant, nil
		}
		logger.Debug("credentials: relay peek", slog.Int("attempt", i+1), slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return Grant{}, ctx.Err()
		case <-time.After(interval):
		}
	}
	return Grant{}, fmt.Errorf("credentials: relay gave no code after %d attempts: %w", attempts, apperr.ErrAuthTimeout)
}

func (p *RelayPoller) peek(ctx context.Context, client *http.Client, peekURL string) (Grant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, peekURL, nil)
	if err != nil {
		return Grant{}, err
	}
	req.Header.Set("X-Relay-Auth", p.AuthToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Grant{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Grant{}, fmt.Errorf("relay status %d", resp.StatusCode)
	}
	var payload relayPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Grant{}, fmt.Errorf("relay decode: %w", err)
	}
	if payload.Code == "" || payload.RealmID == "" {
		return Grant{}, fmt.Errorf("relay payload incomplete")
	}
	return Grant{Code: payload.Code, RealmID: payload.RealmID}, nil
}
