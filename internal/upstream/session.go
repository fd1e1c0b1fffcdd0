package upstream

import (
	"context"

	"github.com/starford/harvester/internal/credentials"
	"github.com/starford/harvester/internal/models"
)

// Session holds the one credential object of a run so that callers do not
// thread it through every call. It always keeps whatever the client
// returned, including after a failed call that refreshed first.
type Session struct {
	client *Client
	creds  *credentials.Credentials
}

// NewSession binds creds to client.
func NewSession(client *Client, creds *credentials.Credentials) *Session {
	return &Session{client: client, creds: creds}
}

// Credentials returns the credentials currently in effect.
func (s *Session) Credentials() *credentials.Credentials { return s.creds }

func (s *Session) keep(c *credentials.Credentials) {
	if c != nil {
		s.creds = c
	}
}

func (s *Session) InvoicesForCustomer(ctx context.Context, customerID, from, to string) ([]models.Invoice, error) {
	out, c, err := s.client.InvoicesForCustomer(ctx, s.creds, customerID, from, to)
	s.keep(c)
	return out, err
}

func (s *Session) InvoicesInWindow(ctx context.Context, from, to string) ([]models.Invoice, error) {
	out, c, err := s.client.InvoicesInWindow(ctx, s.creds, from, to)
	s.keep(c)
	return out, err
}

func (s *Session) CustomersNamed(ctx context.Context, name string) ([]models.Customer, error) {
	out, c, err := s.client.CustomersNamed(ctx, s.creds, name)
	s.keep(c)
	return out, err
}

func (s *Session) CustomersContaining(ctx context.Context, part string) ([]models.Customer, error) {
	out, c, err := s.client.CustomersContaining(ctx, s.creds, part)
	s.keep(c)
	return out, err
}

func (s *Session) CustomerScan(ctx context.Context) ([]models.Customer, error) {
	out, c, err := s.client.CustomerScan(ctx, s.creds)
	s.keep(c)
	return out, err
}

func (s *Session) AllCustomers(ctx context.Context) ([]models.Customer, error) {
	out, c, err := s.client.AllCustomers(ctx, s.creds)
	s.keep(c)
	return out, err
}

func (s *Session) FetchDocument(ctx context.Context, invoiceID, dest string) (FetchResult, error) {
	out, c, err := s.client.FetchDocument(ctx, s.creds, invoiceID, dest)
	s.keep(c)
	return out, err
}
