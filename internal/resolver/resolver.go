// Package resolver maps a free-text customer name to an upstream customer.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/models"
	"github.com/starford/harvester/internal/similarity"
)

// Directory is the slice of the upstream session the resolver needs.
type Directory interface {
	CustomersNamed(ctx context.Context, name string) ([]models.Customer, error)
	CustomersContaining(ctx context.Context, part string) ([]models.Customer, error)
	CustomerScan(ctx context.Context) ([]models.Customer, error)
}

// Tier names the strategy that produced a match.
type Tier string

const (
	TierExact    Tier = "exact"
	TierContains Tier = "contains"
	TierFuzzy    Tier = "fuzzy"
)

// Match is a resolved customer.
type Match struct {
	Customer models.Customer
	Tier     Tier
}

type strategy struct {
	tier Tier
	run  func(ctx context.Context, target string) (models.Customer, bool, error)
}

// Resolver tries exact, then substring, then approximate matching.
type Resolver struct {
	dir        Directory
	cutoff     float64
	logger     *slog.Logger
	strategies []strategy
}

// New creates a Resolver. cutoff applies to both similarity rankings.
func New(dir Directory, cutoff float64, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{dir: dir, cutoff: cutoff, logger: logger}
	r.strategies = []strategy{
		{TierExact, r.exact},
		{TierContains, r.contains},
		{TierFuzzy, r.fuzzy},
	}
	return r
}

// Resolve returns the first tier's match. Upstream errors are returned as
// is; a name nothing matches yields apperr.ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, displayName string) (Match, error) {
	target := strings.TrimSpace(displayName)
	if target == "" {
		return Match{}, fmt.Errorf("resolver: empty name: %w", apperr.ErrNotFound)
	}
	for _, s := range r.strategies {
		c, ok, err := s.run(ctx, target)
		if err != nil {
			return Match{}, fmt.Errorf("resolver: %s lookup %q: %w", s.tier, target, err)
		}
		if ok {
			r.logger.Info("resolver: matched customer",
				slog.String("tier", string(s.tier)),
				slog.String("input", target),
				slog.String("display_name", c.DisplayName),
				slog.String("id", c.ID))
			return Match{Customer: c, Tier: s.tier}, nil
		}
	}
	r.logger.Warn("resolver: customer not found", slog.String("input", target))
	return Match{}, fmt.Errorf("resolver: %q: %w", target, apperr.ErrNotFound)
}

func (r *Resolver) exact(ctx context.Context, target string) (models.Customer, bool, error) {
	rows, err := r.dir.CustomersNamed(ctx, target)
	if err != nil || len(rows) == 0 {
		return models.Customer{}, false, err
	}
	return rows[0], true, nil
}

// contains picks the closest substring hit, or the first one when none
// clears the cutoff.
func (r *Resolver) contains(ctx context.Context, target string) (models.Customer, bool, error) {
	rows, err := r.dir.CustomersContaining(ctx, target)
	if err != nil || len(rows) == 0 {
		return models.Customer{}, false, err
	}
	if c, ok := r.closest(target, rows); ok {
		return c, true, nil
	}
	return rows[0], true, nil
}

func (r *Resolver) fuzzy(ctx context.Context, target string) (models.Customer, bool, error) {
	rows, err := r.dir.CustomerScan(ctx)
	if err != nil || len(rows) == 0 {
		return models.Customer{}, false, err
	}
	c, ok := r.closest(target, rows)
	return c, ok, nil
}

// closest ranks display names case-insensitively.
func (r *Resolver) closest(target string, rows []models.Customer) (models.Customer, bool) {
	names := make([]string, 0, len(rows))
	byName := make(map[string]models.Customer, len(rows))
	for _, row := range rows {
		if row.DisplayName == "" {
			continue
		}
		key := strings.ToLower(row.DisplayName)
		if _, seen := byName[key]; !seen {
			byName[key] = row
			names = append(names, key)
		}
	}
	best, _, ok := similarity.Best(strings.ToLower(target), names, r.cutoff)
	if !ok {
		return models.Customer{}, false
	}
	return byName[best], true
}
