// Package material turns free-text material descriptions into canonical
// commodity labels.
package material

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/starford/harvester/internal/similarity"
)

// Unknown is returned for blank input.
const Unknown = "Unknown"

// Tier names the strategy that produced a label.
type Tier string

const (
	TierBlank    Tier = "blank"
	TierOverride Tier = "override"
	TierExternal Tier = "external"
	TierBuiltin  Tier = "builtin"
	TierKeyword  Tier = "keyword"
	TierFuzzy    Tier = "fuzzy"
	TierRaw      Tier = "raw"
)

// Result is the outcome of one canonicalization.
type Result struct {
	Label string
	Tier  Tier
	// Unmapped is set when every tier missed and the raw text came back.
	Unmapped bool
}

// Sink receives inputs no tier could map.
type Sink interface {
	Record(source, customer string) error
}

type strategy struct {
	tier  Tier
	match func(t *Tables, key, raw, customer string) (string, bool)
}

// Canonicalizer runs the tier chain against the current Tables.
type Canonicalizer struct {
	tables     atomic.Pointer[Tables]
	sink       Sink
	cutoff     float64
	logger     *slog.Logger
	strategies []strategy
}

// New creates a Canonicalizer. sink may be nil.
func New(t *Tables, sink Sink, cutoff float64, logger *slog.Logger) *Canonicalizer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Canonicalizer{sink: sink, cutoff: cutoff, logger: logger}
	c.tables.Store(t)
	c.strategies = []strategy{
		{TierOverride, matchOverride},
		{TierExternal, matchExternal},
		{TierBuiltin, matchBuiltin},
		{TierKeyword, matchKeyword},
		{TierFuzzy, c.matchFuzzy},
	}
	return c
}

// Tables returns the tables in use.
func (c *Canonicalizer) Tables() *Tables { return c.tables.Load() }

// Swap replaces the tables for subsequent calls.
func (c *Canonicalizer) Swap(t *Tables) { c.tables.Store(t) }

// Resolve reports which tier maps source. It has no side effects.
func (c *Canonicalizer) Resolve(source, customer string) Result {
	key := strings.ToLower(strings.TrimSpace(source))
	if key == "" {
		return Result{Label: Unknown, Tier: TierBlank}
	}
	cust := strings.ToLower(strings.TrimSpace(customer))
	t := c.tables.Load()
	for _, s := range c.strategies {
		if label, ok := s.match(t, key, source, cust); ok {
			return Result{Label: label, Tier: s.tier}
		}
	}
	return Result{Label: source, Tier: TierRaw, Unmapped: true}
}

// Canonicalize returns the label for source and records misses in the
// unmapped sink. The result is never empty.
func (c *Canonicalizer) Canonicalize(source, customer string) Result {
	res := c.Resolve(source, customer)
	if res.Unmapped && c.sink != nil {
		if err := c.sink.Record(source, customer); err != nil {
			c.logger.Warn("material: record unmapped", slog.String("source", source), slog.String("error", err.Error()))
		}
	}
	return res
}

func matchOverride(t *Tables, key, _, customer string) (string, bool) {
	label, ok := t.Overrides[customer][key]
	return label, ok
}

func matchExternal(t *Tables, key, _, _ string) (string, bool) {
	label, ok := t.External[key]
	return label, ok
}

func matchBuiltin(t *Tables, key, _, _ string) (string, bool) {
	label, ok := t.Builtin[key]
	return label, ok
}

func matchKeyword(t *Tables, _, raw, _ string) (string, bool) {
	for _, rule := range t.Keywords {
		if rule.Pattern.MatchString(raw) {
			return rule.Label, true
		}
	}
	return "", false
}

func (c *Canonicalizer) matchFuzzy(t *Tables, key, _, _ string) (string, bool) {
	best, _, ok := similarity.Best(key, t.fuzzyKeys, c.cutoff)
	if !ok {
		return "", false
	}
	if label, ok := t.External[best]; ok {
		return label, true
	}
	label, ok := t.Builtin[best]
	return label, ok
}
