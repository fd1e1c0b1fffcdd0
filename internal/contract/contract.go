// Package contract converts resolved invoice lines into canonical trade
// contracts.
package contract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/starford/harvester/internal/models"
)

// UnitPolicy decides how a line with an unrecognised unit is converted.
type UnitPolicy string

const (
	UnitPounds UnitPolicy = "pounds"
	UnitTons   UnitPolicy = "tons"
	UnitSkip   UnitPolicy = "skip"
)

const (
	poundsPerTon = 2000
	currencyUSD  = "USD"
)

var (
	pounds = map[string]bool{"lb": true, "lbs": true, "pound": true, "pounds": true}
	tons   = map[string]bool{"ton": true, "tons": true, "t": true}
)

// Options configures a Transformer.
type Options struct {
	Seller          string
	ReferenceSource string
	UnknownUnit     UnitPolicy
	Logger          *slog.Logger
}

// Transformer builds contracts from rows. It is stateless apart from its
// configuration.
type Transformer struct {
	seller  string
	source  string
	unknown UnitPolicy
	logger  *slog.Logger
}

// New creates a Transformer.
func New(opts Options) *Transformer {
	t := &Transformer{
		seller:  opts.Seller,
		source:  opts.ReferenceSource,
		unknown: opts.UnknownUnit,
		logger:  opts.Logger,
	}
	if t.source == "" {
		t.source = "upstream"
	}
	if t.unknown == "" {
		t.unknown = UnitPounds
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Source is the reference source stamped on every contract.
func (t *Transformer) Source() string { return t.source }

// ReferenceSymbol is the stable per-line key "{doc}#{index}".
func ReferenceSymbol(docNumber string, lineIndex int) string {
	return fmt.Sprintf("%s#%d", docNumber, lineIndex)
}

// IdempotencyKey prefixes symbol with the reference source.
func IdempotencyKey(source, symbol string) string {
	return source + ":" + symbol
}

// Transform returns the contract for row, or false when the row carries
// no quantity or price, has an unconvertible unit, or weighs nothing.
func (t *Transformer) Transform(row models.ResolvedRow) (models.Contract, bool) {
	if row.Qty == nil || row.UnitPrice == nil {
		return models.Contract{}, false
	}
	symbol := ReferenceSymbol(row.InvoiceNumber, row.LineIndex)

	qty := decimal.NewFromFloat(*row.Qty)
	price := decimal.NewFromFloat(*row.UnitPrice)
	perTon := decimal.NewFromInt(poundsPerTon)

	unit := strings.ToLower(strings.TrimSpace(row.UOM))
	policy := UnitPounds
	switch {
	case pounds[unit]:
	case tons[unit]:
		policy = UnitTons
	default:
		policy = t.unknown
		t.logger.Warn("contract: unrecognised unit of measure",
			slog.String("symbol", symbol),
			slog.String("uom", row.UOM),
			slog.String("fallback", string(policy)))
	}

	var weight, pricePerTon decimal.Decimal
	switch policy {
	case UnitTons:
		weight, pricePerTon = qty, price
	case UnitSkip:
		return models.Contract{}, false
	default:
		weight, pricePerTon = qty.Div(perTon), price.Mul(perTon)
	}

	weight = weight.Round(6)
	if !weight.IsPositive() {
		t.logger.Debug("contract: non-positive weight skipped", slog.String("symbol", symbol))
		return models.Contract{}, false
	}

	return models.Contract{
		Buyer:              row.Customer,
		Seller:             t.seller,
		Material:           row.Item,
		WeightTons:         weight.InexactFloat64(),
		PricePerTon:        pricePerTon.Round(2).InexactFloat64(),
		ReferenceSymbol:    symbol,
		ReferenceSource:    t.source,
		ReferenceTimestamp: row.InvoiceDate,
		Currency:           currencyUSD,
	}, true
}
