// Package pipeline drives one harvest run: customers are resolved, their
// invoices extracted and documents fetched, every sales line canonicalized,
// transformed and published, and the results written out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/starford/harvester/internal/apperr"
	"github.com/starford/harvester/internal/contract"
	"github.com/starford/harvester/internal/material"
	"github.com/starford/harvester/internal/models"
	"github.com/starford/harvester/internal/output"
	"github.com/starford/harvester/internal/publisher"
	"github.com/starford/harvester/internal/resolver"
	"github.com/starford/harvester/internal/upstream"
)

const (
	documentsDir = "documents"
	fallbackDir  = "_ALL"
)

// Upstream is the run's upstream session.
type Upstream interface {
	AllCustomers(ctx context.Context) ([]models.Customer, error)
	InvoicesForCustomer(ctx context.Context, customerID, from, to string) ([]models.Invoice, error)
	InvoicesInWindow(ctx context.Context, from, to string) ([]models.Invoice, error)
	FetchDocument(ctx context.Context, invoiceID, dest string) (upstream.FetchResult, error)
}

// Publisher sends contracts downstream.
type Publisher interface {
	Login(ctx context.Context) error
	SetRunID(id string)
	Publish(ctx context.Context, c models.Contract, txnDate string) publisher.Outcome
}

// Ledger records the run.
type Ledger interface {
	BeginRun(startedAt time.Time) (string, error)
	FinishRun(id, status string, summary any) error
}

// Config is the run-level configuration.
type Config struct {
	Customers []string
	From      string
	To        string
	Workbook  bool
}

// Deps are the collaborators of a run.
type Deps struct {
	Upstream    Upstream
	Resolver    *resolver.Resolver
	Materials   *material.Canonicalizer
	Transformer *contract.Transformer
	Publisher   Publisher
	Output      *output.Writer
	Ledger      Ledger
	Logger      *slog.Logger
}

// Summary counts what happened. Record-level failures end up here rather
// than aborting the run.
type Summary struct {
	RunID                 string   `json:"run_id,omitempty"`
	CustomersResolved     int      `json:"customers_resolved"`
	CustomersUnresolved   []string `json:"customers_unresolved"`
	Fallback              bool     `json:"fallback"`
	InvoicesProcessed     int      `json:"invoices_processed"`
	DocumentsFetched      int      `json:"documents_fetched"`
	DocumentsSkipped      int      `json:"documents_skipped"`
	DocumentsFailed       int      `json:"documents_failed"`
	RowsResolved          int      `json:"rows_resolved"`
	MaterialsUnmapped     int      `json:"materials_unmapped"`
	ContractsBuilt        int      `json:"contracts_built"`
	ContractsSkipped      int      `json:"contracts_skipped"`
	ContractsPublished    int      `json:"contracts_published"`
	ContractsStubbed      int      `json:"contracts_stubbed"`
	ContractsDeduplicated int      `json:"contracts_deduplicated"`
	PublishFailures       int      `json:"publish_failures"`
}

// Orchestrator runs the pipeline. It is single-threaded by construction.
type Orchestrator struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	rows      []models.ResolvedRow
	contracts []models.Contract
}

// New creates an Orchestrator.
func New(cfg Config, deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, deps: deps, log: logger}
}

// Window returns the inclusive [from, to] date range ending today.
func Window(now time.Time, days int) (string, string) {
	return now.AddDate(0, 0, -days).Format(time.DateOnly), now.Format(time.DateOnly)
}

// Run executes one harvest. Outputs are written even when a fatal error
// stops the loop early; that error is then returned.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	o.rows, o.contracts = nil, nil

	if o.deps.Ledger != nil {
		id, err := o.deps.Ledger.BeginRun(time.Now())
		if err != nil {
			o.log.Warn("pipeline: begin run", slog.String("error", err.Error()))
		} else {
			sum.RunID = id
			o.deps.Publisher.SetRunID(id)
		}
	}

	o.log.Info("pipeline: run started",
		slog.String("from", o.cfg.From),
		slog.String("to", o.cfg.To),
		slog.Int("customers", len(o.cfg.Customers)))

	runErr := o.harvest(ctx, &sum)
	if runErr != nil {
		o.log.Error("pipeline: run aborted", slog.String("error", runErr.Error()))
	}

	writeErr := o.writeOutputs()
	if writeErr != nil {
		o.log.Error("pipeline: write outputs", slog.String("error", writeErr.Error()))
	}

	if o.deps.Ledger != nil && sum.RunID != "" {
		status := "ok"
		if runErr != nil || writeErr != nil {
			status = "failed"
		}
		if err := o.deps.Ledger.FinishRun(sum.RunID, status, sum); err != nil {
			o.log.Warn("pipeline: finish run", slog.String("error", err.Error()))
		}
	}

	o.log.Info("pipeline: run finished",
		slog.Int("invoices", sum.InvoicesProcessed),
		slog.Int("rows", sum.RowsResolved),
		slog.Int("contracts", sum.ContractsBuilt),
		slog.Int("published", sum.ContractsPublished),
		slog.Int("publish_failures", sum.PublishFailures),
		slog.Bool("fallback", sum.Fallback))

	return sum, errors.Join(runErr, writeErr)
}

// Rows returns the line items gathered by the last run.
func (o *Orchestrator) Rows() []models.ResolvedRow { return o.rows }

// Contracts returns the contracts built by the last run.
func (o *Orchestrator) Contracts() []models.Contract { return o.contracts }

func (o *Orchestrator) harvest(ctx context.Context, sum *Summary) error {
	customers, err := o.deps.Upstream.AllCustomers(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: customer directory: %w", err)
	}
	if err := o.deps.Output.WriteCustomers(output.CustomersFile, customers); err != nil {
		o.log.Warn("pipeline: write customers", slog.String("error", err.Error()))
	}
	o.log.Info("pipeline: customer directory", slog.Int("total", len(customers)))

	if err := o.deps.Publisher.Login(ctx); err != nil {
		o.log.Warn("pipeline: downstream login failed", slog.String("error", err.Error()))
	}

	for _, name := range o.cfg.Customers {
		m, err := o.deps.Resolver.Resolve(ctx, name)
		if errors.Is(err, apperr.ErrNotFound) {
			sum.CustomersUnresolved = append(sum.CustomersUnresolved, name)
			continue
		}
		if err != nil {
			return err
		}
		sum.CustomersResolved++

		invoices, err := o.deps.Upstream.InvoicesForCustomer(ctx, m.Customer.ID, o.cfg.From, o.cfg.To)
		if err != nil {
			return fmt.Errorf("pipeline: invoices for %q: %w", name, err)
		}
		o.log.Info("pipeline: invoices extracted", slog.String("customer", name), slog.Int("count", len(invoices)))

		dir := path.Join(documentsDir, dirName(name))
		for _, inv := range invoices {
			if err := o.processInvoice(ctx, sum, inv, dir, name); err != nil {
				return err
			}
		}
	}

	if sum.CustomersResolved > 0 {
		return nil
	}

	sum.Fallback = true
	o.log.Warn("pipeline: no configured customer resolved, scanning all invoices")
	invoices, err := o.deps.Upstream.InvoicesInWindow(ctx, o.cfg.From, o.cfg.To)
	if err != nil {
		return fmt.Errorf("pipeline: fallback scan: %w", err)
	}
	o.log.Info("pipeline: invoices extracted", slog.String("customer", fallbackDir), slog.Int("count", len(invoices)))

	dir := path.Join(documentsDir, fallbackDir)
	for _, inv := range invoices {
		if err := o.processInvoice(ctx, sum, inv, dir, ""); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) processInvoice(ctx context.Context, sum *Summary, inv models.Invoice, dir, configuredName string) error {
	sum.InvoicesProcessed++

	docPath := path.Join(dir, "INV-"+inv.ID+".pdf")
	res, err := o.deps.Upstream.FetchDocument(ctx, inv.ID, docPath)
	switch {
	case err != nil && (apperr.IsCredentialFailure(err) || ctx.Err() != nil):
		return err
	case err != nil:
		sum.DocumentsFailed++
		o.log.Warn("pipeline: document unavailable",
			slog.String("invoice_id", inv.ID),
			slog.String("error", err.Error()))
		docPath = ""
	case res.Skipped:
		sum.DocumentsSkipped++
	default:
		sum.DocumentsFetched++
	}

	customer := inv.CustomerName()
	if customer == "" {
		customer = configuredName
	}

	for idx, line := range inv.Line {
		if !line.IsSalesItem() {
			continue
		}
		canon := o.deps.Materials.Canonicalize(line.MaterialSource(), inv.CustomerName())
		if canon.Unmapped {
			sum.MaterialsUnmapped++
		}
		row := buildRow(inv, line, idx, customer, canon.Label, docPath)
		o.rows = append(o.rows, row)
		sum.RowsResolved++

		c, ok := o.deps.Transformer.Transform(row)
		if !ok {
			sum.ContractsSkipped++
			continue
		}
		o.contracts = append(o.contracts, c)
		sum.ContractsBuilt++

		out := o.deps.Publisher.Publish(ctx, c, inv.TxnDate)
		switch {
		case !out.OK:
			sum.PublishFailures++
		case out.Stub:
			sum.ContractsStubbed++
		case out.Skipped:
			sum.ContractsDeduplicated++
		default:
			sum.ContractsPublished++
		}
	}
	return nil
}

func buildRow(inv models.Invoice, line models.Line, idx int, customer, canonical, docPath string) models.ResolvedRow {
	row := models.ResolvedRow{
		Customer:       customer,
		InvoiceID:      inv.ID,
		InvoiceNumber:  inv.DocNumber,
		InvoiceDate:    inv.TxnDate,
		ServiceDate:    inv.TxnDate,
		ProductService: line.ItemName(),
		Description:    line.Description,
		ShipDate:       inv.ShipDate,
		ShipVia:        inv.ShipVia(),
		Item:           canonical,
		ItemOriginal:   line.ItemName(),
		LineAmount:     line.Amount,
		InvoiceTotal:   inv.TotalAmt,
		InvoiceBalance: inv.Balance,
		DocumentPath:   docPath,
		LineIndex:      idx,
	}
	if d := line.SalesItemLineDetail; d != nil {
		row.Qty = d.Qty
		row.UnitPrice = d.UnitPrice
		row.UOM = d.UnitOfMeasure
		if d.ServiceDate != "" {
			row.ServiceDate = d.ServiceDate
		}
	}
	return row
}

func (o *Orchestrator) writeOutputs() error {
	w := o.deps.Output
	errs := []error{
		w.WriteInvoices(output.InvoicesFile, o.rows),
		w.WriteContracts(output.ContractsFile, o.contracts),
		w.WriteContractsNDJSON(output.ContractsNDJSONFile, o.contracts),
	}
	if o.cfg.Workbook {
		errs = append(errs, w.WriteWorkbook(output.WorkbookFile, o.rows, o.contracts))
	}
	return errors.Join(errs...)
}

// dirName turns a configured customer name into a directory name.
func dirName(name string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return r.Replace(strings.TrimSpace(name))
}
