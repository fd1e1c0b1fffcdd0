// Package output renders the durable artifacts of a run: the line-item
// table, the contract table in CSV and NDJSON, the customer directory and
// an optional workbook. Every file is replaced atomically.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/starford/harvester/internal/models"
	"github.com/starford/harvester/internal/storage"
)

// Default artifact names under the output directory.
const (
	InvoicesFile        = "invoices.csv"
	ContractsFile       = "contracts.csv"
	ContractsNDJSONFile = "contracts.ndjson"
	CustomersFile       = "customers.csv"
	WorkbookFile        = "harvest.xlsx"
)

var (
	InvoiceHeaders = []string{
		"customer", "invoice_id", "invoice_number", "invoice_date", "service_date",
		"product_service", "description",
		"ship_date", "ship_via",
		"item", "item_original", "qty", "uom", "unit_price", "line_amount", "invoice_total",
		"invoice_balance", "pdf_path",
	}
	ContractHeaders = []string{
		"buyer", "seller", "material", "weight_tons", "price_per_ton",
		"pricing_formula", "reference_symbol", "reference_price",
		"reference_source", "reference_timestamp", "currency",
	}
	CustomerHeaders = []string{"Id", "DisplayName"}
)

// Writer writes artifacts through a storage.Provider.
type Writer struct {
	files storage.Provider
}

// NewWriter creates a Writer rooted at files.
func NewWriter(files storage.Provider) *Writer {
	return &Writer{files: files}
}

// WriteInvoices writes the line-item table.
func (w *Writer) WriteInvoices(path string, rows []models.ResolvedRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, invoiceRecord(r))
	}
	return w.writeCSV(path, InvoiceHeaders, records)
}

// WriteContracts writes the contract table.
func (w *Writer) WriteContracts(path string, contracts []models.Contract) error {
	records := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		records = append(records, contractRecord(c))
	}
	return w.writeCSV(path, ContractHeaders, records)
}

// WriteContractsNDJSON writes one JSON object per line.
func (w *Writer) WriteContractsNDJSON(path string, contracts []models.Contract) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, c := range contracts {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("output: encode %s: %w", c.ReferenceSymbol, err)
		}
	}
	if err := w.files.Write(path, buf.Bytes()); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// WriteCustomers writes the customer directory.
func (w *Writer) WriteCustomers(path string, customers []models.Customer) error {
	records := make([][]string, 0, len(customers))
	for _, c := range customers {
		records = append(records, []string{c.ID, c.DisplayName})
	}
	return w.writeCSV(path, CustomerHeaders, records)
}

func (w *Writer) writeCSV(path string, header []string, records [][]string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("output: %s header: %w", path, err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("output: %s rows: %w", path, err)
	}
	if err := w.files.Write(path, buf.Bytes()); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

func invoiceRecord(r models.ResolvedRow) []string {
	return []string{
		r.Customer, r.InvoiceID, r.InvoiceNumber, r.InvoiceDate, r.ServiceDate,
		r.ProductService, r.Description,
		r.ShipDate, r.ShipVia,
		r.Item, r.ItemOriginal, num(r.Qty), r.UOM, num(r.UnitPrice), num(r.LineAmount), num(r.InvoiceTotal),
		num(r.InvoiceBalance), r.DocumentPath,
	}
}

func contractRecord(c models.Contract) []string {
	formula := ""
	if c.PricingFormula != nil {
		formula = *c.PricingFormula
	}
	return []string{
		c.Buyer, c.Seller, c.Material,
		strconv.FormatFloat(c.WeightTons, 'f', -1, 64),
		strconv.FormatFloat(c.PricePerTon, 'f', -1, 64),
		formula, c.ReferenceSymbol, num(c.ReferencePrice),
		c.ReferenceSource, c.ReferenceTimestamp, c.Currency,
	}
}

// num renders an optional number; absent is an empty cell.
func num(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
