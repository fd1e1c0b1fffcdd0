package models

// ResolvedRow is one sales line flattened with its invoice header, the
// canonical customer and material, and the stored document path.
type ResolvedRow struct {
	Customer       string   `json:"customer"`
	InvoiceID      string   `json:"invoice_id"`
	InvoiceNumber  string   `json:"invoice_number"`
	InvoiceDate    string   `json:"invoice_date"`
	ServiceDate    string   `json:"service_date"`
	ProductService string   `json:"product_service"`
	Description    string   `json:"description"`
	ShipDate       string   `json:"ship_date"`
	ShipVia        string   `json:"ship_via"`
	Item           string   `json:"item"`
	ItemOriginal   string   `json:"item_original"`
	Qty            *float64 `json:"qty"`
	UOM            string   `json:"uom"`
	UnitPrice      *float64 `json:"unit_price"`
	LineAmount     *float64 `json:"line_amount"`
	InvoiceTotal   *float64 `json:"invoice_total"`
	InvoiceBalance *float64 `json:"invoice_balance"`
	DocumentPath   string   `json:"pdf_path"`
	LineIndex      int      `json:"-"`
}

// Contract is the canonical trade-contract record sent downstream.
type Contract struct {
	Buyer              string   `json:"buyer"`
	Seller             string   `json:"seller"`
	Material           string   `json:"material"`
	WeightTons         float64  `json:"weight_tons"`
	PricePerTon        float64  `json:"price_per_ton"`
	PricingFormula     *string  `json:"pricing_formula"`
	ReferenceSymbol    string   `json:"reference_symbol"`
	ReferencePrice     *float64 `json:"reference_price"`
	ReferenceSource    string   `json:"reference_source"`
	ReferenceTimestamp string   `json:"reference_timestamp"`
	Currency           string   `json:"currency"`
}
