// Package models defines the domain types shared by the harvester pipeline.
package models

import "strings"

// DetailTypeSalesItem is the only line detail type the pipeline keeps.
const DetailTypeSalesItem = "SalesItemLineDetail"

// Ref is an upstream entity reference ({"value": id, "name": display}).
type Ref struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// Invoice is an upstream invoice as returned by the query endpoint.
type Invoice struct {
	ID            string   `json:"Id"`
	DocNumber     string   `json:"DocNumber"`
	TxnDate       string   `json:"TxnDate"`
	TotalAmt      *float64 `json:"TotalAmt,omitempty"`
	Balance       *float64 `json:"Balance,omitempty"`
	CustomerRef   *Ref     `json:"CustomerRef,omitempty"`
	ShipDate      string   `json:"ShipDate,omitempty"`
	ShipMethodRef *Ref     `json:"ShipMethodRef,omitempty"`
	Line          []Line   `json:"Line"`
}

// CustomerName returns the customer display name carried on the invoice.
func (inv Invoice) CustomerName() string {
	if inv.CustomerRef == nil {
		return ""
	}
	return inv.CustomerRef.Name
}

// ShipVia returns the ship method name, if any.
func (inv Invoice) ShipVia() string {
	if inv.ShipMethodRef == nil {
		return ""
	}
	return inv.ShipMethodRef.Name
}

// Line is one invoice line. Only sales item lines carry a SalesItemLineDetail.
type Line struct {
	DetailType          string           `json:"DetailType"`
	Description         string           `json:"Description,omitempty"`
	Amount              *float64         `json:"Amount,omitempty"`
	SalesItemLineDetail *SalesItemDetail `json:"SalesItemLineDetail,omitempty"`
}

// SalesItemDetail holds the item-level fields of a sales line.
type SalesItemDetail struct {
	ItemRef       *Ref     `json:"ItemRef,omitempty"`
	Qty           *float64 `json:"Qty,omitempty"`
	UnitPrice     *float64 `json:"UnitPrice,omitempty"`
	UnitOfMeasure string   `json:"UnitOfMeasure,omitempty"`
	ServiceDate   string   `json:"ServiceDate,omitempty"`
}

// IsSalesItem reports whether the line is retained by the pipeline.
func (l Line) IsSalesItem() bool {
	return l.DetailType == DetailTypeSalesItem
}

// ItemName returns the item reference name of a sales line.
func (l Line) ItemName() string {
	if l.SalesItemLineDetail == nil || l.SalesItemLineDetail.ItemRef == nil {
		return ""
	}
	return l.SalesItemLineDetail.ItemRef.Name
}

// MaterialSource picks the free text used for material canonicalization.
// The line description is preferred over the item name.
func (l Line) MaterialSource() string {
	if d := strings.TrimSpace(l.Description); d != "" {
		return l.Description
	}
	return l.ItemName()
}

// Customer is an entry of the upstream customer directory.
type Customer struct {
	ID          string `json:"Id"`
	DisplayName string `json:"DisplayName"`
}
