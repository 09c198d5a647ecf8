package entity

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

// Item is one raw (name, quantity) pair pulled out of an uploaded document.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// LineItem is one editable row of the charges table.
type LineItem struct {
	Name                  string             `json:"name"`
	Quantity              int                `json:"quantity"`
	Category              constants.Category `json:"category"`
	UnitPrice             decimal.Decimal    `json:"unit_price"`
	StorageDurationMonths int                `json:"storage_duration_months"`
}

// ChargedLine is a LineItem with its derived charges.
type ChargedLine struct {
	LineItem
	ReceivingTotal decimal.Decimal `json:"receiving_total"`
	StorageTotal   decimal.Decimal `json:"storage_total"`
}

// Totals are the aggregate charges over a whole table.
type Totals struct {
	Receiving decimal.Decimal `json:"receiving"`
	Storage   decimal.Decimal `json:"storage"`
}
