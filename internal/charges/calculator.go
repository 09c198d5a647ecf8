// Package charges derives receiving and storage charges for a table of line items.
package charges

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

// Result is one calculation pass over a table.
type Result struct {
	Rows   []entity.ChargedLine `json:"rows"`
	Totals entity.Totals        `json:"totals"`
}

// Charge computes the receiving and storage totals of a single row:
//
//	receiving = quantity × unit price
//	storage   = quantity × unit price × months
//
// Inputs are not validated; negative values flow through unchanged.
func Charge(item entity.LineItem) entity.ChargedLine {
	receiving := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	storage := receiving.Mul(decimal.NewFromInt(int64(item.StorageDurationMonths)))
	return entity.ChargedLine{
		LineItem:       item,
		ReceivingTotal: receiving,
		StorageTotal:   storage,
	}
}

// Calculate charges every row and sums the totals. It does not modify rows and
// holds no state, so repeated calls on the same table give identical results.
// No rounding is applied; use FormatCurrency at display time.
func Calculate(rows []entity.LineItem) Result {
	res := Result{
		Rows: make([]entity.ChargedLine, 0, len(rows)),
		Totals: entity.Totals{
			Receiving: decimal.Zero,
			Storage:   decimal.Zero,
		},
	}
	for _, row := range rows {
		charged := Charge(row)
		res.Rows = append(res.Rows, charged)
		res.Totals.Receiving = res.Totals.Receiving.Add(charged.ReceivingTotal)
		res.Totals.Storage = res.Totals.Storage.Add(charged.StorageTotal)
	}
	return res
}

// FormatCurrency renders d as dollars with thousands separators and two
// decimals, e.g. "$1,234.50" or "-$12.00".
func FormatCurrency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// beyond int64; skip grouping
		return sign + "$" + fixed
	}
	return sign + "$" + humanize.Comma(n) + "." + frac
}
