package pricing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

// DefaultUnitPrice is returned by PriceFor when a category has no entry.
var DefaultUnitPrice = decimal.NewFromInt(40)

// PriceEntry is one row of the price sheet.
type PriceEntry struct {
	Category  constants.Category `json:"category"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
}

var defaultEntries = []PriceEntry{
	{Category: constants.ClubChair, UnitPrice: decimal.NewFromInt(40)},
	{Category: constants.Ottoman, UnitPrice: decimal.NewFromInt(30)},
	{Category: constants.ChairOttoman, UnitPrice: decimal.NewFromInt(60)},
	{Category: constants.LoveseatChaise, UnitPrice: decimal.NewFromInt(75)},
	{Category: constants.Sofa7, UnitPrice: decimal.NewFromInt(75)},
	{Category: constants.Sofa8, UnitPrice: decimal.NewFromInt(100)},
	{Category: constants.Sofa9, UnitPrice: decimal.NewFromInt(125)},
	{Category: constants.Sofa10, UnitPrice: decimal.NewFromInt(150)},
	{Category: constants.SideTable, UnitPrice: decimal.NewFromInt(30)},
	{Category: constants.CocktailTable, UnitPrice: decimal.NewFromInt(50)},
}

var defaultTable = mustTable(defaultEntries)

// Table is an immutable category -> unit price mapping. Build it once at
// startup and share it freely; nothing mutates it after construction.
type Table struct {
	prices map[constants.Category]decimal.Decimal
	order  []constants.Category
}

// NewTable validates entries and builds a Table. Categories must be unique,
// non-empty and carry a positive price.
func NewTable(entries []PriceEntry) (*Table, error) {
	t := &Table{
		prices: make(map[constants.Category]decimal.Decimal, len(entries)),
		order:  make([]constants.Category, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Category == "" {
			return nil, errors.New("price table: empty category")
		}
		if !e.UnitPrice.IsPositive() {
			return nil, fmt.Errorf("price table: non-positive price %s for %q", e.UnitPrice, e.Category)
		}
		if _, dup := t.prices[e.Category]; dup {
			return nil, fmt.Errorf("price table: duplicate category %q", e.Category)
		}
		t.prices[e.Category] = e.UnitPrice
		t.order = append(t.order, e.Category)
	}
	return t, nil
}

func mustTable(entries []PriceEntry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the built-in price sheet.
func DefaultTable() *Table {
	return defaultTable
}

// Lookup returns the tabulated price and whether the category is present.
func (t *Table) Lookup(category constants.Category) (decimal.Decimal, bool) {
	p, ok := t.prices[category]
	return p, ok
}

// PriceFor returns the tabulated price, or DefaultUnitPrice for an unknown
// category. The classifier never produces an unknown category, but edited
// rows and future categories can.
func (t *Table) PriceFor(category constants.Category) decimal.Decimal {
	if p, ok := t.prices[category]; ok {
		return p
	}
	return DefaultUnitPrice
}

// Entries returns a copy of the table in price-sheet order.
func (t *Table) Entries() []PriceEntry {
	out := make([]PriceEntry, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, PriceEntry{Category: c, UnitPrice: t.prices[c]})
	}
	return out
}

// overrideFile is the on-disk shape of a price override sheet:
//
//	prices:
//	  "CLUB CHAIR": "45"
//	  "SOFA UP TO: 7'": 80
type overrideFile struct {
	Prices map[string]string `yaml:"prices"`
}

// WithOverrides returns a new Table with the given prices replaced. Only
// categories already in t may be overridden.
func (t *Table) WithOverrides(overrides map[constants.Category]decimal.Decimal) (*Table, error) {
	entries := t.Entries()
	for cat := range overrides {
		if _, ok := t.prices[cat]; !ok {
			return nil, fmt.Errorf("price override: unknown category %q", cat)
		}
	}
	for i := range entries {
		if p, ok := overrides[entries[i].Category]; ok {
			entries[i].UnitPrice = p
		}
	}
	return NewTable(entries)
}

// LoadOverrides reads a YAML price sheet from path and applies it on top of base.
func LoadOverrides(path string, base *Table) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price sheet: %w", err)
	}
	var f overrideFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse price sheet: %w", err)
	}

	overrides := make(map[constants.Category]decimal.Decimal, len(f.Prices))
	for k, v := range f.Prices {
		cat, ok := constants.Canonicalize(k)
		if !ok {
			return nil, fmt.Errorf("price override: unknown category %q (want one of: %s)",
				k, strings.Join(constants.AsStringSlice(), ", "))
		}
		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("price override %q: %w", k, err)
		}
		overrides[cat] = price
	}
	return base.WithOverrides(overrides)
}
