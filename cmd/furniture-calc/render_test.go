package main

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
	"github.com/joseph-ayodele/furniture-charges/internal/ingest"
	"github.com/joseph-ayodele/furniture-charges/internal/pricing"
)

func TestRenderResult(t *testing.T) {
	res := charges.Calculate([]entity.LineItem{{
		Name: "SOFA 10FT", Quantity: 12, Category: constants.Sofa10,
		UnitPrice: decimal.NewFromInt(150), StorageDurationMonths: 1,
	}})

	var buf bytes.Buffer
	renderResult(&buf, "move.xlsx", res)
	out := buf.String()
	assert.Contains(t, out, "move.xlsx")
	assert.Contains(t, out, "SOFA UP TO: 10'")
	assert.Contains(t, out, "Total Receiving Charges: $1,800.00")
	assert.Contains(t, out, "Total Storage Charges:   $1,800.00")
}

func TestRenderPriceSheet(t *testing.T) {
	var buf bytes.Buffer
	renderPriceSheet(&buf, pricing.DefaultTable())
	assert.Contains(t, buf.String(), `COCKTAIL TABLE UP TO 48"`)
	assert.Contains(t, buf.String(), "$150.00")
}

func TestRenderBatch(t *testing.T) {
	var buf bytes.Buffer
	renderBatch(&buf, []ingest.FileResult{
		{SourcePath: "a.xlsx", Status: constants.RunStatusOK, Items: 3},
		{SourcePath: "b.xlsx", Deduplicated: true, Status: constants.RunStatusOK},
	}, ingest.DirStats{Matched: 2, Succeeded: 1, Deduplicated: 1})
	assert.Contains(t, buf.String(), "DUPLICATE")
	assert.Contains(t, buf.String(), "matched=2 succeeded=1 empty=0 duplicates=1 failed=0")
}
