package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/ingest"
	"github.com/joseph-ayodele/furniture-charges/internal/pricing"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	return t
}

func renderResult(w io.Writer, title string, res charges.Result) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	t := newTable(w, "Item", "Quantity", "Rate Category", "Unit Price", "Months", "Receiving Total", "Storage Total")
	for _, r := range res.Rows {
		t.Append([]string{
			r.Name,
			strconv.Itoa(r.Quantity),
			string(r.Category),
			charges.FormatCurrency(r.UnitPrice),
			strconv.Itoa(r.StorageDurationMonths),
			charges.FormatCurrency(r.ReceivingTotal),
			charges.FormatCurrency(r.StorageTotal),
		})
	}
	t.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	t.Render()
	fmt.Fprintf(w, "Total Receiving Charges: %s\n", charges.FormatCurrency(res.Totals.Receiving))
	fmt.Fprintf(w, "Total Storage Charges:   %s\n", charges.FormatCurrency(res.Totals.Storage))
}

func renderPriceSheet(w io.Writer, table *pricing.Table) {
	t := newTable(w, "Category", "Unit Price")
	for _, e := range table.Entries() {
		t.Append([]string{string(e.Category), charges.FormatCurrency(e.UnitPrice)})
	}
	t.Render()
	fmt.Fprintf(w, "Unlisted categories are billed at %s.\n", charges.FormatCurrency(pricing.DefaultUnitPrice))
}

func renderBatch(w io.Writer, results []ingest.FileResult, stats ingest.DirStats) {
	t := newTable(w, "File", "Status", "Items", "Output", "Elapsed", "Error")
	for _, r := range results {
		status := string(r.Status)
		if r.Deduplicated {
			status = "DUPLICATE"
		}
		t.Append([]string{
			r.SourcePath,
			status,
			strconv.Itoa(r.Items),
			r.OutputPath,
			r.Elapsed.Round(time.Millisecond).String(),
			r.Err,
		})
	}
	t.Render()
	fmt.Fprintf(w, "matched=%d succeeded=%d empty=%d duplicates=%d failed=%d\n",
		stats.Matched, stats.Succeeded, stats.Empty, stats.Deduplicated, stats.Failed)
}
