package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
	"github.com/joseph-ayodele/furniture-charges/internal/extract"
	"github.com/joseph-ayodele/furniture-charges/internal/observability/metrics"
	"github.com/joseph-ayodele/furniture-charges/internal/pricing"
)

// ProcessResult is the editable table produced from one upload.
type ProcessResult struct {
	Filename string            `json:"filename"`
	Format   constants.Format  `json:"format"`
	Items    []entity.LineItem `json:"items"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Processor coordinates extraction (document -> items) then classification
// and pricing (items -> editable rows).
type Processor struct {
	logger        *slog.Logger
	table         *pricing.Table
	defaultMonths int
}

func NewProcessor(logger *slog.Logger, table *pricing.Table, defaultMonths int) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if table == nil {
		table = pricing.DefaultTable()
	}
	if defaultMonths <= 0 {
		defaultMonths = 1
	}
	return &Processor{
		logger:        logger,
		table:         table,
		defaultMonths: defaultMonths,
	}
}

// Table returns the price table rows are priced against.
func (p *Processor) Table() *pricing.Table {
	return p.table
}

// ProcessFile extracts, classifies and prices the items of one uploaded file.
// An unsupported extension is an error; an empty or unreadable document
// yields an empty table and a warning instead.
func (p *Processor) ProcessFile(ctx context.Context, filename string, r io.ReaderAt, size int64) (ProcessResult, error) {
	out := ProcessResult{Filename: filepath.Base(filename)}

	extractor, err := extract.ForFilename(filename, p.logger)
	if err != nil {
		p.logger.Warn("processor.unsupported", "filename", out.Filename, "error", err)
		metrics.ObserveExtract("unsupported", metrics.ResultError, 0, 0)
		return out, err
	}
	out.Format = constants.MapExtToFormat(filepath.Ext(filename))

	start := time.Now()
	res, err := extractor.Extract(ctx, r, size)
	switch {
	case errors.Is(err, extract.ErrUnreadable):
		p.logger.Warn("processor.extract.unreadable", "filename", out.Filename, "error", err)
		metrics.ObserveExtract(string(out.Format), metrics.ResultEmpty, 0, time.Since(start))
		out.Items = []entity.LineItem{}
		out.Warnings = append(out.Warnings, "document could not be read; no items extracted")
		return out, nil
	case err != nil:
		metrics.ObserveExtract(string(out.Format), metrics.ResultError, 0, time.Since(start))
		return out, fmt.Errorf("extract %s: %w", out.Filename, err)
	}

	result := metrics.ResultSuccess
	if len(res.Items) == 0 {
		result = metrics.ResultEmpty
	}
	metrics.ObserveExtract(string(out.Format), result, len(res.Items), res.Duration)

	out.Items = p.BuildRows(res.Items)
	out.Warnings = append(out.Warnings, res.Warnings...)

	p.logger.Info("processor.file.ok",
		"filename", out.Filename,
		"method", res.Method,
		"rows", res.Rows,
		"items", len(out.Items),
		"warnings", len(out.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ProcessPath opens a file on disk and runs ProcessFile on it.
func (p *Processor) ProcessPath(ctx context.Context, path string) (ProcessResult, error) {
	if _, err := extract.ForFilename(path, p.logger); err != nil {
		return ProcessResult{Filename: filepath.Base(path)}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return ProcessResult{Filename: filepath.Base(path)}, common.WrapError(err, "open inventory")
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			p.logger.Error("close file error", "path", path, "error", err)
		}
	}(f)

	st, err := f.Stat()
	if err != nil {
		return ProcessResult{Filename: filepath.Base(path)}, err
	}
	return p.ProcessFile(ctx, path, f, st.Size())
}

// BuildRows classifies and prices raw items, defaulting storage duration.
func (p *Processor) BuildRows(items []entity.Item) []entity.LineItem {
	rows := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		row := p.Row(it, "")
		metrics.IncCategory(string(row.Category))
		rows = append(rows, row)
	}
	return rows
}

// Row prices a single item at the default storage duration. An empty
// category is filled by the classifier. Row records no metrics.
func (p *Processor) Row(it entity.Item, cat constants.Category) entity.LineItem {
	if cat == "" {
		cat = pricing.Classify(it.Name)
	}
	return entity.LineItem{
		Name:                  it.Name,
		Quantity:              it.Quantity,
		Category:              cat,
		UnitPrice:             p.table.PriceFor(cat),
		StorageDurationMonths: p.defaultMonths,
	}
}

// Calculate runs the charge calculator over a (possibly edited) table.
func (p *Processor) Calculate(ctx context.Context, rows []entity.LineItem) charges.Result {
	res := charges.Calculate(rows)
	metrics.ObserveCalculate(len(rows))
	p.logger.DebugContext(ctx, "processor.calculate.ok",
		"rows", len(res.Rows),
		"receiving_total", res.Totals.Receiving.String(),
		"storage_total", res.Totals.Storage.String(),
	)
	return res
}
