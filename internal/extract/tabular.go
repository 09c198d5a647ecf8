package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

// Header aliases, in preference order.
var (
	nameHeaders     = []string{"ITEM", "DESCRIPTION"}
	quantityHeaders = []string{"QUANTITY", "QTY"}
)

// sheetReader returns the first sheet of a workbook as string cells.
type sheetReader func(r io.ReaderAt, size int64) ([][]string, error)

// TabularExtractor reads spreadsheets whose first row is a header.
type TabularExtractor struct {
	read   sheetReader
	method string
	logger *slog.Logger
}

func NewTabularExtractor(read sheetReader, method string, logger *slog.Logger) *TabularExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TabularExtractor{read: read, method: method, logger: logger}
}

func (e *TabularExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (ExtractionResult, error) {
	start := time.Now()
	res := ExtractionResult{Format: constants.FormatTabular, Method: e.method}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	rows, err := e.read(r, size)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrUnreadable, e.method, err)
	}

	res.Items, res.Warnings = itemsFromRows(rows)
	if len(rows) > 0 {
		res.Rows = len(rows) - 1
	}
	res.Duration = time.Since(start)

	e.logger.Debug("extract.tabular.ok",
		"method", e.method,
		"rows", res.Rows,
		"items", len(res.Items),
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// itemsFromRows applies the header contract to a sheet. Fully blank rows are
// skipped; a row with an unparsable quantity is skipped with a warning.
func itemsFromRows(rows [][]string) ([]entity.Item, []string) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToUpper(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	nameCol := pickColumn(index, nameHeaders)
	qtyCol := pickColumn(index, quantityHeaders)

	var items []entity.Item
	var warnings []string
	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		qty := 1
		if raw := strings.TrimSpace(cell(row, qtyCol)); raw != "" {
			q, err := parseQuantity(raw)
			if err != nil {
				// +2: one for the header, one for 1-based sheet rows
				warnings = append(warnings, fmt.Sprintf("row %d: invalid quantity %q", n+2, raw))
				continue
			}
			qty = q
		}
		items = append(items, entity.Item{
			Name:     strings.ToUpper(strings.TrimSpace(cell(row, nameCol))),
			Quantity: qty,
		})
	}
	return items, warnings
}

func pickColumn(index map[string]int, aliases []string) int {
	for _, a := range aliases {
		if i, ok := index[a]; ok {
			return i
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseQuantity accepts integers and whole-valued numbers such as "2.0".
// Fractional values truncate toward zero.
func parseQuantity(raw string) (int, error) {
	raw = strings.ReplaceAll(raw, ",", "")
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return int(f), nil
}

func readXLSX(r io.ReaderAt, size int64) ([][]string, error) {
	f, err := excelize.OpenReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func readXLS(r io.ReaderAt, size int64) (rows [][]string, err error) {
	// the legacy BIFF reader panics on some truncated files
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("xls reader: %v", p)
		}
	}()

	wb, err := xls.OpenReader(io.NewSectionReader(r, 0, size), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// xlsRow returns nil for rows the sheet has no record of; WorkSheet.Row
// dereferences the missing entry.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
