package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/observability/metrics"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "xlsx" or "pdf" (case-insensitive); empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Columns of the results table, in display order.
var resultHeaders = []string{
	"Item",
	"Quantity",
	"Rate Category",
	"Unit Price",
	"Storage Duration (Months)",
	"Receiving Total",
	"Storage Total",
}

const (
	resultsSheet  = "Results"
	currencyStyle = `"$"#,##0.00`
)

// Service is a small façade that renders calculation results to files.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Export renders res in the requested format.
func (s *Service) Export(ctx context.Context, format Format, title string, res charges.Result) ([]byte, error) {
	start := time.Now()

	var (
		out []byte
		err error
	)
	switch format {
	case FormatPDF:
		out, err = BuildResultsPDF(title, res)
	default:
		format = FormatXLSX
		out, err = BuildResultsXLSX(title, res)
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveExport(string(format), result, time.Since(start))
	if err != nil {
		s.logger.ErrorContext(ctx, "export.failed", "format", format, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "export.ok",
		"format", format,
		"rows", len(res.Rows),
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// BuildResultsXLSX returns a workbook with the results table followed by the
// two aggregate lines. Money cells are numeric with a currency number format.
func BuildResultsXLSX(title string, res charges.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return nil, err
	}
	sheet := resultsSheet

	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(currencyStyle)})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	row := 1
	if title != "" {
		_ = f.SetCellValue(sheet, "A1", title)
		_ = f.SetCellStyle(sheet, "A1", "A1", bold)
		row = 3
	}

	for i, h := range resultHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(resultHeaders), row)
	_ = f.SetCellStyle(sheet, first, last, bold)
	row++

	for _, r := range res.Rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Name)
		write(2, r.Quantity)
		write(3, string(r.Category))
		write(4, r.UnitPrice.InexactFloat64())
		write(5, r.StorageDurationMonths)
		write(6, r.ReceivingTotal.InexactFloat64())
		write(7, r.StorageTotal.InexactFloat64())

		from, _ := excelize.CoordinatesToCellName(4, row)
		to, _ := excelize.CoordinatesToCellName(4, row)
		_ = f.SetCellStyle(sheet, from, to, money)
		from, _ = excelize.CoordinatesToCellName(6, row)
		to, _ = excelize.CoordinatesToCellName(7, row)
		_ = f.SetCellStyle(sheet, from, to, money)
		row++
	}

	row++
	summary := []struct {
		label string
		value float64
	}{
		{"Total Receiving Charges", res.Totals.Receiving.InexactFloat64()},
		{"Total Storage Charges", res.Totals.Storage.InexactFloat64()},
	}
	for _, s := range summary {
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, label, s.label)
		_ = f.SetCellStyle(sheet, label, label, bold)
		_ = f.SetCellValue(sheet, value, s.value)
		_ = f.SetCellStyle(sheet, value, value, money)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // item
	_ = f.SetColWidth(sheet, "B", "B", 14) // quantity / totals
	_ = f.SetColWidth(sheet, "C", "C", 28) // category
	_ = f.SetColWidth(sheet, "D", "E", 16)
	_ = f.SetColWidth(sheet, "F", "G", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildResultsPDF renders the results table and totals on A4 landscape.
func BuildResultsPDF(title string, res charges.Result) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	if title == "" {
		title = "Furniture Charges"
	}
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(12)

	widths := []float64{70, 22, 60, 26, 34, 30, 30}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range resultHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range res.Rows {
		pdf.CellFormat(widths[0], 6, tr(truncate(r.Name, 40)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", r.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(string(r.Category)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, charges.FormatCurrency(r.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%d", r.StorageDurationMonths), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, charges.FormatCurrency(r.ReceivingTotal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, charges.FormatCurrency(r.StorageTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "Total Receiving Charges: "+charges.FormatCurrency(res.Totals.Receiving))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Total Storage Charges: "+charges.FormatCurrency(res.Totals.Storage))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strPtr(s string) *string { return &s }

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
