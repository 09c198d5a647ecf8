package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

func sampleResult() charges.Result {
	return charges.Calculate([]entity.LineItem{
		{Name: "SOFA 8FT", Quantity: 2, Category: constants.Sofa8, UnitPrice: decimal.NewFromInt(100), StorageDurationMonths: 3},
		{Name: "CLUB CHAIR", Quantity: 1, Category: constants.ClubChair, UnitPrice: decimal.NewFromInt(40), StorageDurationMonths: 1},
	})
}

func TestBuildResultsXLSX(t *testing.T) {
	data, err := BuildResultsXLSX("", sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{resultsSheet}, f.GetSheetList())
	rows, err := f.GetRows(resultsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)

	assert.Equal(t, resultHeaders, rows[0])
	assert.Equal(t, []string{"SOFA 8FT", "2", "SOFA UP TO: 8'", "100", "3", "200", "600"}, rows[1])
	assert.Equal(t, []string{"CLUB CHAIR", "1", "CLUB CHAIR", "40", "1", "40", "40"}, rows[2])
	assert.Equal(t, []string{"Total Receiving Charges", "240"}, rows[4])
	assert.Equal(t, []string{"Total Storage Charges", "640"}, rows[5])
}

func TestBuildResultsXLSX_Title(t *testing.T) {
	data, err := BuildResultsXLSX("move.xlsx", sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue(resultsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "move.xlsx", v)
	v, err = f.GetCellValue(resultsSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Item", v)
}

func TestBuildResultsPDF(t *testing.T) {
	data, err := BuildResultsPDF("Inventory – Elm St", sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestServiceExport(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, format := range []Format{FormatXLSX, FormatPDF} {
		out, err := svc.Export(context.Background(), format, "quote", sampleResult())
		require.NoError(t, err, format)
		assert.NotEmpty(t, out, format)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
