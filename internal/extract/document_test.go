package extract

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

func extractDOCX(t *testing.T, paragraphs ...string) ExtractionResult {
	t.Helper()
	data := buildDOCX(t, paragraphs...)
	e, err := ForFilename("List.DOCX", nil)
	require.NoError(t, err)
	res, err := e.Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return res
}

func TestDocument_MatchingLine(t *testing.T) {
	res := extractDOCX(t, "3 - Club Chair")
	assert.Equal(t, []entity.Item{{Name: "CLUB CHAIR", Quantity: 3}}, res.Items)
	assert.Equal(t, constants.FormatDocument, res.Format)
}

func TestDocument_NoLeadingNumber(t *testing.T) {
	res := extractDOCX(t, "Club Chair")
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Rows)
}

func TestDocument_MixedContent(t *testing.T) {
	res := extractDOCX(t,
		"Inventory for 12 Elm St",
		"",
		"2 – sofa 8ft",
		"  1-nightstand  ",
		"4 -",
		"table:5 - ottoman",
		"10 - Coffee Table",
	)
	assert.Equal(t, []entity.Item{
		{Name: "SOFA 8FT", Quantity: 2},
		{Name: "NIGHTSTAND", Quantity: 1},
		{Name: "COFFEE TABLE", Quantity: 10},
	}, res.Items)
}

func TestDocument_Empty(t *testing.T) {
	res := extractDOCX(t)
	assert.Empty(t, res.Items)
}

func TestDocument_Unreadable(t *testing.T) {
	e := NewDocumentExtractor(nil)
	data := []byte("PK not really")
	_, err := e.Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want entity.Item
		ok   bool
	}{
		{"3 - Club Chair", entity.Item{Name: "CLUB CHAIR", Quantity: 3}, true},
		{"3–Loveseat", entity.Item{Name: "LOVESEAT", Quantity: 3}, true},
		{"12   -   Side Table  ", entity.Item{Name: "SIDE TABLE", Quantity: 12}, true},
		{"3\u00a0- Club Chair", entity.Item{Name: "CLUB CHAIR", Quantity: 3}, true},
		{"3\u2009–\u2009Sofa 8", entity.Item{Name: "SOFA 8", Quantity: 3}, true},
		{"Club Chair", entity.Item{}, false},
		{"- 3 Club Chair", entity.Item{}, false},
		{"3 x Club Chair", entity.Item{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestForFilename_Unsupported(t *testing.T) {
	for _, name := range []string{"list.pdf", "list.csv", "list", "list.doc"} {
		_, err := ForFilename(name, nil)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, common.ErrUnsupportedFormat), name)
	}
}
