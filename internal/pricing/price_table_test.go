package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	entries := table.Entries()
	require.Len(t, entries, 10)

	want := map[constants.Category]int64{
		constants.ClubChair:      40,
		constants.Ottoman:        30,
		constants.ChairOttoman:   60,
		constants.LoveseatChaise: 75,
		constants.Sofa7:          75,
		constants.Sofa8:          100,
		constants.Sofa9:          125,
		constants.Sofa10:         150,
		constants.SideTable:      30,
		constants.CocktailTable:  50,
	}
	for _, e := range entries {
		w, ok := want[e.Category]
		require.True(t, ok, "unexpected category %q", e.Category)
		assert.True(t, decimal.NewFromInt(w).Equal(e.UnitPrice), "%s: got %s", e.Category, e.UnitPrice)
	}
	assert.Equal(t, constants.AllCategories()[0], entries[0].Category)
}

func TestPriceFor_UnknownCategory(t *testing.T) {
	got := DefaultTable().PriceFor("WARDROBE")
	assert.True(t, DefaultUnitPrice.Equal(got))
}

func TestEntriesIsACopy(t *testing.T) {
	table := DefaultTable()
	entries := table.Entries()
	entries[0].UnitPrice = decimal.NewFromInt(1)
	assert.Equal(t, "40", table.PriceFor(constants.ClubChair).String())
}

func TestNewTable_Rejects(t *testing.T) {
	_, err := NewTable([]PriceEntry{{Category: constants.Ottoman, UnitPrice: decimal.Zero}})
	assert.Error(t, err)

	_, err = NewTable([]PriceEntry{{Category: "", UnitPrice: decimal.NewFromInt(1)}})
	assert.Error(t, err)

	_, err = NewTable([]PriceEntry{
		{Category: constants.Ottoman, UnitPrice: decimal.NewFromInt(1)},
		{Category: constants.Ottoman, UnitPrice: decimal.NewFromInt(2)},
	})
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prices:\n  \"club chair\": \"45.50\"\n  \"SOFA UP TO: 7'\": 80\n"), 0o644))

	table, err := LoadOverrides(path, DefaultTable())
	require.NoError(t, err)

	assert.Equal(t, "45.5", table.PriceFor(constants.ClubChair).String())
	assert.Equal(t, "80", table.PriceFor(constants.Sofa7).String())
	assert.Equal(t, "30", table.PriceFor(constants.Ottoman).String())
	// base is untouched
	assert.Equal(t, "40", DefaultTable().PriceFor(constants.ClubChair).String())
}

func TestLoadOverrides_UnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prices:\n  BOOKCASE: 10\n"), 0o644))

	_, err := LoadOverrides(path, DefaultTable())
	assert.ErrorContains(t, err, "unknown category")
}

func TestLoadOverrides_NonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prices:\n  OTTOMAN: \"-5\"\n"), 0o644))

	_, err := LoadOverrides(path, DefaultTable())
	assert.Error(t, err)
}
