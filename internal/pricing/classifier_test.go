package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want constants.Category
	}{
		{"SOFA 10FT", constants.Sofa10},
		{"sectional sofa 10'", constants.Sofa10},
		{"SOFA 9FT", constants.Sofa9},
		{"SOFA 8FT", constants.Sofa8},
		{"SOFA", constants.Sofa7},
		{"LEATHER SOFA", constants.Sofa7},
		{"SOFA 108", constants.Sofa10},
		{"SOFA 98", constants.Sofa9},
		{"LOVESEAT", constants.LoveseatChaise},
		{"CHAISE LOUNGE", constants.LoveseatChaise},
		{"OTTOMAN SMALL", constants.Ottoman},
		{"CHAIR AND OTTOMAN", constants.Ottoman},
		{"RECLINER CHAIR", constants.ClubChair},
		{"SIDE TABLE", constants.SideTable},
		{"NIGHTSTAND OAK", constants.SideTable},
		{"COFFEE TABLE", constants.CocktailTable},
		{"COCKTAIL TABLE 48", constants.CocktailTable},
		{"SOFA TABLE", constants.Sofa7},
		{"ARMOIRE", constants.ClubChair},
		{"", constants.ClubChair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestClassify_AlwaysPriced(t *testing.T) {
	table := DefaultTable()
	for _, name := range []string{"SOFA", "DESK", "LAMP", "chaise", "Nightstand", "12 - BED"} {
		_, ok := table.Lookup(Classify(name))
		assert.True(t, ok, "classify(%q) produced an unpriced category", name)
	}
}

func TestClassifyAndPrice(t *testing.T) {
	table := DefaultTable()

	cat := Classify("RECLINER CHAIR")
	require.Equal(t, constants.ClubChair, cat)
	assert.Equal(t, "40", table.PriceFor(cat).String())

	cat = Classify("OTTOMAN SMALL")
	require.Equal(t, constants.Ottoman, cat)
	assert.Equal(t, "30", table.PriceFor(cat).String())
}
