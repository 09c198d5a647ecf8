package constants

import (
	"strings"
)

// Category is a billing rate category. Values are the exact labels printed on
// the price sheet.
type Category string

const (
	ClubChair      Category = "CLUB CHAIR"
	Ottoman        Category = "OTTOMAN"
	ChairOttoman   Category = "CHAIR & OTTOMAN"
	LoveseatChaise Category = "LOVESEAT / CHAISE"
	Sofa7          Category = "SOFA UP TO: 7'"
	Sofa8          Category = "SOFA UP TO: 8'"
	Sofa9          Category = "SOFA UP TO: 9'"
	Sofa10         Category = "SOFA UP TO: 10'"
	SideTable      Category = "SIDE TABLE / NIGHTSTAND"
	CocktailTable  Category = "COCKTAIL TABLE UP TO 48\""
)

var allCategories = []Category{
	ClubChair,
	Ottoman,
	ChairOttoman,
	LoveseatChaise,
	Sofa7,
	Sofa8,
	Sofa9,
	Sofa10,
	SideTable,
	CocktailTable,
}

// AllCategories returns the categories in price-sheet order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps user-typed category text onto a known category.
// Matching is case- and surrounding-whitespace-insensitive.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	if normalized == "" {
		return ClubChair, false
	}

	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}
	return ClubChair, false
}
