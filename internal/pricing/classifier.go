package pricing

import (
	"strings"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

// rule is one guarded step of the classification decision list.
type rule struct {
	keywords []string
	resolve  func(name string) constants.Category
}

func (r rule) matches(name string) bool {
	for _, k := range r.keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func always(c constants.Category) func(string) constants.Category {
	return func(string) constants.Category { return c }
}

// Evaluated in order; the first matching rule wins.
var rules = []rule{
	{keywords: []string{"SOFA"}, resolve: sofaTier},
	{keywords: []string{"LOVESEAT", "CHAISE"}, resolve: always(constants.LoveseatChaise)},
	{keywords: []string{"OTTOMAN"}, resolve: always(constants.Ottoman)},
	{keywords: []string{"CHAIR"}, resolve: always(constants.ClubChair)},
	{keywords: []string{"SIDE TABLE", "NIGHTSTAND"}, resolve: always(constants.SideTable)},
	{keywords: []string{"COFFEE TABLE", "COCKTAIL"}, resolve: always(constants.CocktailTable)},
}

// fallback is a safety net, not a meaningful match.
const fallback = constants.ClubChair

// sofaTier picks a size tier by raw substring. "10" is tested before "9" and
// "8", so a name like "SOFA 108" lands in the 10' tier.
func sofaTier(name string) constants.Category {
	switch {
	case strings.Contains(name, "10"):
		return constants.Sofa10
	case strings.Contains(name, "9"):
		return constants.Sofa9
	case strings.Contains(name, "8"):
		return constants.Sofa8
	default:
		return constants.Sofa7
	}
}

// Classify maps a free-text item description onto a billing category. It
// always returns a category present in the default price table.
func Classify(name string) constants.Category {
	upper := strings.ToUpper(name)
	for _, r := range rules {
		if r.matches(upper) {
			return r.resolve(upper)
		}
	}
	return fallback
}
