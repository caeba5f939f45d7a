package analyzer

import (
	"strings"

	"github.com/nutrilens/nutrilens/internal/dataset"
)

// Nutrient identifies one of the supported macronutrient columns. Boundary
// layers parse caller input with ParseNutrient and reject anything else
// instead of building column names from strings.
type Nutrient string

const (
	NutrientProtein Nutrient = "Protein"
	NutrientCarbs   Nutrient = "Carbs"
	NutrientFat     Nutrient = "Fat"
)

// Nutrients lists every supported nutrient identifier.
var Nutrients = []Nutrient{NutrientProtein, NutrientCarbs, NutrientFat}

// ParseNutrient resolves a case-insensitive nutrient name.
func ParseNutrient(s string) (Nutrient, bool) {
	for _, n := range Nutrients {
		if strings.EqualFold(s, string(n)) {
			return n, true
		}
	}
	return "", false
}

// Column returns the dataset column the nutrient maps to.
func (n Nutrient) Column() dataset.Column {
	switch n {
	case NutrientProtein:
		return dataset.ColProtein
	case NutrientCarbs:
		return dataset.ColCarbs
	case NutrientFat:
		return dataset.ColFat
	}
	return ""
}

func (n Nutrient) String() string {
	return string(n)
}
