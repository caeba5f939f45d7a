// Package dataset loads the recipe CSV into an in-memory table and fills
// missing values (column mean for macronutrients, column mode for
// categorical fields).
package dataset

// Column identifies one of the expected columns in the recipe schema.
// Columns absent from a source file are simply not present on the Dataset;
// extra columns in the source are ignored.
type Column string

const (
	ColRecipeName  Column = "Recipe_name"
	ColDietType    Column = "Diet_type"
	ColCuisineType Column = "Cuisine_type"
	ColProtein     Column = "Protein(g)"
	ColCarbs       Column = "Carbs(g)"
	ColFat         Column = "Fat(g)"
)

// ExpectedColumns is the schema contract with the source file.
var ExpectedColumns = []Column{
	ColRecipeName,
	ColDietType,
	ColCuisineType,
	ColProtein,
	ColCarbs,
	ColFat,
}

// NumericColumns are the macronutrient measurements, in grams.
var NumericColumns = []Column{ColProtein, ColCarbs, ColFat}

// CategoricalColumns are the text category columns subject to mode fill.
var CategoricalColumns = []Column{ColDietType, ColCuisineType}

// Recipe is a single cleaned row. Missing values only exist between parse
// and Clean; after Clean every present column has a value in every row.
type Recipe struct {
	Name        string
	DietType    string
	CuisineType string
	Protein     float64
	Carbs       float64
	Fat         float64
}

// Dataset is an ordered, read-only sequence of recipes sharing a fixed
// schema. It is built fresh per invocation and never mutated after Clean.
type Dataset struct {
	Recipes []Recipe

	columns map[Column]bool
}

// Has reports whether the column was present in the source file.
func (d *Dataset) Has(col Column) bool {
	return d != nil && d.columns[col]
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Recipes)
}

// Numeric returns the value of a numeric column for a recipe.
func (r Recipe) Numeric(col Column) float64 {
	switch col {
	case ColProtein:
		return r.Protein
	case ColCarbs:
		return r.Carbs
	case ColFat:
		return r.Fat
	}
	return 0
}

// Text returns the value of a text column for a recipe.
func (r Recipe) Text(col Column) string {
	switch col {
	case ColRecipeName:
		return r.Name
	case ColDietType:
		return r.DietType
	case ColCuisineType:
		return r.CuisineType
	}
	return ""
}

func (r *Recipe) setNumeric(col Column, v float64) {
	switch col {
	case ColProtein:
		r.Protein = v
	case ColCarbs:
		r.Carbs = v
	case ColFat:
		r.Fat = v
	}
}

func (r *Recipe) setText(col Column, v string) {
	switch col {
	case ColRecipeName:
		r.Name = v
	case ColDietType:
		r.DietType = v
	case ColCuisineType:
		r.CuisineType = v
	}
}
