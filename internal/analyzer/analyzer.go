// Package analyzer computes aggregate views over a cleaned recipe dataset.
//
// Every operation is a pure read and a total function: when the dataset is
// absent, or a required column is missing, the operation returns its
// documented empty/default result instead of an error. Load failures are the
// caller's concern; the analyzer never raises.
package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/nutrilens/nutrilens/internal/dataset"
)

// Analyzer is a request-scoped session over one cleaned dataset. It holds no
// global state; callers build one per invocation and discard it.
type Analyzer struct {
	ds *dataset.Dataset
}

// New creates an analyzer over a cleaned dataset. A nil dataset is valid and
// yields empty results from every operation.
func New(ds *dataset.Dataset) *Analyzer {
	return &Analyzer{ds: ds}
}

// Summary holds the overall dataset statistics.
type Summary struct {
	TotalRecipes      int      `json:"total_recipes"`
	TotalDietTypes    int      `json:"total_diet_types"`
	TotalCuisineTypes int      `json:"total_cuisine_types"`
	DietTypes         []string `json:"diet_types"`
	MostCommonDiet    string   `json:"most_common_diet"`
	MostCommonCuisine string   `json:"most_common_cuisine"`
}

// DietComparison is one row of the per-diet comparison view.
type DietComparison struct {
	DietType     string  `json:"diet_type"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	TotalRecipes int     `json:"total_recipes"`
}

// RankedRecipe is one entry of a top-N ranking.
type RankedRecipe struct {
	RecipeName    string  `json:"recipe_name"`
	DietType      string  `json:"diet_type"`
	CuisineType   string  `json:"cuisine_type"`
	NutrientValue float64 `json:"nutrient_value"`
	NutrientType  string  `json:"nutrient_type"`
}

// NutrientRange holds the global statistics of one nutrient column.
type NutrientRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// RecipeDetail is the projection returned by RecipesByDietType.
type RecipeDetail struct {
	RecipeName  string  `json:"recipe_name"`
	CuisineType string  `json:"cuisine_type"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// SearchResult is the projection returned by Search.
type SearchResult struct {
	RecipeName  string  `json:"recipe_name"`
	DietType    string  `json:"diet_type"`
	CuisineType string  `json:"cuisine_type"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// RatioStats holds the mean macronutrient ratios over the dataset. Rows with
// a zero denominator are excluded from the corresponding mean.
type RatioStats struct {
	AvgProteinToCarbs float64 `json:"avg_protein_to_carbs"`
	AvgCarbsToFat     float64 `json:"avg_carbs_to_fat"`
}

// NoDataAvailable is returned by HighestProteinDietType when the question
// cannot be answered.
const NoDataAvailable = "No data available"

// Summary returns the overall dataset statistics. Missing diet/cuisine
// columns yield zero counts, an empty list and "Unknown" modes.
func (a *Analyzer) Summary() Summary {
	s := Summary{
		DietTypes:         []string{},
		MostCommonDiet:    dataset.FallbackCategory,
		MostCommonCuisine: dataset.FallbackCategory,
	}
	if a.ds == nil {
		return s
	}

	s.TotalRecipes = a.ds.Len()
	if a.ds.Has(dataset.ColDietType) {
		s.DietTypes = a.distinct(dataset.ColDietType)
		s.TotalDietTypes = len(s.DietTypes)
		if mode := dataset.Mode(a.ds, dataset.ColDietType); mode != "" {
			s.MostCommonDiet = mode
		}
	}
	if a.ds.Has(dataset.ColCuisineType) {
		s.TotalCuisineTypes = len(a.distinct(dataset.ColCuisineType))
		if mode := dataset.Mode(a.ds, dataset.ColCuisineType); mode != "" {
			s.MostCommonCuisine = mode
		}
	}
	return s
}

// MacronutrientAverages groups rows by diet type and returns the rounded
// mean of every present macronutrient column per group.
func (a *Analyzer) MacronutrientAverages() map[string]map[string]float64 {
	result := make(map[string]map[string]float64)

	nutrients := a.presentNutrients()
	if !a.hasColumn(dataset.ColDietType) || len(nutrients) == 0 {
		return result
	}

	order, groups := a.groupByDiet()
	for _, diet := range order {
		averages := make(map[string]float64, len(nutrients))
		for _, n := range nutrients {
			var sum float64
			for _, i := range groups[diet] {
				sum += a.ds.Recipes[i].Numeric(n.Column())
			}
			averages[string(n)] = round2(sum / float64(len(groups[diet])))
		}
		result[diet] = averages
	}
	return result
}

// DietComparison derives one comparison row per diet type from the averages,
// defaulting absent macronutrients to 0.
func (a *Analyzer) DietComparison() []DietComparison {
	result := make([]DietComparison, 0)
	averages := a.MacronutrientAverages()
	if len(averages) == 0 {
		return result
	}

	order, groups := a.groupByDiet()
	for _, diet := range order {
		macros := averages[diet]
		result = append(result, DietComparison{
			DietType:     diet,
			Protein:      macros[string(NutrientProtein)],
			Carbs:        macros[string(NutrientCarbs)],
			Fat:          macros[string(NutrientFat)],
			TotalRecipes: len(groups[diet]),
		})
	}
	return result
}

// TopByNutrient returns the n rows with the largest value in the nutrient
// column, descending. The sort is stable, so equal values keep input row
// order. Callers clamp n; an unknown or absent nutrient yields an empty
// list.
func (a *Analyzer) TopByNutrient(nutrient Nutrient, n int) []RankedRecipe {
	result := make([]RankedRecipe, 0)
	col := nutrient.Column()
	if col == "" || !a.hasColumn(col) || n <= 0 {
		return result
	}

	indices := a.sortedByNutrient(a.allIndices(), col)
	if n > len(indices) {
		n = len(indices)
	}
	for _, i := range indices[:n] {
		result = append(result, a.rankedRecipe(i, nutrient))
	}
	return result
}

// TopByNutrientPerDiet returns the n highest-value rows within each diet
// group, using the same stable descending order as TopByNutrient.
func (a *Analyzer) TopByNutrientPerDiet(nutrient Nutrient, n int) map[string][]RankedRecipe {
	result := make(map[string][]RankedRecipe)
	col := nutrient.Column()
	if col == "" || !a.hasColumn(col) || !a.hasColumn(dataset.ColDietType) || n <= 0 {
		return result
	}

	order, groups := a.groupByDiet()
	for _, diet := range order {
		indices := a.sortedByNutrient(groups[diet], col)
		limit := n
		if limit > len(indices) {
			limit = len(indices)
		}
		ranked := make([]RankedRecipe, 0, limit)
		for _, i := range indices[:limit] {
			ranked = append(ranked, a.rankedRecipe(i, nutrient))
		}
		result[diet] = ranked
	}
	return result
}

// CuisineDistribution counts cuisines per diet type.
func (a *Analyzer) CuisineDistribution() map[string]map[string]int {
	result := make(map[string]map[string]int)
	if !a.hasColumn(dataset.ColDietType) || !a.hasColumn(dataset.ColCuisineType) {
		return result
	}

	order, groups := a.groupByDiet()
	for _, diet := range order {
		counts := make(map[string]int)
		for _, i := range groups[diet] {
			counts[a.ds.Recipes[i].CuisineType]++
		}
		result[diet] = counts
	}
	return result
}

// NutrientRanges returns min, max, mean and median per present nutrient
// column, rounded to 2 decimals. Absent columns are omitted, not zeroed.
func (a *Analyzer) NutrientRanges() map[string]NutrientRange {
	result := make(map[string]NutrientRange)
	if a.ds == nil || a.ds.Len() == 0 {
		return result
	}

	for _, n := range a.presentNutrients() {
		values := make([]float64, 0, a.ds.Len())
		var sum float64
		for _, r := range a.ds.Recipes {
			v := r.Numeric(n.Column())
			values = append(values, v)
			sum += v
		}
		sort.Float64s(values)

		result[string(n)] = NutrientRange{
			Min:     round2(values[0]),
			Max:     round2(values[len(values)-1]),
			Average: round2(sum / float64(len(values))),
			Median:  round2(median(values)),
		}
	}
	return result
}

// RecipesByDietType returns every row whose diet type equals the argument
// exactly (case-sensitive), projected to name, cuisine and macronutrients.
func (a *Analyzer) RecipesByDietType(dietType string) []RecipeDetail {
	result := make([]RecipeDetail, 0)
	if !a.hasColumn(dataset.ColDietType) {
		return result
	}

	for _, r := range a.ds.Recipes {
		if r.DietType != dietType {
			continue
		}
		result = append(result, RecipeDetail{
			RecipeName:  a.textOrUnknown(r, dataset.ColRecipeName),
			CuisineType: a.textOrUnknown(r, dataset.ColCuisineType),
			Protein:     round2(r.Protein),
			Carbs:       round2(r.Carbs),
			Fat:         round2(r.Fat),
		})
	}
	return result
}

// SearchFields are the columns Search accepts. DefaultSearchField applies
// when the caller supplies none.
var SearchFields = []dataset.Column{
	dataset.ColRecipeName,
	dataset.ColDietType,
	dataset.ColCuisineType,
}

// DefaultSearchField is the column searched when no field is given.
const DefaultSearchField = dataset.ColRecipeName

// IsSearchField reports whether the named column can be searched.
func IsSearchField(field string) bool {
	for _, col := range SearchFields {
		if string(col) == field {
			return true
		}
	}
	return false
}

// Search returns rows whose value in the given field contains the term as a
// case-insensitive substring. Rows with an empty field value never match.
// Empty terms are rejected by the calling layer before reaching this
// operation; an unknown or absent field yields an empty list.
func (a *Analyzer) Search(term, field string) []SearchResult {
	result := make([]SearchResult, 0)
	if field == "" {
		field = string(DefaultSearchField)
	}
	if !IsSearchField(field) || !a.hasColumn(dataset.Column(field)) {
		return result
	}

	needle := strings.ToLower(term)
	for _, r := range a.ds.Recipes {
		value := r.Text(dataset.Column(field))
		if value == "" || !strings.Contains(strings.ToLower(value), needle) {
			continue
		}
		result = append(result, SearchResult{
			RecipeName:  a.textOrUnknown(r, dataset.ColRecipeName),
			DietType:    a.textOrUnknown(r, dataset.ColDietType),
			CuisineType: a.textOrUnknown(r, dataset.ColCuisineType),
			Protein:     round2(r.Protein),
			Carbs:       round2(r.Carbs),
			Fat:         round2(r.Fat),
		})
	}
	return result
}

// HighestProteinDietType returns the diet type with the highest average
// protein content, ties going to the first-seen diet type.
func (a *Analyzer) HighestProteinDietType() string {
	averages := a.MacronutrientAverages()
	if len(averages) == 0 {
		return NoDataAvailable
	}
	if !a.hasColumn(dataset.ColProtein) {
		return NoDataAvailable
	}

	order, _ := a.groupByDiet()
	best := ""
	bestValue := math.Inf(-1)
	for _, diet := range order {
		if v := averages[diet][string(NutrientProtein)]; v > bestValue {
			best = diet
			bestValue = v
		}
	}
	return best
}

// Ratios returns the mean protein-to-carbs and carbs-to-fat ratios, skipping
// rows whose denominator is zero. Missing columns leave the corresponding
// mean at 0.
func (a *Analyzer) Ratios() RatioStats {
	var stats RatioStats
	if a.ds == nil {
		return stats
	}

	if a.hasColumn(dataset.ColProtein) && a.hasColumn(dataset.ColCarbs) {
		stats.AvgProteinToCarbs = a.meanRatio(dataset.ColProtein, dataset.ColCarbs)
	}
	if a.hasColumn(dataset.ColCarbs) && a.hasColumn(dataset.ColFat) {
		stats.AvgCarbsToFat = a.meanRatio(dataset.ColCarbs, dataset.ColFat)
	}
	return stats
}

func (a *Analyzer) meanRatio(num, den dataset.Column) float64 {
	var sum float64
	var count int
	for _, r := range a.ds.Recipes {
		d := r.Numeric(den)
		if d == 0 {
			continue
		}
		sum += r.Numeric(num) / d
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (a *Analyzer) hasColumn(col dataset.Column) bool {
	return a.ds != nil && a.ds.Has(col)
}

// distinct returns the unique values of a text column in first-seen order.
func (a *Analyzer) distinct(col dataset.Column) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, r := range a.ds.Recipes {
		v := r.Text(col)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

// groupByDiet groups row indices by diet type, preserving first-seen group
// order for deterministic output.
func (a *Analyzer) groupByDiet() ([]string, map[string][]int) {
	groups := make(map[string][]int)
	var order []string
	for i, r := range a.ds.Recipes {
		if _, seen := groups[r.DietType]; !seen {
			order = append(order, r.DietType)
		}
		groups[r.DietType] = append(groups[r.DietType], i)
	}
	return order, groups
}

// sortedByNutrient stable-sorts row indices descending by a nutrient column.
func (a *Analyzer) sortedByNutrient(indices []int, col dataset.Column) []int {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.SliceStable(sorted, func(x, y int) bool {
		return a.ds.Recipes[sorted[x]].Numeric(col) > a.ds.Recipes[sorted[y]].Numeric(col)
	})
	return sorted
}

func (a *Analyzer) allIndices() []int {
	indices := make([]int, a.ds.Len())
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func (a *Analyzer) presentNutrients() []Nutrient {
	present := make([]Nutrient, 0, len(Nutrients))
	for _, n := range Nutrients {
		if a.hasColumn(n.Column()) {
			present = append(present, n)
		}
	}
	return present
}

func (a *Analyzer) rankedRecipe(i int, nutrient Nutrient) RankedRecipe {
	r := a.ds.Recipes[i]
	return RankedRecipe{
		RecipeName:    a.textOrUnknown(r, dataset.ColRecipeName),
		DietType:      a.textOrUnknown(r, dataset.ColDietType),
		CuisineType:   a.textOrUnknown(r, dataset.ColCuisineType),
		NutrientValue: round2(r.Numeric(nutrient.Column())),
		NutrientType:  string(nutrient),
	}
}

func (a *Analyzer) textOrUnknown(r dataset.Recipe, col dataset.Column) string {
	if !a.hasColumn(col) {
		return dataset.FallbackCategory
	}
	return r.Text(col)
}

// round2 rounds half to even at 2 decimal places.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// median expects values to be sorted ascending.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
