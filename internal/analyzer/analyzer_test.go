package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilens/nutrilens/internal/dataset"
)

const testCSV = `Recipe_name,Diet_type,Cuisine_type,Protein(g),Carbs(g),Fat(g)
Pasta Primavera,vegan,italian,10,20,5
Bean Chili,vegan,mexican,30,10,2
Butter Chicken,keto,italian,5,5,25
`

func testAnalyzer(t *testing.T, csv string) *Analyzer {
	t.Helper()
	ds, err := dataset.Load(strings.NewReader(csv))
	require.NoError(t, err)
	return New(ds)
}

func TestSummary(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	summary := a.Summary()
	assert.Equal(t, 3, summary.TotalRecipes)
	assert.Equal(t, 2, summary.TotalDietTypes)
	assert.Equal(t, 2, summary.TotalCuisineTypes)
	assert.Equal(t, []string{"vegan", "keto"}, summary.DietTypes)
	assert.Equal(t, "vegan", summary.MostCommonDiet)
	assert.Equal(t, "italian", summary.MostCommonCuisine)
}

func TestSummaryEmptyDataset(t *testing.T) {
	a := New(nil)

	summary := a.Summary()
	assert.Equal(t, 0, summary.TotalRecipes)
	assert.Equal(t, []string{}, summary.DietTypes)
	assert.Equal(t, dataset.FallbackCategory, summary.MostCommonDiet)
	assert.Equal(t, dataset.FallbackCategory, summary.MostCommonCuisine)
}

func TestMacronutrientAverages(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	averages := a.MacronutrientAverages()
	require.Len(t, averages, 2)
	assert.Equal(t, map[string]float64{"Protein": 20, "Carbs": 15, "Fat": 3.5}, averages["vegan"])
	assert.Equal(t, map[string]float64{"Protein": 5, "Carbs": 5, "Fat": 25}, averages["keto"])
}

func TestMacronutrientAveragesMissingDietColumn(t *testing.T) {
	a := testAnalyzer(t, "Recipe_name,Protein(g)\nA,10\n")

	assert.Empty(t, a.MacronutrientAverages())
}

func TestDietComparison(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	comparison := a.DietComparison()
	require.Len(t, comparison, 2)
	assert.Equal(t, DietComparison{
		DietType:     "vegan",
		Protein:      20,
		Carbs:        15,
		Fat:          3.5,
		TotalRecipes: 2,
	}, comparison[0])
	assert.Equal(t, "keto", comparison[1].DietType)
	assert.Equal(t, 1, comparison[1].TotalRecipes)
}

func TestDietComparisonCountsReconcile(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	total := 0
	for _, row := range a.DietComparison() {
		total += row.TotalRecipes
	}
	assert.Equal(t, a.Summary().TotalRecipes, total)
}

func TestTopByNutrient(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	top := a.TopByNutrient(NutrientProtein, 2)
	require.Len(t, top, 2)
	assert.Equal(t, RankedRecipe{
		RecipeName:    "Bean Chili",
		DietType:      "vegan",
		CuisineType:   "mexican",
		NutrientValue: 30,
		NutrientType:  "Protein",
	}, top[0])
	assert.Equal(t, "Pasta Primavera", top[1].RecipeName)
}

func TestTopByNutrientFewerRowsThanN(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	assert.Len(t, a.TopByNutrient(NutrientFat, 100), 3)
}

func TestTopByNutrientStableOnTies(t *testing.T) {
	csv := `Recipe_name,Protein(g)
First,10
Second,10
Third,10
`
	a := testAnalyzer(t, csv)

	top := a.TopByNutrient(NutrientProtein, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "First", top[0].RecipeName)
	assert.Equal(t, "Second", top[1].RecipeName)
	assert.Equal(t, "Third", top[2].RecipeName)
}

func TestTopByNutrientEmptyDataset(t *testing.T) {
	a := New(nil)

	top := a.TopByNutrient(NutrientProtein, 10)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestTopByNutrientPerDiet(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	top := a.TopByNutrientPerDiet(NutrientProtein, 1)
	require.Len(t, top, 2)
	require.Len(t, top["vegan"], 1)
	assert.Equal(t, "Bean Chili", top["vegan"][0].RecipeName)
	require.Len(t, top["keto"], 1)
	assert.Equal(t, "Butter Chicken", top["keto"][0].RecipeName)
}

func TestCuisineDistribution(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	distribution := a.CuisineDistribution()
	assert.Equal(t, map[string]int{"italian": 1, "mexican": 1}, distribution["vegan"])
	assert.Equal(t, map[string]int{"italian": 1}, distribution["keto"])
}

func TestNutrientRanges(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	ranges := a.NutrientRanges()
	require.Len(t, ranges, 3)

	protein := ranges["Protein"]
	assert.Equal(t, 5.0, protein.Min)
	assert.Equal(t, 30.0, protein.Max)
	assert.Equal(t, 15.0, protein.Average)
	assert.Equal(t, 10.0, protein.Median)

	for name, r := range ranges {
		assert.LessOrEqual(t, r.Min, r.Average, name)
		assert.LessOrEqual(t, r.Average, r.Max, name)
		assert.LessOrEqual(t, r.Min, r.Median, name)
		assert.LessOrEqual(t, r.Median, r.Max, name)
	}
}

func TestNutrientRangesEvenCountMedian(t *testing.T) {
	csv := `Recipe_name,Carbs(g)
A,10
B,20
C,30
D,40
`
	a := testAnalyzer(t, csv)

	assert.Equal(t, 25.0, a.NutrientRanges()["Carbs"].Median)
}

func TestNutrientRangesEmptyDataset(t *testing.T) {
	assert.Empty(t, New(nil).NutrientRanges())
}

func TestRecipesByDietType(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	recipes := a.RecipesByDietType("vegan")
	require.Len(t, recipes, 2)
	assert.Equal(t, RecipeDetail{
		RecipeName:  "Pasta Primavera",
		CuisineType: "italian",
		Protein:     10,
		Carbs:       20,
		Fat:         5,
	}, recipes[0])
}

func TestRecipesByDietTypeCaseSensitive(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	assert.Empty(t, a.RecipesByDietType("Vegan"))
	assert.Empty(t, a.RecipesByDietType("paleo"))
}

func TestSearchCaseInsensitive(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	results := a.Search("BEAN", string(dataset.ColRecipeName))
	require.Len(t, results, 1)
	assert.Equal(t, "Bean Chili", results[0].RecipeName)
}

func TestSearchByCuisine(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	results := a.Search("italian", string(dataset.ColCuisineType))
	assert.Len(t, results, 2)
}

func TestSearchDefaultsToRecipeName(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	results := a.Search("chili", "")
	require.Len(t, results, 1)
	assert.Equal(t, "Bean Chili", results[0].RecipeName)
}

func TestSearchUnknownField(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	results := a.Search("chili", "Protein(g)")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchNoMatches(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	results := a.Search("sushi", string(dataset.ColRecipeName))
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestHighestProteinDietType(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	assert.Equal(t, "vegan", a.HighestProteinDietType())
}

func TestHighestProteinDietTypeNoData(t *testing.T) {
	assert.Equal(t, NoDataAvailable, New(nil).HighestProteinDietType())
}

func TestRatios(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	ratios := a.Ratios()
	// (10/20 + 30/10 + 5/5) / 3 and (20/5 + 10/2 + 5/25) / 3
	assert.InDelta(t, 1.5, ratios.AvgProteinToCarbs, 1e-9)
	assert.InDelta(t, 3.0666667, ratios.AvgCarbsToFat, 1e-6)
}

func TestRatiosSkipsZeroDenominators(t *testing.T) {
	csv := `Recipe_name,Protein(g),Carbs(g),Fat(g)
A,10,0,5
B,10,20,0
`
	a := testAnalyzer(t, csv)

	ratios := a.Ratios()
	assert.InDelta(t, 0.5, ratios.AvgProteinToCarbs, 1e-9)
	assert.InDelta(t, 0.0, ratios.AvgCarbsToFat, 1e-9)
}

func TestParseNutrient(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected Nutrient
		ok       bool
	}{
		{"Protein", NutrientProtein, true},
		{"protein", NutrientProtein, true},
		{"CARBS", NutrientCarbs, true},
		{"fat", NutrientFat, true},
		{"Fiber", "", false},
		{"", "", false},
	} {
		nutrient, ok := ParseNutrient(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.expected, nutrient, tc.input)
	}
}

func TestIsSearchField(t *testing.T) {
	assert.True(t, IsSearchField("Recipe_name"))
	assert.True(t, IsSearchField("Diet_type"))
	assert.True(t, IsSearchField("Cuisine_type"))
	assert.False(t, IsSearchField("Protein(g)"))
	assert.False(t, IsSearchField(""))
}
