package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const testCSV = `Recipe_name,Diet_type,Cuisine_type,Protein(g),Carbs(g),Fat(g)
Tofu Bowl,vegan,asian,10,20,5
Bean Chili,vegan,mexican,30,10,2
Steak Salad,keto,american,40,5,30
`

func TestLoad(t *testing.T) {
	ds, err := Load(strings.NewReader(testCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	for _, col := range ExpectedColumns {
		assert.True(t, ds.Has(col), "expected column %s", col)
	}

	assert.Equal(t, Recipe{
		Name:        "Tofu Bowl",
		DietType:    "vegan",
		CuisineType: "asian",
		Protein:     10,
		Carbs:       20,
		Fat:         5,
	}, ds.Recipes[0])
}

func TestLoadTrimsWhitespace(t *testing.T) {
	csv := "Recipe_name, Diet_type ,Protein(g)\n Tofu Bowl , vegan , 12.5 \n"

	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "Tofu Bowl", ds.Recipes[0].Name)
	assert.Equal(t, "vegan", ds.Recipes[0].DietType)
	assert.Equal(t, 12.5, ds.Recipes[0].Protein)
}

func TestLoadIgnoresExtraColumns(t *testing.T) {
	csv := `Recipe_name,Rating,Protein(g)
Tofu Bowl,5,10
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	assert.True(t, ds.Has(ColRecipeName))
	assert.True(t, ds.Has(ColProtein))
	assert.False(t, ds.Has(ColDietType))
	assert.Equal(t, 10.0, ds.Recipes[0].Protein)
}

func TestLoadInvalidNumericCell(t *testing.T) {
	csv := `Recipe_name,Protein(g)
Tofu Bowl,lots
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "Protein(g)")
}

func TestLoadMalformedRow(t *testing.T) {
	csv := `Recipe_name,Diet_type,Protein(g)
Tofu Bowl,vegan
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadEmptyInput(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestLoadHeaderOnly(t *testing.T) {
	ds, err := Load(strings.NewReader("Recipe_name,Diet_type,Protein(g)\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.True(t, ds.Has(ColDietType))
}

func TestCleanMeanFill(t *testing.T) {
	csv := `Recipe_name,Protein(g)
A,10
B,
C,20
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	// Mean over the two present values.
	assert.Equal(t, 15.0, ds.Recipes[1].Protein)
	assert.Equal(t, 10.0, ds.Recipes[0].Protein)
	assert.Equal(t, 20.0, ds.Recipes[2].Protein)
}

func TestCleanAllMissingNumericFillsZero(t *testing.T) {
	csv := `Recipe_name,Fat(g)
A,
B,
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 0.0, ds.Recipes[0].Fat)
	assert.Equal(t, 0.0, ds.Recipes[1].Fat)
}

func TestCleanModeFill(t *testing.T) {
	csv := `Recipe_name,Diet_type
A,vegan
B,
C,keto
D,vegan
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "vegan", ds.Recipes[1].DietType)
}

func TestCleanModeTieFirstEncountered(t *testing.T) {
	csv := `Recipe_name,Cuisine_type
A,mexican
B,italian
C,italian
D,mexican
E,
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	// mexican and italian both appear twice; mexican was seen first.
	assert.Equal(t, "mexican", ds.Recipes[4].CuisineType)
}

func TestCleanAllMissingCategoricalFallsBack(t *testing.T) {
	csv := `Recipe_name,Diet_type
A,
B,
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, FallbackCategory, ds.Recipes[0].DietType)
	assert.Equal(t, FallbackCategory, ds.Recipes[1].DietType)
}

func TestCleanIdempotent(t *testing.T) {
	csv := `Recipe_name,Diet_type,Protein(g)
A,vegan,10
B,,
`
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	before := make([]Recipe, len(ds.Recipes))
	copy(before, ds.Recipes)

	Clean(ds)
	assert.Equal(t, before, ds.Recipes)
}

func TestCleanNilDataset(t *testing.T) {
	assert.NotPanics(t, func() { Clean(nil) })
}

func TestMode(t *testing.T) {
	ds, err := Load(strings.NewReader(testCSV))
	require.NoError(t, err)

	assert.Equal(t, "vegan", Mode(ds, ColDietType))
}

func TestModeEmptyColumn(t *testing.T) {
	ds := &Dataset{}
	assert.Equal(t, "", Mode(ds, ColDietType))
}

func TestLoadFile(t *testing.T) {
	path := writeTempCSV(t, testCSV)

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("does-not-exist.csv")
	require.Error(t, err)
}
