package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySummary(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "query", "summary", "--source", source)
	require.NoError(t, err)
	assert.Contains(t, output, `"total_recipes": 3`)
	assert.Contains(t, output, `"most_common_diet": "vegan"`)
}

func TestQueryMacronutrients(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "query", "macronutrients", "--source", source)
	require.NoError(t, err)
	assert.Contains(t, output, `"vegan"`)
	assert.Contains(t, output, `"Protein": 20`)
}

func TestQueryTopRecipes(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "query", "top-recipes",
		"--source", source, "--nutrient", "Fat", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "Butter Chicken")
	assert.Contains(t, output, `"nutrient_type": "Fat"`)
}

func TestQueryRecipesByDiet(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "query", "recipes",
		"--source", source, "--diet-type", "keto")
	require.NoError(t, err)
	assert.Contains(t, output, "Butter Chicken")
	assert.NotContains(t, output, "Bean Chili")
}

func TestQuerySearch(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "query", "search",
		"--source", source, "--term", "chili")
	require.NoError(t, err)
	assert.Contains(t, output, "Bean Chili")
}

func TestQueryYAMLOutput(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "query", "summary",
		"--source", source, "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, output, "total_recipes: 3")
}
