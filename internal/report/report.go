// Package report renders the comprehensive analysis report for the CLI.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nutrilens/nutrilens/internal/analyzer"
)

const (
	rule       = 60
	topPerDiet = 5
	topCuisine = 3
)

// Render writes the full analysis report: overview, per-diet averages,
// highest-protein diet, top protein recipes per diet, common cuisines and
// macronutrient ratios. Output is deterministic for a given dataset.
func Render(w io.Writer, a *analyzer.Analyzer) {
	header(w, "COMPREHENSIVE DIET ANALYSIS REPORT")

	summary := a.Summary()

	fmt.Fprintf(w, "\n1. DATASET OVERVIEW:\n")
	fmt.Fprintf(w, "   Total recipes: %d\n", summary.TotalRecipes)
	fmt.Fprintf(w, "   Diet types: %d\n", summary.TotalDietTypes)
	fmt.Fprintf(w, "   Cuisine types: %d\n", summary.TotalCuisineTypes)
	fmt.Fprintf(w, "   Diet types available: %s\n", strings.Join(summary.DietTypes, ", "))

	fmt.Fprintf(w, "\n2. AVERAGE MACRONUTRIENT CONTENT BY DIET TYPE:\n")
	renderAverages(w, a)

	fmt.Fprintf(w, "\n3. DIET TYPE WITH HIGHEST PROTEIN CONTENT: %s\n", a.HighestProteinDietType())
	if highest := a.HighestProteinDietType(); highest != analyzer.NoDataAvailable {
		if macros, ok := a.MacronutrientAverages()[highest]; ok {
			fmt.Fprintf(w, "   Average protein content: %.2fg\n", macros[string(analyzer.NutrientProtein)])
		}
	}

	fmt.Fprintf(w, "\n4. TOP %d PROTEIN-RICH RECIPES BY DIET TYPE:\n", topPerDiet)
	renderTopProtein(w, a, summary.DietTypes)

	fmt.Fprintf(w, "\n5. MOST COMMON CUISINES BY DIET TYPE:\n")
	renderCommonCuisines(w, a, summary.DietTypes)

	fmt.Fprintf(w, "\n6. MACRONUTRIENT RATIOS:\n")
	ratios := a.Ratios()
	fmt.Fprintf(w, "   Average Protein-to-Carbs ratio: %.3f\n", ratios.AvgProteinToCarbs)
	fmt.Fprintf(w, "   Average Carbs-to-Fat ratio: %.3f\n", ratios.AvgCarbsToFat)

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", rule))
	fmt.Fprintf(w, "Analysis complete.\n")
}

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n%s\n", strings.Repeat("=", rule), title, strings.Repeat("=", rule))
}

func renderAverages(w io.Writer, a *analyzer.Analyzer) {
	comparison := a.DietComparison()
	if len(comparison) == 0 {
		fmt.Fprintf(w, "   No data available\n")
		return
	}

	width := len("Diet type")
	for _, row := range comparison {
		if len(row.DietType) > width {
			width = len(row.DietType)
		}
	}

	fmt.Fprintf(w, "   %-*s  %8s  %8s  %8s  %8s\n", width, "Diet type", "Protein", "Carbs", "Fat", "Recipes")
	for _, row := range comparison {
		fmt.Fprintf(w, "   %-*s  %8.2f  %8.2f  %8.2f  %8d\n",
			width, row.DietType, row.Protein, row.Carbs, row.Fat, row.TotalRecipes)
	}
}

func renderTopProtein(w io.Writer, a *analyzer.Analyzer, dietTypes []string) {
	top := a.TopByNutrientPerDiet(analyzer.NutrientProtein, topPerDiet)
	if len(top) == 0 {
		fmt.Fprintf(w, "   No data available\n")
		return
	}

	for _, diet := range dietTypes {
		fmt.Fprintf(w, "\n   %s:\n", strings.ToUpper(diet))
		for _, recipe := range top[diet] {
			fmt.Fprintf(w, "   - %s: %.2fg protein\n", recipe.RecipeName, recipe.NutrientValue)
		}
	}
}

func renderCommonCuisines(w io.Writer, a *analyzer.Analyzer, dietTypes []string) {
	distribution := a.CuisineDistribution()
	if len(distribution) == 0 {
		fmt.Fprintf(w, "   No data available\n")
		return
	}

	for _, diet := range dietTypes {
		fmt.Fprintf(w, "   %s: %s\n", diet, strings.Join(topCuisines(distribution[diet], topCuisine), ", "))
	}
}

// topCuisines orders a cuisine frequency map by descending count, ties
// alphabetical, and keeps the first n names.
func topCuisines(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
