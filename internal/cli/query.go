package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nutrilens/nutrilens/internal/analyzer"
	"github.com/nutrilens/nutrilens/internal/execcontext"
	"github.com/nutrilens/nutrilens/internal/style"
)

var (
	// Query command flags
	querySource   string
	queryNutrient string
	queryTop      int
	queryDietType string
	queryTerm     string
	queryField    string
)

// queryOperations maps operation names to the analyzer call they run.
var queryOperations = map[string]func(*analyzer.Analyzer) (any, error){
	"summary": func(a *analyzer.Analyzer) (any, error) {
		return a.Summary(), nil
	},
	"macronutrients": func(a *analyzer.Analyzer) (any, error) {
		return a.MacronutrientAverages(), nil
	},
	"comparison": func(a *analyzer.Analyzer) (any, error) {
		return a.DietComparison(), nil
	},
	"top-recipes": func(a *analyzer.Analyzer) (any, error) {
		nutrient, ok := analyzer.ParseNutrient(queryNutrient)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient %q, expected one of Protein, Carbs, Fat", queryNutrient)
		}
		return a.TopByNutrient(nutrient, queryTop), nil
	},
	"cuisine-distribution": func(a *analyzer.Analyzer) (any, error) {
		return a.CuisineDistribution(), nil
	},
	"nutrient-ranges": func(a *analyzer.Analyzer) (any, error) {
		return a.NutrientRanges(), nil
	},
	"recipes": func(a *analyzer.Analyzer) (any, error) {
		if queryDietType == "" {
			return nil, fmt.Errorf("the recipes operation requires --diet-type")
		}
		return a.RecipesByDietType(queryDietType), nil
	},
	"search": func(a *analyzer.Analyzer) (any, error) {
		if queryTerm == "" {
			return nil, fmt.Errorf("the search operation requires --term")
		}
		if !analyzer.IsSearchField(queryField) {
			return nil, fmt.Errorf("unknown search field %q", queryField)
		}
		return a.Search(queryTerm, queryField), nil
	},
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <operation>",
	Short: "Run a single analytics query against a dataset",
	Long: `Run one analytics operation against a recipe dataset and print the
result as JSON or YAML.

Operations:
  summary               Dataset overview
  macronutrients        Average macronutrients per diet type
  comparison            Diet comparison rows
  top-recipes           Top recipes by nutrient (--nutrient, --top)
  cuisine-distribution  Cuisine counts per diet type
  nutrient-ranges       Min/max/average/median per nutrient
  recipes               Recipes for one diet type (--diet-type)
  search                Recipe search (--term, --field)

Examples:
  nutrilens query summary --source recipes.csv
  nutrilens query top-recipes --source recipes.csv --nutrient Fat --top 5
  nutrilens query search --source recipes.csv --term chicken
  nutrilens query recipes --source recipes.csv --diet-type vegan --output yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.OutOrStderr(),
		}

		operation, ok := queryOperations[args[0]]
		if !ok {
			style.Error(runCtx, fmt.Sprintf("Unknown operation %q", args[0]))
			os.Exit(1)
		}

		source := querySource
		if source == "" {
			source = viper.GetString("source")
		}
		if source == "" {
			style.Error(runCtx, "No dataset source specified. Use --source or NUTRILENS_SOURCE")
			os.Exit(1)
		}

		a, err := loadAnalyzer(runCtx, source)
		if err != nil {
			style.Error(runCtx, fmt.Sprintf("Failed to load dataset: %v", err))
			os.Exit(1)
		}

		result, err := operation(a)
		if err != nil {
			style.Error(runCtx, err.Error())
			os.Exit(1)
		}

		switch viper.GetString("output") {
		case "yaml":
			style.PrintYAML(runCtx.StdOut, result)
		default:
			style.PrintJSON(runCtx.StdOut, result)
		}
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&querySource, "source", "s", "", "dataset source (CSV path or s3:// URI)")
	queryCmd.Flags().StringVar(&queryNutrient, "nutrient", string(analyzer.NutrientProtein), "nutrient for top-recipes (Protein, Carbs, Fat)")
	queryCmd.Flags().IntVarP(&queryTop, "top", "n", 10, "number of recipes for top-recipes")
	queryCmd.Flags().StringVar(&queryDietType, "diet-type", "", "diet type for the recipes operation")
	queryCmd.Flags().StringVar(&queryTerm, "term", "", "search term for the search operation")
	queryCmd.Flags().StringVar(&queryField, "field", string(analyzer.DefaultSearchField), "search field (Recipe_name, Diet_type, Cuisine_type)")
}
