package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutrilens/nutrilens/internal/execcontext"
	"github.com/nutrilens/nutrilens/internal/report"
	"github.com/nutrilens/nutrilens/internal/style"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <dataset source>",
	Short: "Print the full diet analysis report",
	Long: `Load a recipe dataset and print the comprehensive diet analysis report:
dataset overview, per-diet macronutrient averages, the highest-protein
diet, top protein-rich recipes per diet, common cuisines and
macronutrient ratios.

Examples:
  nutrilens report recipes.csv
  nutrilens report s3://my-bucket/recipes.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.OutOrStderr(),
		}

		a, err := loadAnalyzer(runCtx, args[0])
		if err != nil {
			style.Error(runCtx, fmt.Sprintf("Failed to load dataset: %v", err))
			os.Exit(1)
		}

		report.Render(runCtx.StdOut, a)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
