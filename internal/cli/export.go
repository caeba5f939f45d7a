package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nutrilens/nutrilens/internal/execcontext"
	"github.com/nutrilens/nutrilens/internal/storage"
	"github.com/nutrilens/nutrilens/internal/style"
)

var (
	// Export command flags
	exportSource string
	exportTarget string
	exportFormat string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <operation>",
	Short: "Compute a query result and persist it to a file or S3",
	Long: `Run one analytics operation and write the encoded result to a local
file or an S3 object.

The operation names match the query command. The format is json or csv;
csv only applies to list-shaped results such as comparison or
top-recipes.

Examples:
  nutrilens export summary --source recipes.csv --target out/summary.json
  nutrilens export comparison --source recipes.csv --target s3://bucket/comparison.csv --format csv`,
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

		if exportTarget == "" {
			style.Error(runCtx, "No export target specified. Use --target")
			os.Exit(1)
		}

		sink, name, err := storage.ParseTarget(exportTarget)
		if err != nil {
			style.Error(runCtx, fmt.Sprintf("Invalid export target: %v", err))
			os.Exit(1)
		}

		source := exportSource
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

		content, contentType, err := storage.EncodeResult(result, exportFormat)
		if err != nil {
			style.Error(runCtx, fmt.Sprintf("Failed to encode result: %v", err))
			os.Exit(1)
		}

		if err := sink.Store(runCtx.Context, name, content, contentType); err != nil {
			style.Error(runCtx, fmt.Sprintf("Failed to store result: %v", err))
			os.Exit(1)
		}

		if !viper.GetBool("quiet") {
			style.Success(runCtx, fmt.Sprintf("Stored %s result at %s", args[0], exportTarget))
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportSource, "source", "s", "", "dataset source (CSV path or s3:// URI)")
	exportCmd.Flags().StringVarP(&exportTarget, "target", "t", "", "export target (file path or s3:// URI)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json, csv)")
}
