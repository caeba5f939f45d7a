package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nutrilens/nutrilens/internal/execcontext"
	"github.com/nutrilens/nutrilens/internal/server"
	"github.com/nutrilens/nutrilens/internal/style"
)

var (
	// Serve command flags
	servePort    int
	serveHost    string
	serveSource  string
	serveMetrics bool
	serveCORS    bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [dataset source]",
	Short: "Start the nutrition analytics HTTP server",
	Long: `Start an HTTP server that answers nutrition-analytics queries over a
recipe dataset.

The server provides:
- REST API for summary, averages, rankings, distributions and search
- Export endpoint that persists results to local files or S3
- Prometheus metrics endpoint
- Health check endpoint

The dataset source is a local CSV path or an s3://bucket/key URI. Every
request loads a fresh copy, so edits to the source take effect
immediately.

Examples:
  nutrilens serve recipes.csv                       # Serve a local CSV
  nutrilens serve s3://my-bucket/recipes.csv        # Serve from S3
  nutrilens serve --port 9090 --host 0.0.0.0 data.csv`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.OutOrStderr(),
		}

		source := serveSource
		if len(args) > 0 {
			source = args[0]
		}
		if source == "" {
			source = viper.GetString("source")
		}
		if source == "" {
			style.Error(runCtx, "No dataset source specified. Use an argument, --source or NUTRILENS_SOURCE")
			os.Exit(1)
		}

		startServer(runCtx, source)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "server port")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "server host")
	serveCmd.Flags().StringVarP(&serveSource, "source", "s", "", "dataset source (CSV path or s3:// URI)")

	// Features
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", true, "enable Prometheus metrics endpoint")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", true, "enable CORS headers")

	_ = viper.BindPFlag("source", serveCmd.Flags().Lookup("source"))
}

func startServer(runCtx execcontext.RunContext, source string) {
	config := server.DefaultConfig()
	config.Host = serveHost
	config.Port = servePort
	config.Source = source
	config.EnableMetrics = serveMetrics
	config.EnableCORS = serveCORS

	srv, err := server.New(config)
	if err != nil {
		style.Error(runCtx, fmt.Sprintf("Failed to create server: %v", err))
		os.Exit(1)
	}

	// Display startup info
	if !viper.GetBool("quiet") {
		style.Success(runCtx, fmt.Sprintf("Nutrilens server starting at http://%s", srv.GetAddr()))
		fmt.Fprintf(runCtx, "Dataset source: %s\n", source)
		fmt.Fprintf(runCtx, "API: http://%s/api/v1/summary\n", srv.GetAddr())
		if serveMetrics {
			fmt.Fprintf(runCtx, "Metrics: http://%s/metrics\n", srv.GetAddr())
		}
	}

	// Start server with graceful shutdown
	if err := srv.StartWithGracefulShutdown(); err != nil {
		style.Error(runCtx, fmt.Sprintf("Server error: %v", err))
		os.Exit(1)
	}
}
