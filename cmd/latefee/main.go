/*
main.go - Application entry point

PURPOSE:
  The latefee binary. Runs the HTTP service, computes one-off quotes, and
  manages the stored fee configuration.

COMMANDS:
  serve                     Start the HTTP API
  quote --due T [--return T] [--as-of T] [--config-file F]
                            Compute a fee offline
  config show   [--db P]    Print the stored configuration
  config set    --file F [--db P]
                            Store a configuration from YAML/JSON
  config history [--db P] [--limit N]
                            List stored versions

ENVIRONMENT:
  LATEFEE_ENV, LATEFEE_HTTP_PORT, LATEFEE_DB_PATH, LATEFEE_LOG_LEVEL,
  LATEFEE_CONFIG_FILE, LATEFEE_MAX_SPAN_DAYS, LATEFEE_CORS_ORIGINS
  Flags override the environment.

EXAMPLES:
  # Serve with an in-memory database
  LATEFEE_DB_PATH=":memory:" latefee serve

  # Quote with a schedule file
  latefee quote --due "2025-03-07 19:00" --return "2025-03-10 13:00" --config-file fees.yaml

SEE ALSO:
  - serve.go: Server startup
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "latefee",
		Short:         "Late fee calculator for items returned after their due time",
		Long:          "latefee charges a flat rate per open hour an item is late, plus once per closing crossed.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newQuoteCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
