package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wrangle/internal/app"
)

// serveSilent suppresses all log output. Useful when wrangle runs under a
// service manager that captures stderr elsewhere.
var serveSilent bool

// serveCmd defines the serve command structure. This is the continuous
// agent mode: it watches the declaration tree and keeps the host converged.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the continuous reconciliation agent",
	Long: `Start the wrangle agent. It watches the declaration directory for
changes, reconciles affected resources with debouncing and retry backoff,
and optionally mirrors a git repository holding the declaration tree.

The agent runs until it receives SIGINT or SIGTERM, then shuts down
gracefully, letting in-flight reconciliation passes finish.

Configuration:
  wrangle loads config.yaml from the configuration directory
  (~/.config/wrangle by default, override with --config-path) and the
  declaration tree from its sources/ and features/ subdirectories. When
  gitSync is enabled the declaration tree lives in the declarations/
  checkout instead.

Examples:
  wrangle serve
  wrangle serve --config-path /etc/wrangle --debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(rootDebug, serveSilent, rootConfigPath)
	cfg.LogLevel = rootLogLevel

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	return application.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "Suppress all log output")
}
