package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"wrangle/internal/app"
	"wrangle/internal/cli"
	"wrangle/internal/config"
	"wrangle/internal/events"
	"wrangle/internal/gitsync"
)

var (
	applyDryRun       bool
	applySync         bool
	applyQuiet        bool
	applyOutputFormat string
)

// applyCmd represents the apply command.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile every declaration against live state",
	Long: `Reconcile all declared sources and features against the live
chocolatey state, performing the minimal corrective action per resource.

Resources not covered by a declaration are left untouched; removing a
source requires declaring it with 'ensure: absent'.

Examples:
  # Converge everything declared under the config directory
  wrangle apply

  # Show what would change without touching anything
  wrangle apply --dry-run

  # Pull the declaration repository first, then converge
  wrangle apply --sync

  # Machine-readable output
  wrangle apply -o json`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false,
		"Report prospective changes without mutating anything")
	applyCmd.Flags().BoolVar(&applySync, "sync", false,
		"Pull the declaration repository before reconciling")
	applyCmd.Flags().StringVarP(&applyOutputFormat, "output", "o", "table",
		"Output format (table, json, yaml)")
	applyCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false,
		"Suppress non-essential output")
}

func runApply(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(applyOutputFormat); err != nil {
		return err
	}
	initCLILogging()

	configPath := resolveConfigPath()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	declPath := app.DeclarationPath(cfg, configPath)

	if applySync {
		if !cfg.GitSync.Enabled {
			return fmt.Errorf("--sync requires gitSync to be configured in config.yaml")
		}
		syncer, err := gitsync.New(cfg.GitSync, declPath)
		if err != nil {
			return err
		}
		if _, err := syncer.Sync(ctx); err != nil {
			return fmt.Errorf("declaration sync failed: %w", err)
		}
	}

	decls := loadDeclarations(declPath)

	recorder := events.NewRecorder(0).
		WithLog(events.NewLog(filepath.Join(configPath, events.DefaultLogFileName)))

	executor := cli.NewExecutor(newProvider(cfg), cli.Options{
		DryRun:    applyDryRun,
		Workers:   cfg.Agent.Workers,
		Quiet:     applyQuiet || !isTableFormat(applyOutputFormat),
		EventSink: recorder,
	})

	results, runErr := executor.Run(ctx, decls)

	if !applyQuiet {
		fmt.Fprint(cmd.OutOrStdout(), newFormatter(applyOutputFormat).FormatResults(results))
		if isTableFormat(applyOutputFormat) {
			fmt.Fprintln(cmd.OutOrStdout(), cli.Summarize(results, applyDryRun))
		}
	}

	return runErr
}
