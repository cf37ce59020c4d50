package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wrangle/internal/app"
	"wrangle/internal/cli"
	"wrangle/internal/config"
)

var (
	checkQuiet        bool
	checkOutputFormat string
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report drift between declarations and live state",
	Long: `Run a dry-run reconciliation pass over all declarations and report
which resources are not in their declared state. Nothing is mutated.

Exit codes:
  0  everything is in its declared state
  1  the check itself failed
  2  changes are pending

Examples:
  wrangle check
  wrangle check -o json
  wrangle check --quiet && echo converged`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table",
		"Output format (table, json, yaml)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false,
		"Suppress output; rely on the exit code")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(checkOutputFormat); err != nil {
		return err
	}
	initCLILogging()

	configPath := resolveConfigPath()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	decls := loadDeclarations(app.DeclarationPath(cfg, configPath))

	executor := cli.NewExecutor(newProvider(cfg), cli.Options{
		Workers: cfg.Agent.Workers,
		Quiet:   checkQuiet || !isTableFormat(checkOutputFormat),
	})

	results, checkErr := executor.Check(cmd.Context(), decls)

	if !checkQuiet {
		fmt.Fprint(cmd.OutOrStdout(), newFormatter(checkOutputFormat).FormatResults(results))
		if isTableFormat(checkOutputFormat) {
			fmt.Fprintln(cmd.OutOrStdout(), cli.Summarize(results, true))
		}
	}

	return checkErr
}
