package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"wrangle/internal/cli"
	"wrangle/internal/events"
)

var (
	eventsOutputFormat string
	eventsLimit        int
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent reconciliation events",
	Long: `List events recorded by previous apply runs and by the serve-mode
agent: resources created, removed or toggled, failed passes, declaration
load errors and repository syncs.

Events are read from the event log under the configuration directory.

Examples:
  wrangle events
  wrangle events --limit 20
  wrangle events -o json`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVarP(&eventsOutputFormat, "output", "o", "table",
		"Output format (table, json, yaml)")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50,
		"Maximum number of events to show")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(eventsOutputFormat); err != nil {
		return err
	}
	initCLILogging()

	log := events.NewLog(filepath.Join(resolveConfigPath(), events.DefaultLogFileName))
	evts, err := log.Recent(eventsLimit)
	if err != nil {
		return fmt.Errorf("failed to read event log: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), newFormatter(eventsOutputFormat).FormatEvents(evts))
	return nil
}
