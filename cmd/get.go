package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"wrangle/internal/api"
	"wrangle/internal/cli"
	"wrangle/internal/config"
	"wrangle/internal/provider"
)

var (
	getOutputFormat string
	getGUI          bool
)

// Available resource types for get operations.
var getResourceTypes = []string{
	"sources",
	"features",
}

// getCmd represents the get command.
var getCmd = &cobra.Command{
	Use:   "get sources|features",
	Short: "List live chocolatey state",
	Long: `Query the live chocolatey state directly, without consulting any
declaration.

Available resource types:
  sources   - configured package sources
  features  - feature toggles (--gui for the GUI companion's features)

Examples:
  wrangle get sources
  wrangle get features
  wrangle get features --gui -o json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: getResourceTypes,
	RunE:      runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOutputFormat, "output", "o", "table",
		"Output format (table, json, yaml)")
	getCmd.Flags().BoolVar(&getGUI, "gui", false,
		"List the GUI companion's features instead of chocolatey's own")
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(getOutputFormat); err != nil {
		return err
	}
	initCLILogging()

	cfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return err
	}

	p := newProvider(cfg)
	ctx := cmd.Context()
	formatter := newFormatter(getOutputFormat)

	switch args[0] {
	case "sources":
		snapshots, err := p.ListSources(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSources(sortedSources(snapshots)))
		return nil

	case "features":
		variant := api.VariantStandard
		if getGUI {
			variant = api.VariantGUI
		}
		snapshots, err := p.ListFeatures(ctx, variant)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatures(sortedFeatures(snapshots)))
		return nil

	default:
		return fmt.Errorf("unknown resource type %q. Available types: sources, features", args[0])
	}
}

func sortedSources(snapshots map[string]provider.SourceSnapshot) []provider.SourceSnapshot {
	sources := make([]provider.SourceSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		sources = append(sources, snap)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources
}

func sortedFeatures(snapshots map[string]provider.FeatureSnapshot) []provider.FeatureSnapshot {
	features := make([]provider.FeatureSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		features = append(features, snap)
	}
	sort.Slice(features, func(i, j int) bool { return features[i].Name < features[j].Name })
	return features
}
