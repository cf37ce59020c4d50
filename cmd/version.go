package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the cobra command for displaying the application
// version. The version itself is injected by main at build time.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wrangle",
		Long:  `All software has versions. This is wrangle's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wrangle version %s\n", rootCmd.Version)
		},
	}
}
