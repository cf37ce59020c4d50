package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wrangle/internal/cli"
)

// Exit codes for CLI commands. They follow common conventions so scripts
// and configuration management tooling can branch on the outcome.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (a pass failed, invalid
	// arguments, configuration could not be loaded).
	ExitCodeError = 1
	// ExitCodeChangesPending indicates a check run found resources that
	// are not in their declared state.
	ExitCodeChangesPending = 2
)

var (
	rootConfigPath string
	rootDebug      bool
	rootLogLevel   string
)

// rootCmd represents the base command for the wrangle application.
// It is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "wrangle",
	Short: "Keep chocolatey sources and features in their declared state",
	Long: `wrangle reconciles chocolatey package sources and feature toggles
against YAML declarations. Run it once with 'wrangle apply', audit drift
with 'wrangle check', or keep a host converged continuously with
'wrangle serve'.`,
	// SilenceUsage prevents cobra from printing the usage message on
	// errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. It is called from the
// main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application. It is called by
// main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "wrangle version %s\n" .Version}}`)

	// All commands share one signal-aware context so SIGINT/SIGTERM
	// cancels in-flight provider calls and shuts serve mode down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error
// type. This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var pending *cli.ChangesPendingError
	if errors.As(err, &pending) {
		return ExitCodeChangesPending
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "",
		"Configuration directory (default ~/.config/wrangle)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
