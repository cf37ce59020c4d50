package cmd

import (
	"fmt"
	"os"

	"wrangle/internal/config"
	"wrangle/internal/formatting"
	"wrangle/internal/provider"
	"wrangle/internal/provider/choco"
	"wrangle/pkg/logging"
)

// resolveLogLevel picks the effective level from --debug and --log-level.
// One-shot commands pass Warn as the fallback so table output stays clean.
func resolveLogLevel(fallback logging.LogLevel) logging.LogLevel {
	if rootDebug {
		return logging.LevelDebug
	}
	if rootLogLevel != "" {
		return logging.ParseLevel(rootLogLevel)
	}
	return fallback
}

// initCLILogging configures human-readable logging for one-shot commands.
func initCLILogging() {
	logging.InitForCLI(resolveLogLevel(logging.LevelWarn), logging.MustStderr())
}

// resolveConfigPath returns the configuration directory, honoring the
// --config-path flag.
func resolveConfigPath() string {
	if rootConfigPath != "" {
		return rootConfigPath
	}
	return config.GetDefaultConfigPathOrPanic()
}

// newProvider builds the chocolatey adapter from the loaded configuration.
func newProvider(cfg config.Config) provider.Provider {
	return choco.New(choco.Config{
		Command:    cfg.Provider.Command,
		GUICommand: cfg.Provider.GUICommand,
		Timeout:    cfg.Provider.Timeout,
	})
}

// loadDeclarations reads the declaration tree, reporting per-file errors to
// stderr. Malformed files are skipped so valid siblings still reconcile.
func loadDeclarations(declPath string) *config.Declarations {
	decls, errs := config.LoadDeclarations(declPath)
	for _, loadErr := range errs.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", loadErr.Error())
	}
	return decls
}

// newFormatter builds a formatter for the given format name. Color is only
// used for table output on a terminal-facing writer.
func newFormatter(format string) formatting.Formatter {
	return formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: formatting.OutputFormat(format),
		Color:  formatting.OutputFormat(format) == formatting.FormatTable,
	})
}

// isTableFormat reports whether the given format name renders as a table.
func isTableFormat(format string) bool {
	return formatting.OutputFormat(format) == formatting.FormatTable
}
