// Package logging provides a structured logging system for wrangle with
// unified log handling and flexible output formatting.
//
// This package implements a logging system built on Go's standard slog
// package, providing consistent logging behavior with structured output and
// level filtering.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # Structured Logging
//
// All log entries include a timestamp, the log level, a subsystem identifier
// for categorization, the message content with optional printf formatting,
// and optional error information.
//
// # Usage
//
//	import "wrangle/pkg/logging"
//
//	// Interactive commands log human-readable text
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	// The long-running agent logs JSON for log collectors
//	logging.InitForAgent(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Agent starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Error("Provider", err, "Failed to list sources")
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Configuration and declaration loading
//   - **Provider**: Package-manager adapter calls
//   - **SourceReconciler** / **FeatureReconciler**: Per-resource passes
//   - **ReconcileManager**: Scheduler, queue, and worker pool
//   - **GitSync**: Declaration repository mirroring
//
// The logging system is fully thread-safe; concurrent logging from multiple
// goroutines is supported without additional synchronization.
package logging
