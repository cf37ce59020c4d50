// Package config loads the agent configuration and the desired-state
// declarations.
//
// A wrangle configuration directory looks like:
//
//	config.yaml          agent settings (provider command, workers, git sync)
//	sources/*.yaml       one declared package source per file
//	features/*.yaml      one declared feature toggle per file
//
// Declarations are validated on load; a malformed file is reported as a
// ConfigurationError and skipped, it never aborts loading of its siblings.
package config
