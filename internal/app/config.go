package app

// Config holds the application-level settings for serve mode.
type Config struct {
	// Debug enables verbose logging, overriding LogLevel.
	Debug bool

	// Silent suppresses all log output.
	Silent bool

	// LogLevel is the textual log level ("debug", "info", "warn",
	// "error"). Empty means info.
	LogLevel string

	// ConfigPath is the configuration directory. Empty means the per-user
	// default (~/.config/wrangle).
	ConfigPath string
}

// NewConfig creates a new application configuration.
func NewConfig(debug, silent bool, configPath string) Config {
	return Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
