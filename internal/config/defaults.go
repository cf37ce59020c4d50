package config

import "time"

const (
	// DefaultProviderCommand is the package manager executable.
	DefaultProviderCommand = "choco"

	// DefaultGUICommand is the GUI companion executable.
	DefaultGUICommand = "chocolateyguicli"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Command:    DefaultProviderCommand,
			GUICommand: DefaultGUICommand,
			Timeout:    2 * time.Minute,
		},
		Agent: AgentConfig{
			Workers:          2,
			MaxRetries:       5,
			InitialBackoff:   time.Second,
			MaxBackoff:       5 * time.Minute,
			DebounceInterval: 500 * time.Millisecond,
			ReconcileTimeout: 30 * time.Second,
		},
		GitSync: GitSyncConfig{
			Interval: 5 * time.Minute,
		},
	}
}
