package config

import (
	"time"

	"wrangle/internal/api"
)

// Config is the top-level configuration structure for wrangle.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Agent    AgentConfig    `yaml:"agent"`
	GitSync  GitSyncConfig  `yaml:"gitSync"`
}

// ProviderConfig configures the package manager CLI adapter.
type ProviderConfig struct {
	// Command is the package manager executable (default: choco).
	Command string `yaml:"command,omitempty"`

	// GUICommand is the GUI companion executable used for the gui feature
	// variant (default: chocolateyguicli).
	GUICommand string `yaml:"guiCommand,omitempty"`

	// Timeout bounds a single provider invocation.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// AgentConfig configures serve-mode scheduling.
type AgentConfig struct {
	// Workers is the number of concurrent reconciliation workers.
	Workers int `yaml:"workers,omitempty"`

	// MaxRetries is the retry budget for a failing resource.
	MaxRetries int `yaml:"maxRetries,omitempty"`

	// InitialBackoff is the first retry delay; it doubles per attempt.
	InitialBackoff time.Duration `yaml:"initialBackoff,omitempty"`

	// MaxBackoff caps the retry delay.
	MaxBackoff time.Duration `yaml:"maxBackoff,omitempty"`

	// DebounceInterval coalesces rapid declaration file changes.
	DebounceInterval time.Duration `yaml:"debounceInterval,omitempty"`

	// ReconcileTimeout bounds one reconciliation pass.
	ReconcileTimeout time.Duration `yaml:"reconcileTimeout,omitempty"`
}

// GitSyncConfig configures the optional declaration repository mirror.
type GitSyncConfig struct {
	// Enabled turns the mirror on.
	Enabled bool `yaml:"enabled,omitempty"`

	// URL is the remote repository holding the declaration tree.
	URL string `yaml:"url,omitempty"`

	// Branch to check out; empty means the remote default.
	Branch string `yaml:"branch,omitempty"`

	// Interval between periodic pulls in serve mode.
	Interval time.Duration `yaml:"interval,omitempty"`

	// Username and Password authenticate HTTP remotes. A personal access
	// token goes in Password with any non-empty Username.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// SourceDeclaration is the on-disk form of a declared package source.
type SourceDeclaration struct {
	Name             string `yaml:"name" validate:"required"`
	Location         string `yaml:"location" validate:"required_unless=Ensure absent,omitempty,url"`
	Enabled          *bool  `yaml:"enabled,omitempty"`
	Username         string `yaml:"username,omitempty"`
	Password         string `yaml:"password,omitempty"`
	AllowSelfService bool   `yaml:"allowSelfService,omitempty"`
	AdminOnly        bool   `yaml:"adminOnly,omitempty"`
	Ensure           string `yaml:"ensure,omitempty" validate:"omitempty,oneof=present absent"`
}

// Descriptor converts the declaration to the api contract type. Enabled
// defaults to true when omitted: declaring a source without saying
// otherwise means it should be usable.
func (d SourceDeclaration) Descriptor() api.SourceDescriptor {
	enabled := true
	if d.Enabled != nil {
		enabled = *d.Enabled
	}

	desc := api.SourceDescriptor{
		Name:             d.Name,
		Location:         d.Location,
		Enabled:          enabled,
		AllowSelfService: d.AllowSelfService,
		AdminOnly:        d.AdminOnly,
		Ensure:           api.Ensure(d.Ensure),
	}
	if d.Username != "" {
		desc.Credentials = &api.Credentials{Username: d.Username, Password: d.Password}
	}
	return desc
}

// FeatureDeclaration is the on-disk form of a declared feature toggle.
type FeatureDeclaration struct {
	Name    string `yaml:"name" validate:"required"`
	Variant string `yaml:"variant,omitempty" validate:"omitempty,oneof=standard gui"`
	Enabled bool   `yaml:"enabled"`
}

// Descriptor converts the declaration to the api contract type.
func (d FeatureDeclaration) Descriptor() api.FeatureDescriptor {
	return api.FeatureDescriptor{
		Name:    d.Name,
		Variant: api.FeatureVariant(d.Variant),
		Enabled: d.Enabled,
	}
}
