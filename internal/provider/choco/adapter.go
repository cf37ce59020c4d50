// Package choco implements the provider boundary on top of the chocolatey
// command line (and chocolateyguicli for the GUI feature variant).
package choco

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"wrangle/internal/api"
	"wrangle/internal/provider"
	"wrangle/pkg/logging"
)

// Default executables resolved via PATH.
const (
	DefaultCommand    = "choco"
	DefaultGUICommand = "chocolateyguicli"
)

// DefaultTimeout bounds a single provider invocation when the
// configuration does not specify one.
const DefaultTimeout = 2 * time.Minute

// Config configures the chocolatey adapter.
type Config struct {
	// Command is the chocolatey executable (default "choco").
	Command string

	// GUICommand is the GUI companion executable used for the gui feature
	// variant (default "chocolateyguicli").
	GUICommand string

	// Timeout bounds a single command invocation (default 2 minutes).
	Timeout time.Duration

	// Runner executes the commands. Defaults to ExecRunner.
	Runner Runner
}

// Adapter is the provider.Provider implementation for chocolatey.
//
// List queries are collapsed through singleflight: concurrent passes asking
// for the same listing share one CLI invocation instead of racing several.
// Results are never cached beyond the in-flight call, so every pass still
// observes fresh state.
type Adapter struct {
	cmd     string
	guiCmd  string
	timeout time.Duration
	runner  Runner
	group   singleflight.Group
}

// New creates a chocolatey adapter with defaults applied.
func New(cfg Config) *Adapter {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if cfg.GUICommand == "" {
		cfg.GUICommand = DefaultGUICommand
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	return &Adapter{
		cmd:     cfg.Command,
		guiCmd:  cfg.GUICommand,
		timeout: cfg.Timeout,
		runner:  cfg.Runner,
	}
}

var _ provider.Provider = (*Adapter)(nil)

// run executes one command under the configured per-invocation timeout so
// a hung executable cannot block a pass forever.
func (a *Adapter) run(ctx context.Context, cmd string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.runner.Run(ctx, cmd, args...)
}

// ListSources implements provider.Provider.
func (a *Adapter) ListSources(ctx context.Context) (map[string]provider.SourceSnapshot, error) {
	v, err, shared := a.group.Do("sources", func() (interface{}, error) {
		out, err := a.run(ctx, a.cmd, "source", "list", "--limit-output")
		if err != nil {
			return nil, fmt.Errorf("choco source list: %w (output: %s)", err, strings.TrimSpace(out))
		}
		return parseSourceList(out), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug("Provider", "Source listing shared with a concurrent pass")
	}
	return v.(map[string]provider.SourceSnapshot), nil
}

// AddSource implements provider.Provider.
//
// chocolatey registers new sources enabled; when the descriptor wants the
// source disabled, the add is followed by a disable in the same provider
// call so the recreate tier stays a single action for the core.
func (a *Adapter) AddSource(ctx context.Context, desired api.SourceDescriptor) (string, error) {
	args := []string{
		"source", "add",
		"--name", desired.Name,
		"--source", desired.Location,
	}
	if desired.Credentials != nil && desired.Credentials.Username != "" {
		args = append(args, "--user", desired.Credentials.Username, "--password", desired.Credentials.Password)
	}
	if desired.AllowSelfService {
		args = append(args, "--allow-self-service")
	}
	if desired.AdminOnly {
		args = append(args, "--admin-only")
	}

	out, err := a.run(ctx, a.cmd, args...)
	if err != nil {
		return out, fmt.Errorf("choco source add %s: %w", desired.Name, err)
	}
	if desired.Enabled || provider.ReportsFailure(out) {
		return out, nil
	}

	disableOut, err := a.run(ctx, a.cmd, "source", "disable", "--name", desired.Name)
	out = out + "\n" + disableOut
	if err != nil {
		return out, fmt.Errorf("choco source disable %s after add: %w", desired.Name, err)
	}
	return out, nil
}

// RemoveSource implements provider.Provider.
func (a *Adapter) RemoveSource(ctx context.Context, name string) (string, error) {
	out, err := a.run(ctx, a.cmd, "source", "remove", "--name", name)
	if err != nil {
		return out, fmt.Errorf("choco source remove %s: %w", name, err)
	}
	return out, nil
}

// EnableSource implements provider.Provider.
func (a *Adapter) EnableSource(ctx context.Context, name string) (string, error) {
	out, err := a.run(ctx, a.cmd, "source", "enable", "--name", name)
	if err != nil {
		return out, fmt.Errorf("choco source enable %s: %w", name, err)
	}
	return out, nil
}

// DisableSource implements provider.Provider.
func (a *Adapter) DisableSource(ctx context.Context, name string) (string, error) {
	out, err := a.run(ctx, a.cmd, "source", "disable", "--name", name)
	if err != nil {
		return out, fmt.Errorf("choco source disable %s: %w", name, err)
	}
	return out, nil
}

// ListFeatures implements provider.Provider.
func (a *Adapter) ListFeatures(ctx context.Context, variant api.FeatureVariant) (map[string]provider.FeatureSnapshot, error) {
	key := "features/" + string(variant)
	v, err, shared := a.group.Do(key, func() (interface{}, error) {
		out, err := a.run(ctx, a.featureCommand(variant), "feature", "list", "--limit-output")
		if err != nil {
			return nil, fmt.Errorf("%s feature list: %w (output: %s)", a.featureCommand(variant), err, strings.TrimSpace(out))
		}
		return parseFeatureList(out), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug("Provider", "Feature listing (%s) shared with a concurrent pass", variant)
	}
	return v.(map[string]provider.FeatureSnapshot), nil
}

// EnableFeature implements provider.Provider.
func (a *Adapter) EnableFeature(ctx context.Context, name string, variant api.FeatureVariant) (string, error) {
	out, err := a.run(ctx, a.featureCommand(variant), "feature", "enable", "--name", name)
	if err != nil {
		return out, fmt.Errorf("feature enable %s (%s): %w", name, variant, err)
	}
	return out, nil
}

// DisableFeature implements provider.Provider.
func (a *Adapter) DisableFeature(ctx context.Context, name string, variant api.FeatureVariant) (string, error) {
	out, err := a.run(ctx, a.featureCommand(variant), "feature", "disable", "--name", name)
	if err != nil {
		return out, fmt.Errorf("feature disable %s (%s): %w", name, variant, err)
	}
	return out, nil
}

// featureCommand picks the executable for a feature variant. The GUI
// variant runs the exact same subcommands against chocolateyguicli.
func (a *Adapter) featureCommand(variant api.FeatureVariant) string {
	if variant == api.VariantGUI {
		return a.guiCmd
	}
	return a.cmd
}
