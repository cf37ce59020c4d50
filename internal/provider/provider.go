package provider

import (
	"context"
	"strings"

	"wrangle/internal/api"
)

// SourceSnapshot is the provider's reported state for one package source.
// All boolean-like fields have already been normalized through ParseBool by
// the adapter; the snapshot never carries raw provider text for flags.
type SourceSnapshot struct {
	Name             string `json:"name"`
	Location         string `json:"location"`
	Enabled          bool   `json:"enabled"`
	AllowSelfService bool   `json:"allowSelfService"`
	AdminOnly        bool   `json:"adminOnly"`
}

// FeatureSnapshot is the provider's reported state for one feature toggle.
type FeatureSnapshot struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// Provider is the command surface of the external package manager.
//
// Snapshots are fetched fresh per reconciliation pass; implementations must
// not cache listings across calls. Mutation methods return the provider's
// raw output text so callers can surface it in results and check it with
// ReportsFailure.
type Provider interface {
	// ListSources returns the currently registered sources keyed by name.
	ListSources(ctx context.Context) (map[string]SourceSnapshot, error)

	// AddSource registers a source with the full desired configuration,
	// including the enabled state, so a recreate needs no follow-up toggle.
	AddSource(ctx context.Context, desired api.SourceDescriptor) (string, error)

	// RemoveSource deletes a source by name.
	RemoveSource(ctx context.Context, name string) (string, error)

	// EnableSource flips a source on in place.
	EnableSource(ctx context.Context, name string) (string, error)

	// DisableSource flips a source off in place.
	DisableSource(ctx context.Context, name string) (string, error)

	// ListFeatures returns the feature set of the given variant keyed by
	// name. The feature set is provider-defined; names absent from it
	// cannot be created.
	ListFeatures(ctx context.Context, variant api.FeatureVariant) (map[string]FeatureSnapshot, error)

	// EnableFeature turns a feature on within the given variant namespace.
	EnableFeature(ctx context.Context, name string, variant api.FeatureVariant) (string, error)

	// DisableFeature turns a feature off within the given variant namespace.
	DisableFeature(ctx context.Context, name string, variant api.FeatureVariant) (string, error)
}

// ParseBool normalizes provider-reported boolean-like text.
//
// Only the explicit literals "true" and "enabled" (case-insensitive,
// surrounding whitespace ignored) parse as true; everything else, including
// "false", "disabled", and the empty string, parses as false. Callers must
// never branch on raw text truthiness instead of this function.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "enabled":
		return true
	default:
		return false
	}
}

// FailureMarker is the phrase the package manager prints when a command
// failed despite exiting zero. Mutation output must be checked against it
// through ReportsFailure.
const FailureMarker = "Running chocolatey failed"

// ReportsFailure reports whether the provider's output text signals a
// provider-level failure of the command that produced it.
func ReportsFailure(output string) bool {
	return strings.Contains(output, FailureMarker)
}
