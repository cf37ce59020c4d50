// Package formatting renders reconciliation results, provider listings and
// events in the output formats the CLI offers.
package formatting

import (
	"wrangle/internal/api"
	"wrangle/internal/events"
	"wrangle/internal/provider"
)

// OutputFormat represents the desired output format.
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ValidFormats lists the accepted output format names.
func ValidFormats() []OutputFormat {
	return []OutputFormat{FormatTable, FormatJSON, FormatYAML}
}

// Options configures the formatter behavior.
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Formatter renders the domain objects the CLI prints.
type Formatter interface {
	// FormatResults renders reconciliation pass outcomes.
	FormatResults(results []api.ReconcileResult) string

	// FormatSources renders a live source listing.
	FormatSources(sources []provider.SourceSnapshot) string

	// FormatFeatures renders a live feature listing.
	FormatFeatures(features []provider.FeatureSnapshot) string

	// FormatEvents renders recorded reconciliation events.
	FormatEvents(evts []events.Event) string

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats.
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory.
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface.
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options.
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}
