package formatting

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"wrangle/internal/api"
	"wrangle/internal/events"
	"wrangle/internal/provider"
)

// YAMLFormatter provides YAML output formatting. It marshals through
// sigs.k8s.io/yaml so the field names match the JSON output exactly.
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatResults formats reconciliation results as YAML.
func (f *YAMLFormatter) FormatResults(results []api.ReconcileResult) string {
	if results == nil {
		results = []api.ReconcileResult{}
	}
	return f.marshal(map[string]any{
		"results": results,
		"count":   len(results),
	})
}

// FormatSources formats a live source listing as YAML.
func (f *YAMLFormatter) FormatSources(sources []provider.SourceSnapshot) string {
	if sources == nil {
		sources = []provider.SourceSnapshot{}
	}
	return f.marshal(map[string]any{
		"sources": sources,
		"count":   len(sources),
	})
}

// FormatFeatures formats a live feature listing as YAML.
func (f *YAMLFormatter) FormatFeatures(features []provider.FeatureSnapshot) string {
	if features == nil {
		features = []provider.FeatureSnapshot{}
	}
	return f.marshal(map[string]any{
		"features": features,
		"count":    len(features),
	})
}

// FormatEvents formats recorded events as YAML.
func (f *YAMLFormatter) FormatEvents(evts []events.Event) string {
	if evts == nil {
		evts = []events.Event{}
	}
	return f.marshal(map[string]any{
		"events": evts,
		"count":  len(evts),
	})
}

// SetOptions updates the formatter options.
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options.
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}

// marshal renders v as YAML, falling back to a plain string on error.
func (f *YAMLFormatter) marshal(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v\n", v)
	}
	return string(data)
}
