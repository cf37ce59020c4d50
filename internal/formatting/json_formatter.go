package formatting

import (
	"wrangle/internal/api"
	"wrangle/internal/events"
	"wrangle/internal/provider"
)

// JSONFormatter provides structured JSON output formatting.
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatResults formats reconciliation results as JSON.
func (f *JSONFormatter) FormatResults(results []api.ReconcileResult) string {
	if results == nil {
		results = []api.ReconcileResult{}
	}
	return PrettyJSON(map[string]any{
		"results": results,
		"count":   len(results),
	}) + "\n"
}

// FormatSources formats a live source listing as JSON.
func (f *JSONFormatter) FormatSources(sources []provider.SourceSnapshot) string {
	if sources == nil {
		sources = []provider.SourceSnapshot{}
	}
	return PrettyJSON(map[string]any{
		"sources": sources,
		"count":   len(sources),
	}) + "\n"
}

// FormatFeatures formats a live feature listing as JSON.
func (f *JSONFormatter) FormatFeatures(features []provider.FeatureSnapshot) string {
	if features == nil {
		features = []provider.FeatureSnapshot{}
	}
	return PrettyJSON(map[string]any{
		"features": features,
		"count":    len(features),
	}) + "\n"
}

// FormatEvents formats recorded events as JSON.
func (f *JSONFormatter) FormatEvents(evts []events.Event) string {
	if evts == nil {
		evts = []events.Event{}
	}
	return PrettyJSON(map[string]any{
		"events": evts,
		"count":  len(evts),
	}) + "\n"
}

// SetOptions updates the formatter options.
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options.
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
