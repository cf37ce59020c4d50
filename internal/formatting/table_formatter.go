package formatting

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wrangle/internal/api"
	"wrangle/internal/events"
	"wrangle/internal/provider"
	wstrings "wrangle/pkg/strings"
)

// TableFormatter provides rich table output formatting.
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatResults formats reconciliation results as a table.
func (f *TableFormatter) FormatResults(results []api.ReconcileResult) string {
	if len(results) == 0 {
		return f.formatEmptyMessage("Nothing declared, nothing to do")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{"RESOURCE", "KIND", "ACTION", "CHANGED", "DESCRIPTION"})

	for _, result := range results {
		t.AppendRow(table.Row{
			result.Resource,
			result.Kind,
			f.colorAction(result.Action, result.DryRun),
			f.colorBool(result.Changed),
			wstrings.TruncateCell(result.Description, wstrings.DefaultCellMaxLen),
		})
	}

	return t.Render() + "\n"
}

// FormatSources formats a live source listing as a table.
func (f *TableFormatter) FormatSources(sources []provider.SourceSnapshot) string {
	if len(sources) == 0 {
		return f.formatEmptyMessage("No sources configured")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{"NAME", "LOCATION", "ENABLED", "SELF-SERVICE", "ADMIN-ONLY"})

	for _, source := range sources {
		t.AppendRow(table.Row{
			source.Name,
			wstrings.TruncateCell(source.Location, wstrings.DefaultCellMaxLen),
			f.colorBool(source.Enabled),
			source.AllowSelfService,
			source.AdminOnly,
		})
	}

	return t.Render() + "\n"
}

// FormatFeatures formats a live feature listing as a table.
func (f *TableFormatter) FormatFeatures(features []provider.FeatureSnapshot) string {
	if len(features) == 0 {
		return f.formatEmptyMessage("No features reported")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{"NAME", "ENABLED", "DESCRIPTION"})

	for _, feature := range features {
		t.AppendRow(table.Row{
			feature.Name,
			f.colorBool(feature.Enabled),
			wstrings.TruncateCell(feature.Description, wstrings.DefaultCellMaxLen),
		})
	}

	return t.Render() + "\n"
}

// FormatEvents formats recorded events as a table.
func (f *TableFormatter) FormatEvents(evts []events.Event) string {
	if len(evts) == 0 {
		return f.formatEmptyMessage("No events recorded")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{"TIME", "TYPE", "REASON", "RESOURCE", "MESSAGE"})

	for _, event := range evts {
		t.AppendRow(table.Row{
			event.Timestamp.Format(time.RFC3339),
			f.colorEventType(event.Type),
			event.Reason,
			event.Resource,
			wstrings.TruncateCell(event.Message, wstrings.DefaultCellMaxLen),
		})
	}

	return t.Render() + "\n"
}

// SetOptions updates the formatter options.
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options.
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// createTable creates a new table with standard styling.
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

// formatEmptyMessage formats empty result messages.
func (f *TableFormatter) formatEmptyMessage(message string) string {
	if f.options.Color {
		return text.FgYellow.Sprint(message) + "\n"
	}
	return message + "\n"
}

// colorBool renders a boolean, green/red when color is on.
func (f *TableFormatter) colorBool(v bool) string {
	s := fmt.Sprintf("%t", v)
	if !f.options.Color {
		return s
	}
	if v {
		return text.FgGreen.Sprint(s)
	}
	return text.FgRed.Sprint(s)
}

// colorAction renders an action kind, dimmed for dry-run prospective output.
func (f *TableFormatter) colorAction(action api.ActionKind, dryRun bool) string {
	s := string(action)
	if !f.options.Color {
		return s
	}
	if action == api.ActionNone {
		return text.Faint.Sprint(s)
	}
	if dryRun {
		return text.FgCyan.Sprint(s)
	}
	return text.FgGreen.Sprint(s)
}

// colorEventType renders an event type, warnings in yellow.
func (f *TableFormatter) colorEventType(eventType events.EventType) string {
	s := string(eventType)
	if !f.options.Color {
		return s
	}
	if eventType == events.EventTypeWarning {
		return text.FgYellow.Sprint(s)
	}
	return s
}
