package choco

import (
	"strings"

	"wrangle/internal/provider"
)

// Column layout of `choco source list --limit-output`:
//
//	Name|Location|Disabled|UserName|Certificate|Priority|BypassProxy|AllowSelfService|AdminOnly
//
// Older chocolatey versions emit fewer trailing columns; rows are accepted
// as long as the first three are present and the C4B flags default to false.
const (
	colSourceName = iota
	colSourceLocation
	colSourceDisabled
	_ // username
	_ // certificate
	_ // priority
	_ // bypass proxy
	colSourceSelfService
	colSourceAdminOnly
)

// parseSourceList converts limit-output source rows into normalized
// snapshots keyed by name. Every boolean column goes through
// provider.ParseBool; the Disabled column is inverted into Enabled here, at
// ingestion, so no other layer ever sees the raw text.
func parseSourceList(output string) map[string]provider.SourceSnapshot {
	sources := make(map[string]provider.SourceSnapshot)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) <= colSourceDisabled {
			continue
		}

		snap := provider.SourceSnapshot{
			Name:     fields[colSourceName],
			Location: fields[colSourceLocation],
			Enabled:  !provider.ParseBool(fields[colSourceDisabled]),
		}
		if len(fields) > colSourceSelfService {
			snap.AllowSelfService = provider.ParseBool(fields[colSourceSelfService])
		}
		if len(fields) > colSourceAdminOnly {
			snap.AdminOnly = provider.ParseBool(fields[colSourceAdminOnly])
		}

		if snap.Name != "" {
			sources[snap.Name] = snap
		}
	}

	return sources
}

// parseFeatureList converts limit-output feature rows
// (Name|Enabled|Description, the state being the literal "Enabled" or
// "Disabled") into normalized snapshots keyed by name.
func parseFeatureList(output string) map[string]provider.FeatureSnapshot {
	features := make(map[string]provider.FeatureSnapshot)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}

		snap := provider.FeatureSnapshot{
			Name:    fields[0],
			Enabled: provider.ParseBool(fields[1]),
		}
		if len(fields) > 2 {
			snap.Description = fields[2]
		}
		features[fields[0]] = snap
	}

	return features
}
