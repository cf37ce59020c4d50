package strings

import (
	"strings"
)

// DefaultCellMaxLen is the default maximum length for free-text columns in
// formatted table output (change descriptions, provider output excerpts).
const DefaultCellMaxLen = 60

// MinTruncateLen is the minimum maxLen value for TruncateCell. Values
// smaller than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// TruncateCell flattens a string to a single line and truncates it to
// maxLen characters, appending "..." when content was cut. Provider output
// regularly spans several lines; table cells need one.
//
// The function operates on runes rather than bytes so multi-byte characters
// are never split. A maxLen below MinTruncateLen is clamped.
func TruncateCell(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	// strings.Fields splits on any whitespace (\n, \r, \t, runs of spaces);
	// rejoining with single spaces yields the flattened line.
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
