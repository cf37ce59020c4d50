package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"True", true},
		{"TRUE", true},
		{" true ", true},
		{"Enabled", true},
		{"enabled", true},
		{"false", false},
		{"False", false},
		{"Disabled", false},
		{"disabled", false},
		// Falsy-but-nonempty strings must not parse as true. The historical
		// truthiness idiom got these wrong.
		{"0", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"  ", false},
		{"truthy", false},
		{"enabledd", false},
	}

	for _, test := range tests {
		assert.Equalf(t, test.expected, ParseBool(test.input), "ParseBool(%q)", test.input)
	}
}

func TestReportsFailure(t *testing.T) {
	assert.True(t, ReportsFailure("Running chocolatey failed"))
	assert.True(t, ReportsFailure("some context\nRunning chocolatey failed\nmore context"))
	assert.False(t, ReportsFailure("Added repo1 - https://a"))
	assert.False(t, ReportsFailure(""))
	// The match is on the exact phrase, not on the word "failed".
	assert.False(t, ReportsFailure("nothing failed here"))
}
