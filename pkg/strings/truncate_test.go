package strings

import "testing"

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "Added repo1",
			maxLen:   20,
			expected: "Added repo1",
		},
		{
			name:     "long string truncated with ellipsis",
			input:    "Chocolatey added the source repo1 successfully and emitted a lot of text",
			maxLen:   20,
			expected: "Chocolatey added ...",
		},
		{
			name:     "newlines flattened",
			input:    "line one\nline two\r\nline three",
			maxLen:   80,
			expected: "line one line two line three",
		},
		{
			name:     "whitespace runs collapsed",
			input:    "a   b\t\tc",
			maxLen:   80,
			expected: "a b c",
		},
		{
			name:     "maxLen clamped to minimum",
			input:    "abcdefgh",
			maxLen:   1,
			expected: "a...",
		},
		{
			name:     "unicode not split mid-rune",
			input:    "répertoire très long pour le test",
			maxLen:   10,
			expected: "réperto...",
		},
		{
			name:     "empty string",
			input:    "",
			maxLen:   10,
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := TruncateCell(test.input, test.maxLen)
			if got != test.expected {
				t.Errorf("TruncateCell(%q, %d) = %q, expected %q", test.input, test.maxLen, got, test.expected)
			}
			if len([]rune(got)) > test.maxLen && test.maxLen >= MinTruncateLen {
				t.Errorf("result %q exceeds maxLen %d", got, test.maxLen)
			}
		})
	}
}
