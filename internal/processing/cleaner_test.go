package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextCleaner_Clean(t *testing.T) {
	cleaner := NewTextCleaner()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already clean",
			input:    "Hello World",
			expected: "Hello World",
		},
		{
			name:     "control characters stripped",
			input:    "Hello\x00\x07 World",
			expected: "Hello World",
		},
		{
			name:     "hyphenated line break rejoined",
			input:    "exam-\nple text",
			expected: "example text",
		},
		{
			name:     "inner whitespace collapsed",
			input:    "Total:\t\t 12.50   EUR",
			expected: "Total: 12.50 EUR",
		},
		{
			name:     "blank line runs collapsed",
			input:    "one\n\n\n\n\ntwo",
			expected: "one\n\ntwo",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "\n\n  padded  \n\n",
			expected: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleaner.Clean(tt.input)
			assert.Equal(t, tt.expected, result.Text)
			assert.Equal(t, len(tt.input), result.OriginalLength)
			assert.Equal(t, len(result.Text), result.CleanedLength)
		})
	}
}

func TestTextCleaner_RulesApplied(t *testing.T) {
	cleaner := NewTextCleaner()

	result := cleaner.Clean("plain")
	assert.Empty(t, result.RulesApplied, "untouched text reports no rules")

	result = cleaner.Clean("exam-\nple")
	assert.Contains(t, result.RulesApplied, "dehyphenation")
}

type upperRule struct{}

func (upperRule) Name() string             { return "upper" }
func (upperRule) Apply(text string) string { return "UPPER:" + text }

func TestTextCleaner_AddRule(t *testing.T) {
	cleaner := NewTextCleaner()
	cleaner.AddRule(upperRule{})

	result := cleaner.Clean("hello")
	assert.Equal(t, "UPPER:hello", result.Text)
}
