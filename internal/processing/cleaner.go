// Package processing cleans up raw OCR output before it is saved. Engine
// output tends to carry stray control characters, ragged whitespace, and
// hyphenated line breaks that make the text awkward to consume downstream.
package processing

import (
	"strings"
	"unicode"
)

// CleaningRule is a single transform applied to extracted text.
type CleaningRule interface {
	Name() string
	Apply(text string) string
}

// CleaningResult reports what a cleaning pass did.
type CleaningResult struct {
	Text           string   `json:"text"`
	OriginalLength int      `json:"original_length"`
	CleanedLength  int      `json:"cleaned_length"`
	RulesApplied   []string `json:"rules_applied"`
}

// TextCleaner applies rule-based cleanup to OCR output.
type TextCleaner struct {
	rules []CleaningRule
}

// NewTextCleaner builds a cleaner with the default rules: strip control
// characters, rejoin words hyphenated across line breaks, normalize
// whitespace, and collapse runs of blank lines.
func NewTextCleaner() *TextCleaner {
	return &TextCleaner{
		rules: []CleaningRule{
			&ControlCharRule{},
			&DehyphenationRule{},
			&WhitespaceRule{},
			&BlankLineRule{},
		},
	}
}

// AddRule appends a custom rule, applied after the defaults.
func (c *TextCleaner) AddRule(rule CleaningRule) {
	c.rules = append(c.rules, rule)
}

// Clean runs every rule over the text in order.
func (c *TextCleaner) Clean(text string) CleaningResult {
	result := CleaningResult{OriginalLength: len(text)}
	for _, rule := range c.rules {
		cleaned := rule.Apply(text)
		if cleaned != text {
			result.RulesApplied = append(result.RulesApplied, rule.Name())
		}
		text = cleaned
	}
	result.Text = text
	result.CleanedLength = len(text)
	return result
}

// ControlCharRule drops non-printable characters the engine sometimes emits
// for speckles, keeping tabs and newlines.
type ControlCharRule struct{}

func (r *ControlCharRule) Name() string { return "control_chars" }

func (r *ControlCharRule) Apply(text string) string {
	return strings.Map(func(c rune) rune {
		if c == '\n' || c == '\t' {
			return c
		}
		if unicode.IsControl(c) || c == unicode.ReplacementChar {
			return -1
		}
		return c
	}, text)
}

// DehyphenationRule rejoins words split across line breaks with a trailing
// hyphen, a common artifact of narrow scanned columns.
type DehyphenationRule struct{}

func (r *DehyphenationRule) Name() string { return "dehyphenation" }

func (r *DehyphenationRule) Apply(text string) string {
	return strings.ReplaceAll(text, "-\n", "")
}

// WhitespaceRule trims trailing spaces on every line and collapses runs of
// spaces and tabs inside lines.
type WhitespaceRule struct{}

func (r *WhitespaceRule) Name() string { return "whitespace" }

func (r *WhitespaceRule) Apply(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

// BlankLineRule collapses three or more consecutive newlines into a single
// blank line so paragraph breaks survive but vertical noise does not.
type BlankLineRule struct{}

func (r *BlankLineRule) Name() string { return "blank_lines" }

func (r *BlankLineRule) Apply(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
