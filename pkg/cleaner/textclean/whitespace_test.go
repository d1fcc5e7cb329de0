package textclean

import (
	"testing"
)

func TestFinalizeWhitespace(t *testing.T) {
	defaults := DefaultOptions().Whitespace

	tests := []struct {
		name     string
		input    string
		opts     WhitespaceOptions
		expected string
	}{
		{
			name:     "collapses spaces and tabs",
			input:    "a   b\t\tc  d",
			opts:     defaults,
			expected: "a b c d\n",
		},
		{
			name:     "trims line ends",
			input:    "one   \ntwo\t",
			opts:     defaults,
			expected: "one\ntwo\n",
		},
		{
			name:     "keeps preformatted spacing",
			input:    "text\n    x  =  1   ",
			opts:     defaults,
			expected: "text\n    x  =  1\n",
		},
		{
			name:     "collapses blank lines",
			input:    "a\n\n\n\nb\n \n\t\nc",
			opts:     defaults,
			expected: "a\n\nb\n\nc\n",
		},
		{
			name:     "single blank line kept",
			input:    "a\n\nb",
			opts:     defaults,
			expected: "a\n\nb\n",
		},
		{
			name:     "document trimmed",
			input:    "\n\n  hello  \n\n\n",
			opts:     defaults,
			expected: "hello\n",
		},
		{
			name:     "leading preformatted line keeps indent",
			input:    "\n    code\ntext",
			opts:     defaults,
			expected: "    code\ntext\n",
		},
		{
			name:     "no final newline",
			input:    "text\n\n",
			opts:     WhitespaceOptions{CollapseSpaces: true, CollapseBlankLines: true},
			expected: "text",
		},
		{
			name:     "all disabled still trims",
			input:    "  a   b\n\n\n\nc  \n",
			opts:     WhitespaceOptions{},
			expected: "a   b\n\n\n\nc",
		},
		{
			name:     "empty stays empty",
			input:    " \n\t\n",
			opts:     defaults,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finalizeWhitespace(tt.input, tt.opts, NewReport())
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFinalizeWhitespaceCounts(t *testing.T) {
	report := NewReport()
	finalizeWhitespace("a  b  c\n\n\n\nd", DefaultOptions().Whitespace, report)

	if got := report.Count(RuleCollapseSpaces); got != 2 {
		t.Errorf("expected 2 collapse-spaces, got %d", got)
	}
	if got := report.Count(RuleCollapseBlankLines); got != 1 {
		t.Errorf("expected 1 collapse-blank-lines, got %d", got)
	}
	if got := report.Count(RuleFinalNewline); got != 1 {
		t.Errorf("expected 1 final-newline, got %d", got)
	}

	report = NewReport()
	finalizeWhitespace("done\n", DefaultOptions().Whitespace, report)
	if got := report.Count(RuleFinalNewline); got != 0 {
		t.Errorf("expected no final-newline for terminated text, got %d", got)
	}
}
