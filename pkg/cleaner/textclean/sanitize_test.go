package textclean

import (
	"strings"
	"testing"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "strips tags keeps text",
			input:    "<p>Hello&nbsp;<strong>world</strong></p>",
			contains: []string{"Hello world"},
			excludes: []string{"<p>", "<strong>", "&nbsp;"},
		},
		{
			name:     "removes script bodies",
			input:    "before<script>alert('xss')</script>after",
			contains: []string{"beforeafter"},
			excludes: []string{"<script>", "alert"},
		},
		{
			name:     "removes style bodies",
			input:    "<style type=\"text/css\">body { color: red }</style>text",
			contains: []string{"text"},
			excludes: []string{"color", "<style"},
		},
		{
			name:     "removes comments",
			input:    "a<!-- hidden -->b",
			contains: []string{"ab"},
			excludes: []string{"hidden"},
		},
		{
			name:     "encoded markup does not survive",
			input:    "&lt;script&gt;alert(1)&lt;/script&gt;safe",
			contains: []string{"safe"},
			excludes: []string{"<script>", "alert"},
		},
		{
			name:     "decodes entities",
			input:    "Tom &amp; Jerry &#8212; &quot;friends&quot;",
			contains: []string{`Tom & Jerry — "friends"`},
		},
		{
			name:     "keeps non-html angle text",
			input:    "Send to <URL> or <EMAIL>, a < b and <3",
			contains: []string{"<URL>", "<EMAIL>", "a < b", "<3"},
		},
		{
			name:     "block closers break lines",
			input:    "<div>one</div><div>two</div>three<br/>four",
			contains: []string{"one\ntwo\nthree\nfour"},
		},
		{
			name:     "tags with quoted attributes",
			input:    `<a href="https://x.io" title="a > b">link</a>`,
			contains: []string{"link"},
			excludes: []string{"href", "<a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := sanitizeHTML(tt.input, NewReport())
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q, got %q", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("expected output to exclude %q, got %q", s, out)
				}
			}
		})
	}
}

func TestSanitizeHTMLCounts(t *testing.T) {
	report := NewReport()
	sanitizeHTML("<b>bold</b> &amp; <i>it</i>", report)

	if got := report.Count(RuleSanitizeHTML); got != 4 {
		t.Errorf("expected 4 sanitize-html, got %d", got)
	}
	if got := report.Count(RuleDecodeEntity); got != 1 {
		t.Errorf("expected 1 decode-entity, got %d", got)
	}
}

func TestSanitizeHTMLPlainTextUntouched(t *testing.T) {
	in := "Nothing to see here, 5 > 3."
	report := NewReport()
	if out := sanitizeHTML(in, report); out != in {
		t.Errorf("expected %q, got %q", in, out)
	}
	if report.Total() != 0 {
		t.Errorf("expected no adjustments, got %v", report.RuleCounts)
	}
}

func TestSanitizeCodeLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"script block removed", "\t<script>alert('xss')</script>", "\t"},
		{"tags removed spacing kept", "    <b>x</b>  =  1</p>", "    x  =  1"},
		{"entities stay encoded", "    a &amp;&lt;b&gt; c", "    a &amp;&lt;b&gt; c"},
		{"split tag reassembled then removed", "<scr<b>ipt>alert(1)", "alert(1)"},
		{"comment removed", "x := 1 <!-- note -->", "x := 1 "},
		{"generics kept", "func Map[T any](xs []T) <T>", "func Map[T any](xs []T) <T>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeCodeLine(tt.input, NewReport()); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitizeHTMLDropsEncodedControls(t *testing.T) {
	out := sanitizeHTML("a&#13;b&#x7;c", NewReport())
	if out != "abc" {
		t.Errorf("expected %q, got %q", "abc", out)
	}
}
