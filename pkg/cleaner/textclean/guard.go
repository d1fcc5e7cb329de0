package textclean

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// MaxInputChars is the largest input, in Unicode code points, that is
// processed in full. Longer input is truncated.
const MaxInputChars = 100_000

// TruncationMarker is appended on its own line after truncated input.
var TruncationMarker = fmt.Sprintf("[... Input truncated at %s characters]", humanize.Comma(MaxInputChars))

// isStrayControl matches control characters that carry no meaning in a
// prompt. Tabs and newlines are kept.
func isStrayControl(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return unicode.IsControl(r) || r == '\uFEFF'
}

// guardInput repairs encoding problems and enforces the size cap. It never
// fails: whatever comes in, a valid UTF-8 string goes out.
func guardInput(s string, report *Report) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		report.Add(RuleInvalidUTF8, countInvalidBytes(s))
		s = strings.ToValidUTF8(s, "")
	}

	if n := strings.Count(s, "\r"); n > 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		report.Add(RuleLineEndings, n)
	}

	if n := countFunc(s, isStrayControl); n > 0 {
		out, _, err := transform.String(runes.Remove(runes.Predicate(isStrayControl)), s)
		if err == nil {
			s = out
			report.Add(RuleControlChars, n)
		}
	}

	return truncate(s, report)
}

// truncate cuts s to MaxInputChars code points, backing off to the previous
// grapheme cluster boundary so emoji sequences and combining marks stay whole.
func truncate(s string, report *Report) string {
	if utf8.RuneCountInString(s) <= MaxInputChars {
		return s
	}
	if body, ok := cutMarker(s); ok && utf8.RuneCountInString(body) <= MaxInputChars {
		// Already truncated by an earlier pass.
		return s
	}

	cut, chars := 0, 0
	rest, state := s, -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		n := utf8.RuneCountInString(cluster)
		if chars+n > MaxInputChars {
			break
		}
		chars += n
		cut += len(cluster)
	}

	report.Inc(RuleTruncated)
	return s[:cut] + "\n" + TruncationMarker
}

// cutMarker returns the text before a trailing truncation marker.
func cutMarker(s string) (string, bool) {
	trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
	if !strings.HasSuffix(trimmed, TruncationMarker) {
		return "", false
	}
	return strings.TrimRight(strings.TrimSuffix(trimmed, TruncationMarker), "\n"), true
}

func countInvalidBytes(s string) int {
	n := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			n++
		}
		i += size
	}
	return n
}

func countFunc(s string, f func(rune) bool) int {
	n := 0
	for _, r := range s {
		if f(r) {
			n++
		}
	}
	return n
}
