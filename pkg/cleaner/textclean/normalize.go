package textclean

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

const (
	emDash   = "—"
	ellipsis = "…"

	urlPlaceholder   = "<URL>"
	emailPlaceholder = "<EMAIL>"
)

var (
	emDashRegex = regexp.MustCompile(`[ \t]*\x{2014}[ \t]*`)
	urlRegex    = regexp.MustCompile("(?i)\\b(?:https?://|www\\.)[^\\s<>\"'()\\[\\]{}`]+")
	emailRegex  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}`)
)

// urlTrailing is punctuation that ends a sentence rather than a URL.
const urlTrailing = `.,;:!?'"`

var curlyQuoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// normalize applies the punctuation, contact and emoji families to rendered
// text. Each family looks only at its own characters, so toggling one never
// changes what another reports. Preformatted lines keep their spacing and
// punctuation but still lose contacts and emoji.
func normalize(text string, opts Options, report *Report) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case line == "":
		case isPreformatted(line):
			lines[i] = normalizeCode(line, opts, report)
		default:
			if out := normalizeProse(line, opts, report); out != line {
				// Removing a leading emoji or dash must not leave a line that
				// parses as code or opens a fence on the next clean.
				lines[i] = guardFence(strings.TrimSpace(out), report)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func normalizeProse(line string, opts Options, report *Report) string {
	p := opts.Punctuation
	line = normalizeEmDash(line, p.EmDash, report)
	line = normalizeQuotes(line, p.CurlyQuotes, report)
	line = normalizeEllipsis(line, p.Ellipsis, report)
	if opts.AnonymizeContacts {
		line = anonymizeContacts(line, report)
	}
	if opts.StripEmojis {
		line = stripEmojis(line, report)
	}
	return line
}

func normalizeCode(line string, opts Options, report *Report) string {
	out := line
	if opts.AnonymizeContacts {
		out = anonymizeContacts(out, report)
	}
	if opts.StripEmojis {
		out = stripEmojis(out, report)
	}
	if out != line && strings.TrimSpace(out) == "" {
		return ""
	}
	return out
}

func normalizeEmDash(line string, mode EmDashMode, report *Report) string {
	if mode == EmDashKeep || !strings.Contains(line, emDash) {
		return line
	}

	matches := emDashRegex.FindAllStringIndex(line, -1)
	report.Add(RuleEmDash, len(matches))

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(line[last:m[0]])
		last = m[1]

		spaced := m[1]-m[0] > len(emDash)
		atStart, atEnd := m[0] == 0, m[1] == len(line)
		switch {
		case atStart:
		case mode == EmDashRemove:
			if spaced && !atEnd {
				sb.WriteByte(' ')
			}
		case atEnd:
			sb.WriteByte(',')
		default:
			sb.WriteString(", ")
		}
	}
	sb.WriteString(line[last:])
	return sb.String()
}

func normalizeQuotes(line string, mode QuoteMode, report *Report) string {
	if mode != QuotesStraight || !strings.ContainsAny(line, "“”‘’") {
		return line
	}
	report.Add(RuleCurlyQuotes, countFunc(line, func(r rune) bool {
		return r == '“' || r == '”' || r == '‘' || r == '’'
	}))
	return curlyQuoteReplacer.Replace(line)
}

func normalizeEllipsis(line string, mode EllipsisMode, report *Report) string {
	if mode == EllipsisKeep || !strings.Contains(line, ellipsis) {
		return line
	}
	report.Add(RuleEllipsis, strings.Count(line, ellipsis))
	if mode == EllipsisRemove {
		return strings.ReplaceAll(line, ellipsis, "")
	}
	return strings.ReplaceAll(line, ellipsis, "...")
}

// anonymizeContacts redacts URLs first so the host part of a URL is never
// read as an email domain.
func anonymizeContacts(line string, report *Report) string {
	if strings.Contains(line, ".") {
		line = replaceMatches(line, urlRegex, func(s string, start int) (string, string, bool) {
			if start > 0 && line[start-1] == '@' {
				// Domain of an email address.
				return "", "", false
			}
			url := strings.TrimRight(s, urlTrailing)
			if url == "" {
				return "", "", false
			}
			report.Inc(RuleURL)
			return urlPlaceholder, s[len(url):], true
		})
	}
	if strings.Contains(line, "@") {
		line = replaceMatches(line, emailRegex, func(string, int) (string, string, bool) {
			report.Inc(RuleEmail)
			return emailPlaceholder, "", true
		})
	}
	return line
}

// replaceMatches rewrites every match of re in s. repl returns the
// replacement, a suffix of the match to keep verbatim, and whether to
// replace at all.
func replaceMatches(s string, re *regexp.Regexp, repl func(match string, start int) (string, string, bool)) string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		out, keep, ok := repl(s[m[0]:m[1]], m[0])
		if !ok {
			continue
		}
		sb.WriteString(s[last:m[0]])
		sb.WriteString(out)
		sb.WriteString(keep)
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// stripEmojis removes emoji grapheme clusters, so a ZWJ family or a flag
// disappears as one unit and the text around it is left alone.
func stripEmojis(line string, report *Report) string {
	if isASCII(line) {
		return line
	}

	var sb strings.Builder
	rest, state := line, -1
	removed := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		if isEmojiCluster(cluster) {
			removed++
			continue
		}
		sb.WriteString(cluster)
	}
	if removed == 0 {
		return line
	}
	report.Add(RuleEmoji, removed)
	return sb.String()
}

func isEmojiCluster(cluster string) bool {
	first, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case first >= 0x1F000 && first <= 0x1FAFF:
		return true
	case first == '\uFE0F' || first == '\u200D' || first == '\u20E3':
		// Joiners and selectors left over from a broken sequence.
		return true
	case strings.ContainsRune(cluster, '\u20E3'):
		// Keycaps such as 1️⃣.
		return true
	case first < 0x2000:
		// Digits, #, * and symbols like © only count with an emoji selector.
		return strings.ContainsRune(cluster, '\uFE0F')
	}
	return gomoji.ContainsEmoji(cluster)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
