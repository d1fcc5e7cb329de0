package textclean

import (
	"regexp"
	"strings"
)

var (
	hspaceRunRegex  = regexp.MustCompile(`[ \t\x{00A0}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]{2,}`)
	blankLinesRegex = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
)

// finalizeWhitespace collapses redundant whitespace and applies the trailing
// newline policy. The document is always trimmed.
func finalizeWhitespace(text string, opts WhitespaceOptions, report *Report) string {
	hadNewline := strings.HasSuffix(text, "\n")

	if opts.CollapseSpaces {
		text = collapseSpaces(text, report)
	}

	if opts.CollapseBlankLines {
		if n := len(blankLinesRegex.FindAllStringIndex(text, -1)); n > 0 {
			text = blankLinesRegex.ReplaceAllString(text, "\n\n")
			report.Add(RuleCollapseBlankLines, n)
		}
	}

	text = trimDocument(text)
	if text == "" {
		return ""
	}

	if opts.EnsureFinalNewline {
		if !hadNewline {
			report.Inc(RuleFinalNewline)
		}
		return text + "\n"
	}
	return text
}

// collapseSpaces squeezes runs of horizontal whitespace and trims line ends.
// Preformatted lines keep their spacing.
func collapseSpaces(text string, report *Report) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isPreformatted(line) {
			continue
		}
		n := len(hspaceRunRegex.FindAllStringIndex(line, -1))
		if n > 0 {
			line = hspaceRunRegex.ReplaceAllString(line, " ")
		}
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			line = trimmed
			if n == 0 {
				n = 1
			}
		}
		if n > 0 {
			report.Add(RuleCollapseSpaces, n)
			lines[i] = line
		}
	}
	return strings.Join(lines, "\n")
}

// trimDocument drops leading blank lines and all trailing whitespace. The
// first line keeps its indentation only when it is preformatted.
func trimDocument(text string) string {
	text = strings.TrimRight(text, " \t\n")
	for {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 || strings.TrimSpace(text[:nl]) != "" {
			break
		}
		text = text[nl+1:]
	}
	if !isPreformatted(text) {
		text = strings.TrimLeft(text, " \t")
	}
	return text
}
