package textclean

import (
	"regexp"
	"strings"
)

var (
	headingRegex   = regexp.MustCompile(`^(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	bulletRegex    = regexp.MustCompile(`^([-*+•])[ \t]+(\S.*)$`)
	orderedRegex   = regexp.MustCompile(`^(\d{1,9})([.)])[ \t]+(\S.*)$`)
	quoteRegex     = regexp.MustCompile(`^(?:>[ \t]?)+`)
	fenceOpenRegex = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})(.*)$")
	fenceEndRegex  = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t]*$")
)

// parse splits text into structural nodes. Fenced blocks and preformatted
// lines become code nodes whose markup the renderer strips line by line;
// everything between them forms a prose segment that is sanitized as a
// whole and then classified line by line.
func parse(text string, report *Report) []node {
	lines := strings.Split(text, "\n")
	nodes := make([]node, 0, len(lines))
	var prose []string

	flush := func() {
		if len(prose) == 0 {
			return
		}
		segment := sanitizeHTML(strings.Join(prose, "\n"), report)
		for _, line := range strings.Split(segment, "\n") {
			nodes = append(nodes, parseLine(line))
		}
		prose = prose[:0]
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if isPreformatted(line) {
			flush()
			nodes = append(nodes, &codeBlockNode{lines: []string{line}})
			continue
		}

		fence, info, ok := openFence(line)
		if !ok {
			prose = append(prose, line)
			continue
		}

		flush()
		block := &codeBlockNode{fenced: true, fence: fence, info: info, open: line}
		j := i + 1
		for ; j < len(lines); j++ {
			if closesFence(lines[j], fence) {
				block.terminated = true
				break
			}
			block.lines = append(block.lines, lines[j])
		}
		if !block.terminated {
			report.Inc(RuleUnterminatedFence)
		}
		nodes = append(nodes, block)
		i = j
	}
	flush()

	return nodes
}

// parseLine classifies a single prose line. Prefix constructs parse the rest
// of the line recursively, so whatever remains after a marker is removed
// reads the same way on a second pass.
func parseLine(line string) node {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return &blankNode{}
	}

	if isRule(trimmed) {
		return &ruleNode{raw: trimmed}
	}

	if m := headingRegex.FindStringSubmatch(trimmed); m != nil {
		return &headingNode{level: len(m[1]), inner: parseLine(m[2])}
	}

	// Quotes wrap whatever follows, including list items.
	if loc := quoteRegex.FindStringIndex(trimmed); loc != nil {
		return &blockquoteNode{inner: parseLine(trimmed[loc[1]:])}
	}

	if m := bulletRegex.FindStringSubmatch(trimmed); m != nil {
		return &listItemNode{marker: m[1], inner: parseLine(m[2])}
	}

	if m := orderedRegex.FindStringSubmatch(trimmed); m != nil {
		return &listItemNode{
			marker:  m[1] + m[2],
			ordered: true,
			number:  m[1],
			inner:   parseLine(m[3]),
		}
	}

	return &paragraphNode{runs: parseInlines(trimmed)}
}

// isPreformatted reports whether a line is indented as code: a leading tab
// or four spaces followed by content. Such lines keep their spacing and
// punctuation; only markup, contacts and emoji are removed from them.
func isPreformatted(line string) bool {
	if !strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, "    ") {
		return false
	}
	return strings.TrimSpace(line) != ""
}

// isRule matches ---, *** and ___ (three or more, spaces allowed).
func isRule(trimmed string) bool {
	var ch rune
	count := 0
	for _, r := range trimmed {
		switch r {
		case ' ', '\t':
			continue
		case '-', '*', '_':
			if ch == 0 {
				ch = r
			} else if r != ch {
				return false
			}
			count++
		default:
			return false
		}
	}
	return count >= 3
}

func openFence(line string) (fence, info string, ok bool) {
	m := fenceOpenRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	fence, info = m[1], strings.TrimSpace(m[2])
	if fence[0] == '`' && strings.Contains(info, "`") {
		// Inline code such as ```a``` is not a fence.
		return "", "", false
	}
	return fence, info, true
}

// closesFence requires the same fence character and at least the opening length.
func closesFence(line, fence string) bool {
	m := fenceEndRegex.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return m[1][0] == fence[0] && len(m[1]) >= len(fence)
}

var (
	linkRegex   = regexp.MustCompile(`(!?)\[([^\[\]\n]*)\]\(\s*(<[^<>\n]*>|[^\s()<>]*(?:\([^\s()]*\)[^\s()<>]*)*)(?:\s+(?:"[^"\n]*"|'[^'\n]*'|\([^()\n]*\)))?\s*\)`)
	boldRegex   = regexp.MustCompile(`\*\*([^\s*](?:[^\n]*?[^\s*])?)\*\*`)
	strikeRegex = regexp.MustCompile(`~~([^\s~](?:[^\n]*?[^\s~])?)~~`)
	italicRegex = regexp.MustCompile(`\*([^\s*](?:[^*\n]*[^\s*])?)\*`)
)

type inlinePattern struct {
	kind   inlineKind
	re     *regexp.Regexp
	marker string
}

// inlinePatterns is ordered by precedence for matches starting at the same
// offset: links, then bold before italic.
var inlinePatterns = []inlinePattern{
	{kind: inlineLink, re: linkRegex},
	{kind: inlineEmphasis, re: boldRegex, marker: "**"},
	{kind: inlineEmphasis, re: strikeRegex, marker: "~~"},
	{kind: inlineEmphasis, re: italicRegex, marker: "*"},
}

// parseInlines splits line text into runs. Each pattern's next match is
// cached and only searched again once the scan has passed it, so a line is
// scanned roughly once per pattern.
func parseInlines(s string) []inlineRun {
	if !strings.ContainsAny(s, "[*~") {
		return []inlineRun{{kind: inlineText, text: s}}
	}

	var runs []inlineRun
	next := make([][]int, len(inlinePatterns))
	done := make([]bool, len(inlinePatterns))
	pos := 0

	for pos < len(s) {
		best := -1
		for i, p := range inlinePatterns {
			if done[i] {
				continue
			}
			if next[i] == nil || next[i][0] < pos {
				loc := p.re.FindStringSubmatchIndex(s[pos:])
				if loc == nil {
					done[i] = true
					next[i] = nil
					continue
				}
				for k := range loc {
					if loc[k] >= 0 {
						loc[k] += pos
					}
				}
				next[i] = loc
			}
			if best < 0 || next[i][0] < next[best][0] {
				best = i
			}
		}
		if best < 0 {
			break
		}

		loc := next[best]
		if loc[0] > pos {
			runs = append(runs, inlineRun{kind: inlineText, text: s[pos:loc[0]]})
		}
		runs = append(runs, buildRun(inlinePatterns[best], s, loc))
		pos = loc[1]
	}

	if pos < len(s) {
		runs = append(runs, inlineRun{kind: inlineText, text: s[pos:]})
	}
	return runs
}

func buildRun(p inlinePattern, s string, loc []int) inlineRun {
	raw := s[loc[0]:loc[1]]
	if p.kind == inlineLink {
		url := strings.TrimSpace(s[loc[6]:loc[7]])
		url = strings.TrimSuffix(strings.TrimPrefix(url, "<"), ">")
		return inlineRun{
			kind:     inlineLink,
			raw:      raw,
			url:      url,
			image:    loc[3] > loc[2],
			children: parseInlines(s[loc[4]:loc[5]]),
		}
	}
	return inlineRun{
		kind:     inlineEmphasis,
		raw:      raw,
		marker:   p.marker,
		children: parseInlines(s[loc[2]:loc[3]]),
	}
}
