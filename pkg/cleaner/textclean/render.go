package textclean

import (
	"strings"
)

// maxStructurePasses bounds how often parse and render run over their own
// output. Stripping a marker can expose another construct ("**#** x" becomes
// a heading), so the structural stage repeats until the text settles.
const maxStructurePasses = 3

const codeIndent = "    "

// renderStructure runs the parser and renderer until the text is stable.
// Rules only count when they change something, so a settled pass adds nothing
// to the report.
func renderStructure(text string, opts StructureOptions, report *Report) string {
	out := render(parse(text, report), opts, report)
	for i := 1; i < maxStructurePasses && out != text; i++ {
		text = out
		out = render(parse(text, report), opts, report)
	}
	return out
}

func render(nodes []node, opts StructureOptions, report *Report) string {
	r := &renderer{opts: opts, report: report}
	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out := n.accept(r)
		if _, code := n.(*codeBlockNode); !code {
			for i, line := range out {
				out[i] = guardFence(line, report)
			}
		}
		lines = append(lines, out...)
	}
	return strings.Join(lines, "\n")
}

// guardFence indents a prose line that would open a fence when parsed again.
// Such a line appears when stripping emphasis or a marker exposes "```" or
// "~~~" at the start of a line; left alone it would swallow the text after it.
func guardFence(line string, report *Report) string {
	if _, _, ok := openFence(line); !ok {
		return line
	}
	report.Inc(RuleExposedFence)
	return codeIndent + line
}

type renderer struct {
	opts   StructureOptions
	report *Report
}

func (r *renderer) visitHeading(n *headingNode) []string {
	if r.opts.DropHeadings {
		r.report.Inc(RuleDropHeading)
		return nil
	}
	r.report.Inc(RuleStripHeading)
	return n.inner.accept(r)
}

func (r *renderer) visitParagraph(n *paragraphNode) []string {
	return []string{strings.TrimSpace(r.inline(n.runs))}
}

func (r *renderer) visitListItem(n *listItemNode) []string {
	lines := n.inner.accept(r)
	if len(lines) == 0 {
		return nil
	}

	if r.opts.ListMode == ListSentences {
		r.report.Inc(RuleUnwrapListItem)
		return lines
	}

	marker := "-"
	if n.ordered {
		marker = n.number + "."
	}
	if marker != n.marker {
		r.report.Inc(RuleNormalizeBullet)
	}
	lines[0] = marker + " " + lines[0]
	return lines
}

func (r *renderer) visitBlockquote(n *blockquoteNode) []string {
	lines := n.inner.accept(r)
	if len(lines) == 0 {
		return nil
	}

	if r.opts.DropBlockquotes {
		r.report.Inc(RuleStripBlockquote)
		return lines
	}

	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return lines
}

func (r *renderer) visitCodeBlock(n *codeBlockNode) []string {
	if !n.fenced {
		return r.codeLines(n.lines, "")
	}

	// An unterminated fence may have swallowed the rest of the document,
	// so it is kept even in drop mode.
	if r.opts.CodeBlockMode == CodeBlockDrop && n.terminated {
		r.report.Inc(RuleDropCodeBlock)
		return nil
	}

	r.report.Inc(RuleIndentCodeBlock)
	src := n.lines
	if !n.terminated && n.info != "" {
		// Nothing closes the fence, so its opening line is text like any other.
		src = append([]string{strings.TrimLeft(n.open, " ")}, n.lines...)
	}
	return r.codeLines(src, codeIndent)
}

// codeLines strips markup from code lines and prefixes each non-blank line
// with indent. Blank lines come back empty.
func (r *renderer) codeLines(src []string, indent string) []string {
	lines := make([]string, len(src))
	for i, line := range src {
		line = sanitizeCodeLine(line, r.report)
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = indent + line
	}
	return lines
}

func (r *renderer) visitRule(n *ruleNode) []string {
	if r.opts.DropHorizontalRules {
		r.report.Inc(RuleDropRule)
		return nil
	}
	return []string{n.raw}
}

func (r *renderer) visitBlank(*blankNode) []string {
	return []string{""}
}

func (r *renderer) inline(runs []inlineRun) string {
	var sb strings.Builder
	for _, run := range runs {
		switch run.kind {
		case inlineText:
			sb.WriteString(run.text)
		case inlineLink:
			sb.WriteString(r.link(run))
		case inlineEmphasis:
			if r.opts.KeepBasicMarkdown {
				sb.WriteString(run.marker + r.inline(run.children) + run.marker)
				continue
			}
			r.report.Inc(RuleStripEmphasis)
			sb.WriteString(r.inline(run.children))
		}
	}
	return sb.String()
}

func (r *renderer) link(run inlineRun) string {
	label := strings.TrimSpace(r.inline(run.children))

	switch r.opts.LinkMode {
	case LinkMarkdown:
		return run.raw
	case LinkTextOnly:
		r.report.Inc(RuleLinkTextOnly)
		if label == "" {
			return run.url
		}
		return label
	default:
		r.report.Inc(RuleLinkTextAndURL)
		if run.url == "" || label == run.url {
			return label
		}
		if label == "" {
			return run.url
		}
		return label + " (" + run.url + ")"
	}
}
