package textclean

import (
	"fmt"
	"sort"
	"strings"
)

// Rule identifiers recorded in Report.RuleCounts.
const (
	RuleTruncated    = "io:truncated"
	RuleInvalidUTF8  = "io:invalid-utf8"
	RuleLineEndings  = "io:line-endings"
	RuleControlChars = "io:control-chars"

	RuleSanitizeHTML      = "parse:sanitize-html"
	RuleDecodeEntity      = "parse:decode-entity"
	RuleUnterminatedFence = "parse:unterminated-fence"

	RuleDropHeading     = "structure:drop-heading"
	RuleStripHeading    = "structure:strip-heading"
	RuleDropRule        = "structure:drop-rule"
	RuleStripBlockquote = "structure:strip-blockquote"
	RuleUnwrapListItem  = "structure:unwrap-list-item"
	RuleNormalizeBullet = "structure:normalize-bullet"
	RuleDropCodeBlock   = "structure:drop-code-block"
	RuleIndentCodeBlock = "structure:indent-code-block"
	RuleLinkTextOnly    = "structure:link-text-only"
	RuleLinkTextAndURL  = "structure:link-text-and-url"
	RuleStripEmphasis   = "structure:strip-emphasis"
	RuleExposedFence    = "structure:exposed-fence"

	RuleEmDash      = "punctuation:em-dash"
	RuleCurlyQuotes = "punctuation:curly-quotes"
	RuleEllipsis    = "punctuation:ellipsis"

	RuleURL   = "contacts:url"
	RuleEmail = "contacts:email"

	RuleEmoji = "emoji:strip"

	RuleCollapseSpaces     = "whitespace:collapse-spaces"
	RuleCollapseBlankLines = "whitespace:collapse-blank-lines"
	RuleFinalNewline       = "whitespace:final-newline"
)

// Report tallies how often each rule fired during one Clean call.
type Report struct {
	RuleCounts map[string]int `json:"ruleCounts" yaml:"ruleCounts"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{RuleCounts: make(map[string]int)}
}

// Add records n firings of rule. Non-positive n is ignored so the map only
// holds rules that actually fired.
func (r *Report) Add(rule string, n int) {
	if n <= 0 {
		return
	}
	r.RuleCounts[rule] += n
}

// Inc records a single firing of rule.
func (r *Report) Inc(rule string) {
	r.RuleCounts[rule]++
}

// Count returns how often rule fired.
func (r *Report) Count(rule string) int {
	return r.RuleCounts[rule]
}

// Total returns the number of adjustments across all rules.
func (r *Report) Total() int {
	total := 0
	for _, n := range r.RuleCounts {
		total += n
	}
	return total
}

// Rules returns the fired rule identifiers in sorted order.
func (r *Report) Rules() []string {
	rules := make([]string, 0, len(r.RuleCounts))
	for rule := range r.RuleCounts {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	return rules
}

// String returns a human-readable summary, one rule per line.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Adjustments: %d\n", r.Total()))
	for _, rule := range r.Rules() {
		sb.WriteString(fmt.Sprintf("  %-34s %d\n", rule, r.RuleCounts[rule]))
	}
	return sb.String()
}

// Result is the output of one Clean call.
type Result struct {
	Text   string  `json:"text" yaml:"text"`
	Report *Report `json:"report" yaml:"report"`
}
