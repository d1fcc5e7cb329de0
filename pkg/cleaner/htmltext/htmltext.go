// Package htmltext captures prompts and chats from saved HTML pages.
// It turns the page (or the messages picked out by a selector) into
// markdown-ish text that the textclean pipeline then normalizes.
package htmltext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoMatch is returned when the configured selector matches nothing.
var ErrNoMatch = errors.New("selector matched no elements")

// Config configures HTML capture.
type Config struct {
	// Selector picks the message containers. Empty captures the whole body.
	Selector string

	// RoleAttribute names the attribute that carries a message author, such
	// as "user" or "assistant". When present on a selected element its value
	// is written as a label line before the message.
	RoleAttribute string

	// SkipImages omits images instead of writing ![alt](src).
	SkipImages bool

	// SkipLinks writes link text only.
	SkipLinks bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RoleAttribute: "data-message-author-role",
		SkipImages:    true,
	}
}

// Converter turns HTML into markdown-ish text.
// It implements the cleaner.Cleaner interface.
type Converter struct {
	config *Config
}

// New creates a converter. If config is nil, DefaultConfig() is used.
func New(config *Config) *Converter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Converter{config: config}
}

// Name returns the cleaner name for logging.
func (c *Converter) Name() string {
	return "htmltext"
}

// Clean converts HTML to text. This method implements the cleaner.Cleaner interface.
func (c *Converter) Clean(htmlContent string) (string, error) {
	return c.Convert(htmlContent)
}

// Convert parses htmlContent and renders the selected content.
func (c *Converter) Convert(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("head, script, style, noscript, template, svg, iframe").Remove()

	if c.config.Selector == "" {
		var sb strings.Builder
		c.formatNode(&sb, doc.Selection)
		return cleanOutput(sb.String()), nil
	}

	messages := doc.Find(c.config.Selector)
	if messages.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, c.config.Selector)
	}

	blocks := make([]string, 0, messages.Length())
	messages.Each(func(_ int, msg *goquery.Selection) {
		var sb strings.Builder
		if role := c.role(msg); role != "" {
			sb.WriteString(role + ":\n")
		}
		c.formatNode(&sb, msg)
		if text := cleanOutput(sb.String()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.Join(blocks, "\n\n"), nil
}

// role looks for the role attribute on the message or its nearest
// ancestor, since chat UIs often put it on a wrapper.
func (c *Converter) role(msg *goquery.Selection) string {
	if c.config.RoleAttribute == "" {
		return ""
	}
	if v, ok := msg.Attr(c.config.RoleAttribute); ok {
		return titleCase(v)
	}
	attr := "[" + c.config.RoleAttribute + "]"
	if v, ok := msg.ParentsFiltered(attr).First().Attr(c.config.RoleAttribute); ok {
		return titleCase(v)
	}
	return ""
}

func (c *Converter) formatNode(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]

		switch node.Type {
		case html.TextNode:
			writeText(sb, node.Data)

		case html.ElementNode:
			c.formatElement(sb, s, goquery.NodeName(s))
		}
	})
}

func (c *Converter) formatElement(sb *strings.Builder, s *goquery.Selection, tag string) {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(tag[1:])
		ensureNewline(sb, 2)
		sb.WriteString(strings.Repeat("#", level) + " ")
		c.formatNode(sb, s)
		ensureNewline(sb, 2)

	case "p", "div", "section", "article", "main", "header", "footer":
		ensureNewline(sb, 2)
		c.formatNode(sb, s)
		ensureNewline(sb, 2)

	case "br":
		sb.WriteString("\n")

	case "hr":
		ensureNewline(sb, 2)
		sb.WriteString("---")
		ensureNewline(sb, 2)

	case "strong", "b":
		c.wrap(sb, s, "**")

	case "em", "i":
		c.wrap(sb, s, "*")

	case "del", "s", "strike":
		c.wrap(sb, s, "~~")

	case "code":
		c.wrap(sb, s, "`")

	case "pre":
		ensureNewline(sb, 2)
		sb.WriteString("```" + codeLanguage(s) + "\n")
		sb.WriteString(strings.TrimRight(s.Text(), "\n"))
		sb.WriteString("\n```")
		ensureNewline(sb, 2)

	case "blockquote":
		ensureNewline(sb, 2)
		var quote strings.Builder
		c.formatNode(&quote, s)
		for _, line := range strings.Split(cleanOutput(quote.String()), "\n") {
			sb.WriteString("> " + line + "\n")
		}
		ensureNewline(sb, 1)

	case "ul", "ol":
		ensureNewline(sb, 2)
		n := 0
		s.Children().Each(func(_ int, li *goquery.Selection) {
			if goquery.NodeName(li) != "li" {
				return
			}
			n++
			if tag == "ol" {
				sb.WriteString(strconv.Itoa(n) + ". ")
			} else {
				sb.WriteString("- ")
			}
			var item strings.Builder
			c.formatNode(&item, li)
			sb.WriteString(strings.Join(strings.Fields(item.String()), " "))
			sb.WriteString("\n")
		})
		ensureNewline(sb, 1)

	case "a":
		href, _ := s.Attr("href")
		if c.config.SkipLinks || href == "" || strings.HasPrefix(href, "javascript:") {
			c.formatNode(sb, s)
			return
		}
		var label strings.Builder
		c.formatNode(&label, s)
		sb.WriteString("[" + strings.TrimSpace(label.String()) + "](" + href + ")")

	case "img":
		src, _ := s.Attr("src")
		if c.config.SkipImages || src == "" {
			return
		}
		alt, _ := s.Attr("alt")
		sb.WriteString("![" + alt + "](" + src + ")")

	case "table":
		formatTable(sb, s)

	case "form", "input", "button", "select", "textarea":

	default:
		c.formatNode(sb, s)
	}
}

func (c *Converter) wrap(sb *strings.Builder, s *goquery.Selection, marker string) {
	var inner strings.Builder
	c.formatNode(&inner, s)
	text := strings.TrimSpace(inner.String())
	if text == "" {
		return
	}
	sb.WriteString(marker + text + marker)
}

// codeLanguage reads a language-xxx (or lang-xxx) class from a <pre> or its <code>.
func codeLanguage(pre *goquery.Selection) string {
	classes, _ := pre.Attr("class")
	if code := pre.ChildrenFiltered("code").First(); code.Length() > 0 {
		if cls, ok := code.Attr("class"); ok {
			classes += " " + cls
		}
	}
	for _, cls := range strings.Fields(classes) {
		for _, prefix := range []string{"language-", "lang-"} {
			if lang, ok := strings.CutPrefix(cls, prefix); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}

func formatTable(sb *strings.Builder, table *goquery.Selection) {
	ensureNewline(sb, 2)

	rows := table.Find("tr")
	rows.Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.Join(strings.Fields(cell.Text()), " "))
		})
		if len(cells) == 0 {
			return
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 && tr.Find("th").Length() > 0 {
			sb.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
		}
	})

	ensureNewline(sb, 1)
}

// writeText writes collapsed inline text. Whitespace at either end of the
// source becomes a single separating space.
func writeText(sb *strings.Builder, raw string) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		if raw != "" {
			softSpace(sb)
		}
		return
	}
	if strings.TrimLeft(raw, " \t\r\n") != raw {
		softSpace(sb)
	}
	sb.WriteString(text)
	if strings.TrimRight(raw, " \t\r\n") != raw {
		softSpace(sb)
	}
}

func softSpace(sb *strings.Builder) {
	if sb.Len() == 0 {
		return
	}
	str := sb.String()
	if last := str[len(str)-1]; last != ' ' && last != '\n' {
		sb.WriteString(" ")
	}
}

// ensureNewline pads the output to end with at least count newlines.
func ensureNewline(sb *strings.Builder, count int) {
	if sb.Len() == 0 {
		return
	}
	str := sb.String()
	trailing := 0
	for i := len(str) - 1; i >= 0 && str[i] == '\n'; i-- {
		trailing++
	}
	for i := trailing; i < count; i++ {
		sb.WriteString("\n")
	}
}

// cleanOutput trims line ends and keeps at most one blank line in a row.
func cleanOutput(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if !blank {
				result = append(result, "")
			}
			blank = true
			continue
		}
		blank = false
		result = append(result, trimmed)
	}

	return strings.Trim(strings.Join(result, "\n"), "\n")
}

// titleCase capitalizes each word of a role label. The rest of each word is
// left as written, so "chatGPT" becomes "ChatGPT".
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// A Caser holds state, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(s)
}
