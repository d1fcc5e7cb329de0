package textclean

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// maxSanitizePasses bounds the strip/decode loop. Each pass can only reveal
// markup that was entity-encoded in the previous one.
const maxSanitizePasses = 4

var (
	commentRegex     = regexp.MustCompile(`<!--[\s\S]*?-->`)
	scriptBlockRegex = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleBlockRegex  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	tagRegex         = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)(?:\s(?:[^<>"']|"[^"]*"|'[^']*')*)?/?>`)
	entityRegex      = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z][a-zA-Z0-9]{1,31});`)
)

// htmlElements holds the element names treated as markup. Anything else in
// angle brackets, such as <URL> or <name>, is ordinary text.
var htmlElements = map[string]bool{
	"a": true, "abbr": true, "address": true, "article": true, "aside": true,
	"audio": true, "b": true, "bdi": true, "bdo": true, "big": true,
	"blockquote": true, "body": true, "br": true, "button": true, "canvas": true,
	"caption": true, "center": true, "cite": true, "code": true, "col": true,
	"colgroup": true, "dd": true, "del": true, "details": true, "dfn": true,
	"dialog": true, "div": true, "dl": true, "dt": true, "em": true,
	"embed": true, "fieldset": true, "figcaption": true, "figure": true, "font": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "head": true, "header": true,
	"hr": true, "html": true, "i": true, "iframe": true, "img": true,
	"input": true, "ins": true, "kbd": true, "label": true, "legend": true,
	"li": true, "link": true, "main": true, "mark": true, "meta": true,
	"nav": true, "noscript": true, "object": true, "ol": true, "option": true,
	"p": true, "param": true, "picture": true, "pre": true, "q": true,
	"s": true, "samp": true, "script": true, "section": true, "select": true,
	"small": true, "source": true, "span": true, "strike": true, "strong": true,
	"style": true, "sub": true, "summary": true, "sup": true, "svg": true,
	"table": true, "tbody": true, "td": true, "template": true, "textarea": true,
	"tfoot": true, "th": true, "thead": true, "time": true, "title": true,
	"tr": true, "track": true, "tt": true, "u": true, "ul": true,
	"var": true, "video": true, "wbr": true,
}

// lineBreakElements end a line when closed. <br> and <hr> break on their own.
var lineBreakElements = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "blockquote": true,
	"pre": true, "ul": true, "ol": true, "table": true, "section": true,
	"article": true, "header": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "dd": true, "dt": true,
}

var spaceReplacer = strings.NewReplacer(
	"\u00A0", " ",
	"\u2007", " ",
	"\u202F", " ",
)

// sanitizeHTML strips markup from a prose segment while keeping its text.
// Script and style bodies are removed with their tags, never evaluated.
// Entities are decoded, and the strip/decode cycle repeats until nothing
// changes so encoded markup cannot survive into a later clean.
func sanitizeHTML(s string, report *Report) string {
	for i := 0; i < maxSanitizePasses && strings.ContainsAny(s, "<&"); i++ {
		next := decodeEntities(stripTags(s, true, report), report)
		if next == s {
			break
		}
		s = next
	}
	return spaceReplacer.Replace(s)
}

// sanitizeCodeLine strips markup from one line of code. Entities stay encoded
// and closing block tags do not break the line, so the code keeps its layout.
func sanitizeCodeLine(line string, report *Report) string {
	// Every change removes characters, so the loop ends.
	for strings.Contains(line, "<") {
		next := stripTags(line, false, report)
		if next == line {
			break
		}
		line = next
	}
	return line
}

// stripTags removes comments, script and style blocks and known tags. With
// breaks set, <br>, <hr> and closing block tags become line breaks.
func stripTags(s string, breaks bool, report *Report) string {
	if !strings.Contains(s, "<") {
		return s
	}

	s = removeAll(commentRegex, s, report)
	s = removeAll(scriptBlockRegex, s, report)
	s = removeAll(styleBlockRegex, s, report)

	return tagRegex.ReplaceAllStringFunc(s, func(tag string) string {
		m := tagRegex.FindStringSubmatch(tag)
		name := strings.ToLower(m[1])
		if !htmlElements[name] {
			return tag
		}
		report.Inc(RuleSanitizeHTML)
		closing := strings.HasPrefix(tag, "</")
		if breaks && (name == "br" || name == "hr" || (closing && lineBreakElements[name])) {
			return "\n"
		}
		return ""
	})
}

func removeAll(re *regexp.Regexp, s string, report *Report) string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	report.Add(RuleSanitizeHTML, len(matches))
	return re.ReplaceAllString(s, "")
}

func decodeEntities(s string, report *Report) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityRegex.ReplaceAllStringFunc(s, func(entity string) string {
		decoded := html.UnescapeString(entity)
		if decoded == entity {
			return entity
		}
		report.Inc(RuleDecodeEntity)
		// Encoded control characters such as &#13; are dropped like raw ones.
		return strings.Map(func(r rune) rune {
			if r == '\r' || isStrayControl(r) {
				return -1
			}
			return r
		}, decoded)
	})
}
