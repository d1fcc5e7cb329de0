// Package textclean provides a configurable, idempotent text cleaner for
// prompts and chats. It turns pasted, markdown-ish text into predictable
// plain text while counting every adjustment it makes.
package textclean

// Preset names a bundle of baseline option values.
type Preset string

const (
	PresetPlain        Preset = "plain"
	PresetEmail        Preset = "email"
	PresetMarkdownSlim Preset = "markdown-slim"
	PresetChat         Preset = "chat"
	PresetCustom       Preset = "custom"
)

// Presets lists the named presets in display order. Custom is not included
// because it has no baseline of its own.
var Presets = []Preset{PresetPlain, PresetEmail, PresetMarkdownSlim, PresetChat}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	switch p {
	case PresetPlain, PresetEmail, PresetMarkdownSlim, PresetChat, PresetCustom:
		return true
	}
	return false
}

// LinkMode controls how markdown links are rendered.
type LinkMode string

const (
	LinkTextOnly   LinkMode = "textOnly"
	LinkTextAndURL LinkMode = "textAndUrl"
	LinkMarkdown   LinkMode = "markdown"
)

func (m LinkMode) Valid() bool {
	return m == LinkTextOnly || m == LinkTextAndURL || m == LinkMarkdown
}

// ListMode controls how list items are rendered.
type ListMode string

const (
	ListSentences   ListMode = "sentences"
	ListKeepBullets ListMode = "keepBullets"
)

func (m ListMode) Valid() bool {
	return m == ListSentences || m == ListKeepBullets
}

// CodeBlockMode controls how fenced code blocks are rendered.
type CodeBlockMode string

const (
	CodeBlockDrop         CodeBlockMode = "drop"
	CodeBlockKeepIndented CodeBlockMode = "keepIndented"
)

func (m CodeBlockMode) Valid() bool {
	return m == CodeBlockDrop || m == CodeBlockKeepIndented
}

// EmDashMode controls em dash (U+2014) rewriting.
type EmDashMode string

const (
	EmDashComma  EmDashMode = "comma"
	EmDashKeep   EmDashMode = "keep"
	EmDashRemove EmDashMode = "remove"
)

func (m EmDashMode) Valid() bool {
	return m == EmDashComma || m == EmDashKeep || m == EmDashRemove
}

// QuoteMode controls curly quote rewriting.
type QuoteMode string

const (
	QuotesStraight QuoteMode = "straight"
	QuotesKeep     QuoteMode = "keep"
)

func (m QuoteMode) Valid() bool {
	return m == QuotesStraight || m == QuotesKeep
}

// EllipsisMode controls horizontal ellipsis (U+2026) rewriting.
type EllipsisMode string

const (
	EllipsisThreeDots EllipsisMode = "threeDots"
	EllipsisKeep      EllipsisMode = "keep"
	EllipsisRemove    EllipsisMode = "remove"
)

func (m EllipsisMode) Valid() bool {
	return m == EllipsisThreeDots || m == EllipsisKeep || m == EllipsisRemove
}

// StructureOptions configures the structural renderer.
type StructureOptions struct {
	// DropHeadings omits heading lines entirely. When false the heading
	// markers are stripped and the text kept.
	DropHeadings bool `json:"dropHeadings" yaml:"dropHeadings"`

	// KeepBasicMarkdown leaves **bold**, *italic* and ~~strike~~ markers in place.
	KeepBasicMarkdown bool `json:"keepBasicMarkdown" yaml:"keepBasicMarkdown"`

	// DropBlockquotes strips the > marker. The quoted text is always kept.
	DropBlockquotes bool `json:"dropBlockquotes" yaml:"dropBlockquotes"`

	// DropHorizontalRules omits ---, *** and ___ lines.
	DropHorizontalRules bool `json:"dropHorizontalRules" yaml:"dropHorizontalRules"`

	LinkMode      LinkMode      `json:"linkMode" yaml:"linkMode"`
	ListMode      ListMode      `json:"listMode" yaml:"listMode"`
	CodeBlockMode CodeBlockMode `json:"codeBlockMode" yaml:"codeBlockMode"`
}

// PunctuationOptions configures typographic punctuation rewriting.
type PunctuationOptions struct {
	EmDash      EmDashMode   `json:"emDash" yaml:"emDash"`
	CurlyQuotes QuoteMode    `json:"curlyQuotes" yaml:"curlyQuotes"`
	Ellipsis    EllipsisMode `json:"ellipsis" yaml:"ellipsis"`
}

// WhitespaceOptions configures the whitespace finalizer.
type WhitespaceOptions struct {
	// CollapseSpaces turns runs of horizontal whitespace into one space.
	// Preformatted (indented) lines are never touched.
	CollapseSpaces bool `json:"collapseSpaces" yaml:"collapseSpaces"`

	// CollapseBlankLines limits consecutive blank lines to one.
	CollapseBlankLines bool `json:"collapseBlankLines" yaml:"collapseBlankLines"`

	// EnsureFinalNewline guarantees exactly one trailing newline.
	EnsureFinalNewline bool `json:"ensureFinalNewline" yaml:"ensureFinalNewline"`
}

// Options is a fully resolved configuration. It only holds value types, so
// copying an Options copies the whole graph.
type Options struct {
	Preset      Preset             `json:"preset" yaml:"preset"`
	Structure   StructureOptions   `json:"structure" yaml:"structure"`
	Punctuation PunctuationOptions `json:"punctuation" yaml:"punctuation"`

	// AnonymizeContacts replaces URLs with <URL> and emails with <EMAIL>.
	AnonymizeContacts bool `json:"anonymizeContacts" yaml:"anonymizeContacts"`

	// StripEmojis removes emoji, including ZWJ and variation selector sequences.
	StripEmojis bool `json:"stripEmojis" yaml:"stripEmojis"`

	Whitespace WhitespaceOptions `json:"whitespace" yaml:"whitespace"`

	// Locale is informational and does not change any rule.
	Locale string `json:"locale" yaml:"locale"`
}

// DefaultOptions returns the default configuration, which is the plain preset.
// Each call returns a fresh value.
func DefaultOptions() Options {
	return Options{
		Preset: PresetPlain,
		Structure: StructureOptions{
			DropHeadings:        false,
			KeepBasicMarkdown:   false,
			DropBlockquotes:     true,
			DropHorizontalRules: true,
			LinkMode:            LinkTextAndURL,
			ListMode:            ListKeepBullets,
			CodeBlockMode:       CodeBlockKeepIndented,
		},
		Punctuation: PunctuationOptions{
			EmDash:      EmDashComma,
			CurlyQuotes: QuotesStraight,
			Ellipsis:    EllipsisThreeDots,
		},
		AnonymizeContacts: false,
		StripEmojis:       false,
		Whitespace: WhitespaceOptions{
			CollapseSpaces:     true,
			CollapseBlankLines: true,
			EnsureFinalNewline: true,
		},
		Locale: "en",
	}
}

// PresetEmailOptions returns a config for pasting into an email body:
// no emoji, links spelled out, code kept indented.
func PresetEmailOptions() Options {
	opts := DefaultOptions()
	opts.Preset = PresetEmail
	opts.Structure.DropHeadings = false
	opts.Structure.LinkMode = LinkTextAndURL
	opts.Structure.ListMode = ListKeepBullets
	opts.StripEmojis = true
	return opts
}

// PresetMarkdownSlimOptions keeps a reduced markdown dialect: emphasis,
// quotes, rules and markdown links survive, and no trailing newline is forced.
func PresetMarkdownSlimOptions() Options {
	opts := DefaultOptions()
	opts.Preset = PresetMarkdownSlim
	opts.Structure.KeepBasicMarkdown = true
	opts.Structure.DropBlockquotes = false
	opts.Structure.DropHorizontalRules = false
	opts.Structure.LinkMode = LinkMarkdown
	opts.Structure.ListMode = ListKeepBullets
	opts.Whitespace.EnsureFinalNewline = false
	return opts
}

// PresetChatOptions targets chat inputs: lists read as prose lines and
// nothing trails the message.
func PresetChatOptions() Options {
	opts := DefaultOptions()
	opts.Preset = PresetChat
	opts.Structure.ListMode = ListSentences
	opts.Structure.LinkMode = LinkTextAndURL
	opts.Whitespace.EnsureFinalNewline = false
	return opts
}

// PresetOptions returns the baseline for a preset. Unknown presets and
// custom fall back to DefaultOptions with the preset field left as given
// for custom.
func PresetOptions(p Preset) Options {
	switch p {
	case PresetEmail:
		return PresetEmailOptions()
	case PresetMarkdownSlim:
		return PresetMarkdownSlimOptions()
	case PresetChat:
		return PresetChatOptions()
	case PresetCustom:
		opts := DefaultOptions()
		opts.Preset = PresetCustom
		return opts
	default:
		return DefaultOptions()
	}
}
