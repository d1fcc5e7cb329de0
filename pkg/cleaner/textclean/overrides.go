package textclean

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StructureOverrides is a partial StructureOptions. Nil fields keep the
// preset value.
type StructureOverrides struct {
	DropHeadings        *bool          `json:"dropHeadings,omitempty" yaml:"dropHeadings,omitempty" mapstructure:"dropHeadings"`
	KeepBasicMarkdown   *bool          `json:"keepBasicMarkdown,omitempty" yaml:"keepBasicMarkdown,omitempty" mapstructure:"keepBasicMarkdown"`
	DropBlockquotes     *bool          `json:"dropBlockquotes,omitempty" yaml:"dropBlockquotes,omitempty" mapstructure:"dropBlockquotes"`
	DropHorizontalRules *bool          `json:"dropHorizontalRules,omitempty" yaml:"dropHorizontalRules,omitempty" mapstructure:"dropHorizontalRules"`
	LinkMode            *LinkMode      `json:"linkMode,omitempty" yaml:"linkMode,omitempty" mapstructure:"linkMode" validate:"omitempty,oneof=textOnly textAndUrl markdown"`
	ListMode            *ListMode      `json:"listMode,omitempty" yaml:"listMode,omitempty" mapstructure:"listMode" validate:"omitempty,oneof=sentences keepBullets"`
	CodeBlockMode       *CodeBlockMode `json:"codeBlockMode,omitempty" yaml:"codeBlockMode,omitempty" mapstructure:"codeBlockMode" validate:"omitempty,oneof=drop keepIndented"`
}

// PunctuationOverrides is a partial PunctuationOptions.
type PunctuationOverrides struct {
	EmDash      *EmDashMode   `json:"emDash,omitempty" yaml:"emDash,omitempty" mapstructure:"emDash" validate:"omitempty,oneof=comma keep remove"`
	CurlyQuotes *QuoteMode    `json:"curlyQuotes,omitempty" yaml:"curlyQuotes,omitempty" mapstructure:"curlyQuotes" validate:"omitempty,oneof=straight keep"`
	Ellipsis    *EllipsisMode `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty" mapstructure:"ellipsis" validate:"omitempty,oneof=threeDots keep remove"`
}

// WhitespaceOverrides is a partial WhitespaceOptions.
type WhitespaceOverrides struct {
	CollapseSpaces     *bool `json:"collapseSpaces,omitempty" yaml:"collapseSpaces,omitempty" mapstructure:"collapseSpaces"`
	CollapseBlankLines *bool `json:"collapseBlankLines,omitempty" yaml:"collapseBlankLines,omitempty" mapstructure:"collapseBlankLines"`
	EnsureFinalNewline *bool `json:"ensureFinalNewline,omitempty" yaml:"ensureFinalNewline,omitempty" mapstructure:"ensureFinalNewline"`
}

// Overrides is a partial Options. Any subset of fields may be set, and the
// nested groups may themselves be partial.
type Overrides struct {
	Preset            *Preset               `json:"preset,omitempty" yaml:"preset,omitempty" mapstructure:"preset" validate:"omitempty,oneof=plain email markdown-slim chat custom"`
	Structure         *StructureOverrides   `json:"structure,omitempty" yaml:"structure,omitempty" mapstructure:"structure"`
	Punctuation       *PunctuationOverrides `json:"punctuation,omitempty" yaml:"punctuation,omitempty" mapstructure:"punctuation"`
	AnonymizeContacts *bool                 `json:"anonymizeContacts,omitempty" yaml:"anonymizeContacts,omitempty" mapstructure:"anonymizeContacts"`
	StripEmojis       *bool                 `json:"stripEmojis,omitempty" yaml:"stripEmojis,omitempty" mapstructure:"stripEmojis"`
	Whitespace        *WhitespaceOverrides  `json:"whitespace,omitempty" yaml:"whitespace,omitempty" mapstructure:"whitespace"`
	Locale            *string               `json:"locale,omitempty" yaml:"locale,omitempty" mapstructure:"locale"`
}

// WithPreset returns overrides that only switch the preset.
func WithPreset(p Preset) Overrides {
	return Overrides{Preset: &p}
}

// Resolve merges overrides onto the baseline of the requested preset and
// returns a fully populated Options. Invalid enum values are ignored. If any
// field other than the preset takes effect, the resulting preset is custom.
//
// Resolve never mutates shared state; every call returns a fresh value.
func Resolve(o Overrides) Options {
	preset := PresetPlain
	if o.Preset != nil && o.Preset.Valid() {
		preset = *o.Preset
	}
	opts := PresetOptions(preset)

	changed := false
	if mergeStructure(&opts.Structure, o.Structure) {
		changed = true
	}
	if mergePunctuation(&opts.Punctuation, o.Punctuation) {
		changed = true
	}
	if mergeWhitespace(&opts.Whitespace, o.Whitespace) {
		changed = true
	}
	if o.AnonymizeContacts != nil {
		opts.AnonymizeContacts = *o.AnonymizeContacts
		changed = true
	}
	if o.StripEmojis != nil {
		opts.StripEmojis = *o.StripEmojis
		changed = true
	}
	if o.Locale != nil && strings.TrimSpace(*o.Locale) != "" {
		opts.Locale = strings.TrimSpace(*o.Locale)
		changed = true
	}

	if changed {
		opts.Preset = PresetCustom
	}
	return opts
}

// mergeStructure applies each valid field independently. It reports whether
// anything was applied.
func mergeStructure(dst *StructureOptions, src *StructureOverrides) bool {
	if src == nil {
		return false
	}
	applied := false
	if src.DropHeadings != nil {
		dst.DropHeadings = *src.DropHeadings
		applied = true
	}
	if src.KeepBasicMarkdown != nil {
		dst.KeepBasicMarkdown = *src.KeepBasicMarkdown
		applied = true
	}
	if src.DropBlockquotes != nil {
		dst.DropBlockquotes = *src.DropBlockquotes
		applied = true
	}
	if src.DropHorizontalRules != nil {
		dst.DropHorizontalRules = *src.DropHorizontalRules
		applied = true
	}
	if src.LinkMode != nil && src.LinkMode.Valid() {
		dst.LinkMode = *src.LinkMode
		applied = true
	}
	if src.ListMode != nil && src.ListMode.Valid() {
		dst.ListMode = *src.ListMode
		applied = true
	}
	if src.CodeBlockMode != nil && src.CodeBlockMode.Valid() {
		dst.CodeBlockMode = *src.CodeBlockMode
		applied = true
	}
	return applied
}

func mergePunctuation(dst *PunctuationOptions, src *PunctuationOverrides) bool {
	if src == nil {
		return false
	}
	applied := false
	if src.EmDash != nil && src.EmDash.Valid() {
		dst.EmDash = *src.EmDash
		applied = true
	}
	if src.CurlyQuotes != nil && src.CurlyQuotes.Valid() {
		dst.CurlyQuotes = *src.CurlyQuotes
		applied = true
	}
	if src.Ellipsis != nil && src.Ellipsis.Valid() {
		dst.Ellipsis = *src.Ellipsis
		applied = true
	}
	return applied
}

func mergeWhitespace(dst *WhitespaceOptions, src *WhitespaceOverrides) bool {
	if src == nil {
		return false
	}
	applied := false
	if src.CollapseSpaces != nil {
		dst.CollapseSpaces = *src.CollapseSpaces
		applied = true
	}
	if src.CollapseBlankLines != nil {
		dst.CollapseBlankLines = *src.CollapseBlankLines
		applied = true
	}
	if src.EnsureFinalNewline != nil {
		dst.EnsureFinalNewline = *src.EnsureFinalNewline
		applied = true
	}
	return applied
}

// Merge layers over on top of o. Fields set in over win; nested groups are
// merged field by field. Neither argument is modified.
func (o Overrides) Merge(over Overrides) Overrides {
	out := Overrides{
		Preset:            pick(o.Preset, over.Preset),
		AnonymizeContacts: pick(o.AnonymizeContacts, over.AnonymizeContacts),
		StripEmojis:       pick(o.StripEmojis, over.StripEmojis),
		Locale:            pick(o.Locale, over.Locale),
	}

	if o.Structure != nil || over.Structure != nil {
		a, b := deref(o.Structure), deref(over.Structure)
		out.Structure = &StructureOverrides{
			DropHeadings:        pick(a.DropHeadings, b.DropHeadings),
			KeepBasicMarkdown:   pick(a.KeepBasicMarkdown, b.KeepBasicMarkdown),
			DropBlockquotes:     pick(a.DropBlockquotes, b.DropBlockquotes),
			DropHorizontalRules: pick(a.DropHorizontalRules, b.DropHorizontalRules),
			LinkMode:            pick(a.LinkMode, b.LinkMode),
			ListMode:            pick(a.ListMode, b.ListMode),
			CodeBlockMode:       pick(a.CodeBlockMode, b.CodeBlockMode),
		}
	}
	if o.Punctuation != nil || over.Punctuation != nil {
		a, b := deref(o.Punctuation), deref(over.Punctuation)
		out.Punctuation = &PunctuationOverrides{
			EmDash:      pick(a.EmDash, b.EmDash),
			CurlyQuotes: pick(a.CurlyQuotes, b.CurlyQuotes),
			Ellipsis:    pick(a.Ellipsis, b.Ellipsis),
		}
	}
	if o.Whitespace != nil || over.Whitespace != nil {
		a, b := deref(o.Whitespace), deref(over.Whitespace)
		out.Whitespace = &WhitespaceOverrides{
			CollapseSpaces:     pick(a.CollapseSpaces, b.CollapseSpaces),
			CollapseBlankLines: pick(a.CollapseBlankLines, b.CollapseBlankLines),
			EnsureFinalNewline: pick(a.EnsureFinalNewline, b.EnsureFinalNewline),
		}
	}
	return out
}

// pick returns a copy of over if set, otherwise a copy of base.
func pick[T any](base, over *T) *T {
	src := base
	if over != nil {
		src = over
	}
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// InvalidValue describes an override value that Resolve will ignore.
type InvalidValue struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Allowed string `json:"allowed"`
}

func (v InvalidValue) String() string {
	return fmt.Sprintf("%s: %v is not one of [%s]", v.Field, v.Value, v.Allowed)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate lists the override values that Resolve would ignore. Field paths
// use the JSON names, e.g. "structure.linkMode".
func (o Overrides) Validate() []InvalidValue {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []InvalidValue{{Field: "overrides", Value: err.Error()}}
	}
	out := make([]InvalidValue, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, InvalidValue{
			Field:   field,
			Value:   fe.Value(),
			Allowed: fe.Param(),
		})
	}
	return out
}

// OverridesFromFile loads overrides from a JSON or YAML file.
func OverridesFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("failed to read options file: %w", err)
	}

	var o Overrides
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &o); err != nil {
			return Overrides{}, fmt.Errorf("failed to parse JSON options: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &o); err != nil {
			return Overrides{}, fmt.Errorf("failed to parse YAML options: %w", err)
		}
	default:
		return Overrides{}, fmt.Errorf("unsupported options file format: %s", ext)
	}
	return o, nil
}
