// Package output serializes cleaning results for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

// Format represents output format types.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatJSONL, FormatYAML}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Record is one cleaned document as written by the structured formats.
type Record struct {
	Source      string           `json:"source,omitempty" yaml:"source,omitempty"`
	Preset      textclean.Preset `json:"preset" yaml:"preset"`
	InputChars  int              `json:"inputChars" yaml:"inputChars"`
	OutputChars int              `json:"outputChars" yaml:"outputChars"`
	Adjustments int              `json:"adjustments" yaml:"adjustments"`
	RuleCounts  map[string]int   `json:"ruleCounts,omitempty" yaml:"ruleCounts,omitempty"`
	Text        string           `json:"text" yaml:"text"`
}

// NewRecord builds a record from a cleaning result.
func NewRecord(source, input string, preset textclean.Preset, res *textclean.Result) Record {
	rec := Record{
		Source:      source,
		Preset:      preset,
		InputChars:  utf8.RuneCountInString(input),
		OutputChars: utf8.RuneCountInString(res.Text),
		Text:        res.Text,
	}
	if res.Report != nil {
		rec.Adjustments = res.Report.Total()
		if len(res.Report.RuleCounts) > 0 {
			rec.RuleCounts = res.Report.RuleCounts
		}
	}
	return rec
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single record.
	Write(rec Record) error

	// WriteAll outputs multiple records.
	WriteAll(recs []Record) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatText:
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
