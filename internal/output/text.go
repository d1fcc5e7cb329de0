package output

import (
	"bufio"
	"io"
	"strings"
)

// TextWriter writes the cleaned text only. Consecutive records are
// separated by a blank line; a single record is written byte for byte.
type TextWriter struct {
	w       *bufio.Writer
	written int
	open    bool // last record did not end in a newline
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes the record text.
func (w *TextWriter) Write(rec Record) error {
	if w.written > 0 {
		sep := "\n"
		if w.open {
			sep = "\n\n"
		}
		if _, err := w.w.WriteString(sep); err != nil {
			return err
		}
	}
	w.written++
	w.open = rec.Text != "" && !strings.HasSuffix(rec.Text, "\n")

	if _, err := w.w.WriteString(rec.Text); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes each record in order.
func (w *TextWriter) WriteAll(recs []Record) error {
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
