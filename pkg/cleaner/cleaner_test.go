package cleaner

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/promptmark/pkg/cleaner/htmltext"
	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

var (
	_ Cleaner = (*NoopCleaner)(nil)
	_ Cleaner = (*ChainCleaner)(nil)
	_ Cleaner = (*htmltext.Converter)(nil)
	_ Cleaner = (*textclean.Cleaner)(nil)
)

// --- NoopCleaner Tests ---

func TestNoopCleaner_Clean(t *testing.T) {
	c := NewNoop()

	tests := []struct {
		name  string
		input string
	}{
		{"empty_string", ""},
		{"plain_text", "Hello, World!"},
		{"markdown", "# Title\n\n- item"},
		{"whitespace", "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.input {
				t.Errorf("Clean() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestNoopCleaner_Name(t *testing.T) {
	c := NewNoop()
	if got := c.Name(); got != "noop" {
		t.Errorf("Name() = %q, want %q", got, "noop")
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestChainCleaner_SingleCleaner(t *testing.T) {
	c := NewChain(NewNoop())

	input := "test content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_CaptureThenClean(t *testing.T) {
	c := NewChain(htmltext.New(nil), textclean.New(textclean.Overrides{}))

	got, err := c.Clean(`<h1>Title</h1><p>Hello <strong>world</strong> — from <a href="https://x.io">docs</a></p>`)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	want := "Title\n\nHello world, from docs (https://x.io)\n"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorCleaner{}, textclean.New(textclean.Overrides{}))

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "error: test error") {
		t.Errorf("expected error naming the cleaner, got %v", err)
	}
}

func TestChainCleaner_SelectorMiss(t *testing.T) {
	c := NewChain(htmltext.New(&htmltext.Config{Selector: ".missing"}), NewNoop())

	_, err := c.Clean("<p>x</p>")
	if !errors.Is(err, htmltext.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch through the chain, got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"capture", []Cleaner{htmltext.New(nil), textclean.New(textclean.Overrides{})}, "chain(htmltext->textclean)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
