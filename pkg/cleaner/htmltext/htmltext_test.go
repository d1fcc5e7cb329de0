package htmltext

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	t.Run("nil config uses default", func(t *testing.T) {
		c := New(nil)
		if c.config == nil {
			t.Fatal("expected non-nil config")
		}
		if !c.config.SkipImages {
			t.Error("expected SkipImages to be true by default")
		}
		if c.config.RoleAttribute != "data-message-author-role" {
			t.Errorf("unexpected role attribute %q", c.config.RoleAttribute)
		}
	})

	t.Run("name", func(t *testing.T) {
		if New(nil).Name() != "htmltext" {
			t.Errorf("expected name 'htmltext', got %q", New(nil).Name())
		}
	})
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		config   *Config
		contains []string
		excludes []string
	}{
		{
			name:     "page with script",
			html:     `<html><head><title>Page</title></head><body><h1>Title</h1><p>Hello <strong>world</strong></p><script>track()</script></body></html>`,
			contains: []string{"# Title", "Hello **world**"},
			excludes: []string{"track()", "Page"},
		},
		{
			name:     "lists",
			html:     `<ul><li>one</li><li>two <b>bold</b></li></ul><ol><li>a</li><li>b</li></ol>`,
			contains: []string{"- one\n- two **bold**", "1. a\n2. b"},
		},
		{
			name:     "links kept",
			html:     `<p>See <a href="https://x.io">the docs</a> now</p>`,
			contains: []string{"See [the docs](https://x.io) now"},
		},
		{
			name:     "links skipped",
			html:     `<p>See <a href="https://x.io">the docs</a> now</p>`,
			config:   &Config{SkipLinks: true, SkipImages: true},
			contains: []string{"See the docs now"},
			excludes: []string{"https://x.io"},
		},
		{
			name:     "images skipped by default",
			html:     `<p>Look <img src="a.png" alt="A"></p>`,
			excludes: []string{"a.png"},
		},
		{
			name:     "images kept",
			html:     `<p><img src="a.png" alt="A"></p>`,
			config:   &Config{},
			contains: []string{"![A](a.png)"},
		},
		{
			name:     "blockquote",
			html:     `<blockquote><p>quoted</p></blockquote>`,
			contains: []string{"> quoted"},
		},
		{
			name:     "code block with language",
			html:     `<pre><code class="language-go">x := 1
y := 2</code></pre>`,
			contains: []string{"```go\nx := 1\ny := 2\n```"},
		},
		{
			name:     "table",
			html:     `<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`,
			contains: []string{"| A | B |\n| --- | --- |\n| 1 | 2 |"},
		},
		{
			name:     "forms dropped",
			html:     `<p>Text</p><form><button>Send</button></form>`,
			contains: []string{"Text"},
			excludes: []string{"Send"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(tt.config).Convert(tt.html)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q, got %q", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("expected output to exclude %q, got %q", s, out)
				}
			}
		})
	}
}

func TestConvertSelector(t *testing.T) {
	page := `<main>
<div data-message-author-role="user"><div class="msg">How do I sort?</div></div>
<div data-message-author-role="assistant"><div class="msg"><p>Use <code>sort.Strings</code>.</p><pre><code class="language-go">sort.Strings(xs)</code></pre></div></div>
</main>`

	t.Run("messages with roles", func(t *testing.T) {
		c := New(&Config{Selector: ".msg", RoleAttribute: "data-message-author-role", SkipImages: true})
		out, err := c.Convert(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range []string{
			"User:\nHow do I sort?",
			"Assistant:",
			"Use `sort.Strings`.",
			"```go\nsort.Strings(xs)\n```",
		} {
			if !strings.Contains(out, s) {
				t.Errorf("expected output to contain %q, got %q", s, out)
			}
		}
		if strings.Index(out, "User:") > strings.Index(out, "Assistant:") {
			t.Error("expected messages in document order")
		}
	})

	t.Run("no role attribute", func(t *testing.T) {
		c := New(&Config{Selector: ".msg"})
		out, err := c.Convert(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "User:") {
			t.Errorf("expected no role labels, got %q", out)
		}
	})

	t.Run("no match", func(t *testing.T) {
		c := New(&Config{Selector: ".missing"})
		_, err := c.Convert(page)
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("expected ErrNoMatch, got %v", err)
		}
	})
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user", "User"},
		{"  assistant ", "Assistant"},
		{"élève", "Élève"},
		{"ñandú", "Ñandú"},
		{"chatGPT", "ChatGPT"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := titleCase(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestConvertNonASCIIRole(t *testing.T) {
	page := `<div class="msg" data-role="élève">Bonjour</div>`
	c := New(&Config{Selector: ".msg", RoleAttribute: "data-role"})
	out, err := c.Convert(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Élève:") {
		t.Errorf("expected label %q, got %q", "Élève:", out)
	}
	if !utf8.ValidString(out) {
		t.Errorf("expected valid UTF-8, got %q", out)
	}
}

func TestClean(t *testing.T) {
	out, err := New(nil).Clean("<p>Hi</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hi" {
		t.Errorf("expected %q, got %q", "Hi", out)
	}
}
