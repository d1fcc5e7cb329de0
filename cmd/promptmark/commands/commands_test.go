package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/promptmark/internal/output"
	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addOverrideFlags(cmd)
	addCaptureFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func TestFlagOverrides(t *testing.T) {
	cmd := newFlagCommand(t,
		"--preset", "email",
		"--link-mode", "markdown",
		"--drop-headings",
		"--drop-blockquotes=false",
		"--no-collapse-spaces",
		"--final-newline=false",
	)
	o := flagOverrides(cmd)

	if o.Preset == nil || *o.Preset != textclean.PresetEmail {
		t.Errorf("expected email preset, got %v", o.Preset)
	}
	if *o.Structure.LinkMode != textclean.LinkMarkdown {
		t.Errorf("expected markdown links, got %s", *o.Structure.LinkMode)
	}
	if !*o.Structure.DropHeadings || *o.Structure.DropBlockquotes {
		t.Error("expected explicit bool flags to be kept as set")
	}
	if *o.Whitespace.CollapseSpaces {
		t.Error("expected --no-collapse-spaces to disable collapsing")
	}
	if *o.Whitespace.EnsureFinalNewline {
		t.Error("expected --final-newline=false to disable the final newline")
	}

	if o.Structure.KeepBasicMarkdown != nil || o.Punctuation.EmDash != nil || o.AnonymizeContacts != nil ||
		o.Locale != nil || o.Whitespace.CollapseBlankLines != nil {
		t.Error("expected unset flags to stay nil")
	}
}

func TestFlagOverridesNoneSet(t *testing.T) {
	opts := textclean.Resolve(flagOverrides(newFlagCommand(t)))
	if opts.Preset != textclean.PresetPlain {
		t.Errorf("expected untouched flags to keep the plain preset, got %s", opts.Preset)
	}
}

func TestResolveOverridesLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yaml")
	content := "structure:\n  linkMode: textOnly\npunctuation:\n  emDash: remove\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	v := viper.New()
	v.Set("options", map[string]any{
		"preset":      "chat",
		"stripEmojis": true,
		"structure":   map[string]any{"linkMode": "markdown", "dropHeadings": true},
	})

	cmd := newFlagCommand(t, "--options", path, "--em-dash", "keep")
	o, err := resolveOverrides(cmd, v)
	if err != nil {
		t.Fatalf("resolveOverrides() error = %v", err)
	}
	opts := textclean.Resolve(o)

	if !opts.StripEmojis || !opts.Structure.DropHeadings {
		t.Error("expected config values to survive")
	}
	if opts.Structure.LinkMode != textclean.LinkTextOnly {
		t.Errorf("expected options file to beat config, got %s", opts.Structure.LinkMode)
	}
	if opts.Punctuation.EmDash != textclean.EmDashKeep {
		t.Errorf("expected flag to beat options file, got %s", opts.Punctuation.EmDash)
	}
	if opts.Structure.ListMode != textclean.ListSentences {
		t.Errorf("expected chat baseline for unset fields, got %s", opts.Structure.ListMode)
	}
}

func TestResolveOverridesMissingFile(t *testing.T) {
	cmd := newFlagCommand(t, "--options", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := resolveOverrides(cmd, viper.New()); err == nil {
		t.Fatal("expected error for missing options file")
	}
}

func TestCaptureStage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"text input", nil, "noop"},
		{"html flag", []string{"--html"}, "htmltext"},
		{"selector implies html", []string{"--selector", ".msg"}, "htmltext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := captureStage(newFlagCommand(t, tt.args...)).Name(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("from stdin"))

	content, source, err := readInput(cmd, []string{path})
	if err != nil || content != "from file" || source != path {
		t.Errorf("unexpected file read: %q %q %v", content, source, err)
	}

	content, source, err = readInput(cmd, []string{"-"})
	if err != nil || content != "from stdin" || source != "stdin" {
		t.Errorf("unexpected stdin read: %q %q %v", content, source, err)
	}

	if _, _, err := readInput(cmd, []string{path + ".missing"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTopRule(t *testing.T) {
	r := textclean.NewReport()
	if got := topRule(r); got != "-" {
		t.Errorf("expected '-', got %q", got)
	}

	r.Add(textclean.RuleEmoji, 2)
	r.Add(textclean.RuleEmDash, 2)
	r.Inc(textclean.RuleURL)
	if got := topRule(r); got != "emoji:strip (2)" {
		t.Errorf("expected first rule in sort order, got %q", got)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v) error = %v\nstderr: %s", args, err, stderr.String())
	}
	return stdout.String(), stderr.String()
}

func TestCleanCommand(t *testing.T) {
	stdout, stderr := execute(t, "Hello — world", "clean", "--format", "json", "--stats")

	var rec output.Record
	if err := json.Unmarshal([]byte(stdout), &rec); err != nil {
		t.Fatalf("failed to unmarshal output %q: %v", stdout, err)
	}
	if rec.Text != "Hello, world\n" {
		t.Errorf("expected cleaned text, got %q", rec.Text)
	}
	if rec.Source != "stdin" || rec.Preset != textclean.PresetPlain {
		t.Errorf("unexpected record metadata: %+v", rec)
	}
	if !strings.Contains(stderr, textclean.RuleEmDash) {
		t.Errorf("expected stats on stderr, got %q", stderr)
	}
}

func TestPresetsCommand(t *testing.T) {
	stdout, _ := execute(t, "# Title\n\n- item — one\n", "presets")

	if !strings.Contains(stdout, "Preset Comparison for stdin") {
		t.Errorf("expected header, got %q", stdout)
	}
	for _, p := range textclean.Presets {
		if !strings.Contains(stdout, string(p)) {
			t.Errorf("expected row for %s, got %q", p, stdout)
		}
	}
}

func TestOptionsCommand(t *testing.T) {
	stdout, _ := execute(t, "", "options", "--preset", "email", "--format", "json")

	var opts textclean.Options
	if err := json.Unmarshal([]byte(stdout), &opts); err != nil {
		t.Fatalf("failed to unmarshal options %q: %v", stdout, err)
	}
	if opts.Preset != textclean.PresetEmail {
		t.Errorf("expected email preset, got %s", opts.Preset)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _ := execute(t, "", "version")
	if !strings.HasPrefix(stdout, "promptmark ") {
		t.Errorf("expected version line, got %q", stdout)
	}
}

func TestVersionFlag(t *testing.T) {
	if rootCmd.Version == "" {
		t.Fatal("expected root command version to be set")
	}
	t.Cleanup(func() { _ = rootCmd.Flags().Set("version", "false") })
	stdout, _ := execute(t, "", "--version")
	if stdout != "promptmark "+rootCmd.Version+"\n" {
		t.Errorf("expected %q, got %q", "promptmark "+rootCmd.Version+"\n", stdout)
	}
}
