package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/promptmark/internal/logger"
	"github.com/jmylchreest/promptmark/pkg/cleaner"
	"github.com/jmylchreest/promptmark/pkg/cleaner/htmltext"
	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

// addOverrideFlags registers one flag per option. Only flags the user
// actually sets become overrides.
func addOverrideFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("preset", "", "preset: plain, email, markdown-slim, chat")
	flags.String("options", "", "options file (YAML or JSON)")

	// Structure
	flags.String("link-mode", "", "links: textOnly, textAndUrl, markdown")
	flags.String("list-mode", "", "lists: sentences, keepBullets")
	flags.String("code-blocks", "", "fenced code: drop, keepIndented")
	flags.Bool("drop-headings", false, "omit heading lines instead of stripping the markers")
	flags.Bool("keep-markdown", false, "keep **bold**, *italic* and ~~strike~~ markers")
	flags.Bool("drop-blockquotes", false, "strip > markers")
	flags.Bool("drop-rules", false, "omit horizontal rules")

	// Punctuation
	flags.String("em-dash", "", "em dashes: comma, keep, remove")
	flags.String("curly-quotes", "", "curly quotes: straight, keep")
	flags.String("ellipsis", "", "ellipsis: threeDots, keep, remove")

	// Content
	flags.Bool("anonymize", false, "replace URLs and emails with <URL> and <EMAIL>")
	flags.Bool("strip-emojis", false, "remove emoji")
	flags.String("locale", "", "locale tag (informational)")

	// Whitespace
	flags.Bool("no-collapse-spaces", false, "keep runs of spaces and tabs")
	flags.Bool("no-collapse-blank-lines", false, "keep runs of blank lines")
	flags.Bool("final-newline", true, "end output with exactly one newline")
}

// addCaptureFlags registers the flags that pick the capture stage.
func addCaptureFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("html", false, "treat input as a saved HTML page")
	flags.String("selector", "", "CSS selector for chat messages (implies --html)")
	flags.String("role-attr", "data-message-author-role", "attribute naming the message author")
	flags.Bool("keep-images", false, "keep images as ![alt](src) when capturing HTML")
}

// flagOverrides collects the override flags the user set.
func flagOverrides(cmd *cobra.Command) textclean.Overrides {
	return textclean.Overrides{
		Preset: stringFlag[textclean.Preset](cmd, "preset"),
		Structure: &textclean.StructureOverrides{
			DropHeadings:        boolFlag(cmd, "drop-headings", false),
			KeepBasicMarkdown:   boolFlag(cmd, "keep-markdown", false),
			DropBlockquotes:     boolFlag(cmd, "drop-blockquotes", false),
			DropHorizontalRules: boolFlag(cmd, "drop-rules", false),
			LinkMode:            stringFlag[textclean.LinkMode](cmd, "link-mode"),
			ListMode:            stringFlag[textclean.ListMode](cmd, "list-mode"),
			CodeBlockMode:       stringFlag[textclean.CodeBlockMode](cmd, "code-blocks"),
		},
		Punctuation: &textclean.PunctuationOverrides{
			EmDash:      stringFlag[textclean.EmDashMode](cmd, "em-dash"),
			CurlyQuotes: stringFlag[textclean.QuoteMode](cmd, "curly-quotes"),
			Ellipsis:    stringFlag[textclean.EllipsisMode](cmd, "ellipsis"),
		},
		AnonymizeContacts: boolFlag(cmd, "anonymize", false),
		StripEmojis:       boolFlag(cmd, "strip-emojis", false),
		Locale:            stringFlag[string](cmd, "locale"),
		Whitespace: &textclean.WhitespaceOverrides{
			CollapseSpaces:     boolFlag(cmd, "no-collapse-spaces", true),
			CollapseBlankLines: boolFlag(cmd, "no-collapse-blank-lines", true),
			EnsureFinalNewline: boolFlag(cmd, "final-newline", false),
		},
	}
}

func stringFlag[T ~string](cmd *cobra.Command, name string) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	t := T(strings.TrimSpace(v))
	return &t
}

// boolFlag returns the flag value, inverted for --no-* flags.
func boolFlag(cmd *cobra.Command, name string, invert bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	if invert {
		v = !v
	}
	return &v
}

// resolveOverrides layers the config file's options key, the --options file
// and the flags, later layers winning. Invalid values are logged and left
// for Resolve to ignore.
func resolveOverrides(cmd *cobra.Command, v *viper.Viper) (textclean.Overrides, error) {
	var o textclean.Overrides
	if v.IsSet("options") {
		if err := v.UnmarshalKey("options", &o); err != nil {
			return textclean.Overrides{}, fmt.Errorf("failed to read options from config: %w", err)
		}
	}

	if path, _ := cmd.Flags().GetString("options"); path != "" {
		fileOverrides, err := textclean.OverridesFromFile(path)
		if err != nil {
			return textclean.Overrides{}, err
		}
		logger.Debug("options file loaded", "path", path)
		o = o.Merge(fileOverrides)
	}

	o = o.Merge(flagOverrides(cmd))

	for _, invalid := range o.Validate() {
		logger.Warn("ignoring invalid option",
			"field", invalid.Field,
			"value", invalid.Value,
			"allowed", invalid.Allowed)
	}
	return o, nil
}

// captureStage returns the cleaner that turns raw input into text.
func captureStage(cmd *cobra.Command) cleaner.Cleaner {
	flags := cmd.Flags()
	html, _ := flags.GetBool("html")
	selector, _ := flags.GetString("selector")
	if !html && selector == "" {
		return cleaner.NewNoop()
	}

	roleAttr, _ := flags.GetString("role-attr")
	keepImages, _ := flags.GetBool("keep-images")
	return htmltext.New(&htmltext.Config{
		Selector:      selector,
		RoleAttribute: roleAttr,
		SkipImages:    !keepImages,
	})
}

// readInput reads the named file, or stdin when no file (or "-") is given.
func readInput(cmd *cobra.Command, args []string) (content, source string, err error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0]) //#nosec G304 -- CLI tool reads user-specified input file
		if err != nil {
			return "", "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), args[0], nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "stdin", nil
}

// openOutput returns the -o file, or the command's stdout.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
