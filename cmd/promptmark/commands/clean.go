package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/promptmark/internal/logger"
	"github.com/jmylchreest/promptmark/internal/output"
	"github.com/jmylchreest/promptmark/internal/version"
	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean a prompt or chat",
	Long: `Clean text read from a file or stdin.

Options are layered: the options key of the config file, then an
--options file, then flags. Invalid values are reported and ignored.

Examples:
  # Plain text from a markdown file
  promptmark clean prompt.md

  # Keep bullets as sentences and drop code for a chat reply
  promptmark clean --preset chat reply.md

  # Redact contacts and write a JSON record with rule counts
  promptmark clean --anonymize --format json -o prompt.json prompt.md

  # Capture messages from a saved chat page
  promptmark clean --selector "[data-message-author-role] .markdown" chat.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	addOverrideFlags(cleanCmd)
	addCaptureFlags(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
	flags.Bool("stats", false, "print rule counts to stderr")
}

func runClean(cmd *cobra.Command, args []string) error {
	initLogger(cmd)

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	input, source, err := readInput(cmd, args)
	if err != nil {
		logger.Error("failed to read input", "error", err)
		return err
	}

	o, err := resolveOverrides(cmd, viper.GetViper())
	if err != nil {
		logger.Error("failed to load options", "error", err)
		return err
	}
	tc := textclean.New(o)
	opts := tc.Options()
	logger.Debug("options resolved", "preset", opts.Preset, "source", source, "version", version.String())

	capture := captureStage(cmd)
	text, err := capture.Clean(input)
	if err != nil {
		logger.Error("failed to capture input", "cleaner", capture.Name(), "error", err)
		return err
	}

	res := tc.CleanWithStats(text)
	if res.Report.Count(textclean.RuleTruncated) > 0 {
		logger.Warn("input truncated",
			"source", source,
			"limit", humanize.Comma(textclean.MaxInputChars))
	}
	logger.Debug("cleaned",
		"cleaner", capture.Name()+"->"+tc.Name(),
		"input", humanize.Bytes(uint64(len(input))),
		"output", humanize.Bytes(uint64(len(res.Text))),
		logger.Counts("rules", res.Report.RuleCounts))

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		logger.Error("failed to open output", "error", err)
		return err
	}
	defer closeOut()

	writer, err := output.NewWriter(out, format)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Close() }()

	if err := writer.Write(output.NewRecord(source, input, opts.Preset, res)); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}
	if err := writer.Flush(); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Source: %s\n%s", source, res.Report.String())
	}
	return nil
}
