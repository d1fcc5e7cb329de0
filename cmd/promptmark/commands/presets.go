package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/promptmark/internal/logger"
	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [file]",
	Short: "Compare every preset on one input",
	Long: `Clean the same input with each preset and print a comparison of
output size and adjustments.

Examples:
  promptmark presets prompt.md
  promptmark presets --html saved-chat.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	addCaptureFlags(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	initLogger(cmd)

	input, source, err := readInput(cmd, args)
	if err != nil {
		logger.Error("failed to read input", "error", err)
		return err
	}

	capture := captureStage(cmd)
	text, err := capture.Clean(input)
	if err != nil {
		logger.Error("failed to capture input", "cleaner", capture.Name(), "error", err)
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "\n=== Preset Comparison for %s ===\n", source)
	_, _ = fmt.Fprintf(w, "Input size: %s\n\n", humanize.Bytes(uint64(len(text))))
	_, _ = fmt.Fprintf(w, "%-14s %10s %6s %12s  %s\n", "Preset", "Output", "Lines", "Adjustments", "Top rule")
	_, _ = fmt.Fprintf(w, "%-14s %10s %6s %12s  %s\n", "------", "------", "-----", "-----------", "--------")

	for _, p := range textclean.Presets {
		res := textclean.CleanWithOptions(text, textclean.PresetOptions(p))
		_, _ = fmt.Fprintf(w, "%-14s %10s %6d %12s  %s\n",
			p,
			humanize.Bytes(uint64(len(res.Text))),
			strings.Count(res.Text, "\n"),
			humanize.Comma(int64(res.Report.Total())),
			topRule(res.Report))
	}

	_, _ = fmt.Fprintln(w)
	return nil
}

// topRule names the rule that fired most. Ties go to the first in sort order.
func topRule(r *textclean.Report) string {
	best, bestN := "", 0
	for _, rule := range r.Rules() {
		if n := r.Count(rule); n > bestN {
			best, bestN = rule, n
		}
	}
	if best == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", best, bestN)
}
