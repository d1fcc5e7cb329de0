package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/promptmark/internal/logger"
	"github.com/jmylchreest/promptmark/pkg/cleaner/textclean"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the resolved options",
	Long: `Print the fully resolved options for the given config, options file
and flags. Useful for writing an options file or checking what a preset does.

Examples:
  # Show the email preset
  promptmark options --preset email

  # Start an options file from the chat preset with links kept
  promptmark options --preset chat --link-mode markdown > chat.yaml`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)

	addOverrideFlags(optionsCmd)
	optionsCmd.Flags().String("format", "yaml", "output format: yaml, json")
}

func runOptions(cmd *cobra.Command, _ []string) error {
	initLogger(cmd)

	o, err := resolveOverrides(cmd, viper.GetViper())
	if err != nil {
		logger.Error("failed to load options", "error", err)
		return err
	}
	opts := textclean.Resolve(o)

	out := cmd.OutOrStdout()
	switch format, _ := cmd.Flags().GetString("format"); format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported options format: %s", format)
	}
}
