// Package commands implements the CLI commands for promptmark.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/promptmark/internal/logger"
	"github.com/jmylchreest/promptmark/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "promptmark",
	Short: "Clean pasted prompts and chats for reuse",
	Long: `Promptmark turns pasted, markdown-ish text into clean, predictable
prompt text. Every transformation class has its own policy, and cleaning
already cleaned text changes nothing.

Examples:
  # Clean a file with the default (plain) preset
  promptmark clean prompt.md

  # Clean from stdin for pasting into an email
  pbpaste | promptmark clean --preset email

  # Capture a saved chat page and keep light markdown
  promptmark clean --html --selector "[data-message-author-role]" \
      --preset markdown-slim chat.html

  # Compare presets on one input
  promptmark presets prompt.md`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("promptmark {{.Version}}\n")

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.promptmark.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides --debug and --quiet)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".promptmark")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PROMPTMARK")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError(rootCmd.ErrOrStderr(), "%v", err)
	}
	return err
}

// initLogger configures logging from the global flags and config.
func initLogger(cmd *cobra.Command) {
	logger.Init(logger.Options{
		Debug:  viper.GetBool("debug"),
		Quiet:  viper.GetBool("quiet"),
		JSON:   viper.GetBool("log_json"),
		Level:  viper.GetString("log_level"),
		Output: cmd.ErrOrStderr(),
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "path", used)
	}
}

// logError prints an error message.
func logError(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "Error: "+format+"\n", args...)
}
