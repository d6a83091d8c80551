package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/config"
	"github.com/iamdantz/gemini-templates/internal/logging"
)

var Version = "dev"

var (
	rootVerbose bool
	rootConfig  string
)

// errValidationFailed signals a failed validation run whose details were
// already printed
var errValidationFailed = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "gemini-templates",
	Short: "Install and validate Gemini agent templates",
	Long: `gemini-templates installs plugin bundles of rules, commands and
extensions from a remote registry into .agent/ and validates their
structure, safety and integrity.

The registry is configured through GEMINI_MANIFEST_URL, GEMINI_PLUGINS_URL
and GEMINI_VERSION, a .env file, or gemini-templates.toml.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "Config file (default ./"+config.FileName+")")
}

// loadConfig resolves the configuration for the current directory
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd, rootConfig)
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	return logging.New(rootVerbose, cmd.ErrOrStderr())
}
