package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/config"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write gemini-templates.toml for this project",
	Long: `Write the current registry settings to gemini-templates.toml in the
project directory, so they no longer need to be exported in the shell.

Example gemini-templates.toml:

  manifest_url = "https://example.com/templates/{version}/manifest.json"
  content_url = "https://example.com/templates/{version}/plugins"
  version = "main"`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	configPath := cfg.Paths().ConfigPath()
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "Config already exists: %s\n", configPath)
		fmt.Fprintln(out, "Edit it directly or delete to regenerate.")
		return nil
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "Created: %s\n", configPath)
	if cfg.ManifestURL == "" {
		fmt.Fprintf(out, "Set manifest_url (or %s) before running add.\n", config.EnvManifestURL)
	}
	return nil
}
