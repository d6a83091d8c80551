package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the config file, .env
and environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file := cfg.File
	if file == "" {
		file = "(none)"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "config file\t%s\n", file)
	fmt.Fprintf(w, "manifest url\t%s\n", orUnset(cfg.ManifestURL))
	fmt.Fprintf(w, "content url\t%s\n", orUnset(cfg.ContentURL))
	fmt.Fprintf(w, "version\t%s\n", cfg.Version)
	fmt.Fprintf(w, "install dir\t%s\n", cfg.InstallDir)
	fmt.Fprintf(w, "lock file\t%s\n", cfg.Paths().LockPath)
	return w.Flush()
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
