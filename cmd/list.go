package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/config"
	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
	"github.com/iamdantz/gemini-templates/internal/hub"
	"github.com/iamdantz/gemini-templates/internal/registry"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available plugins",
	Long: `List the plugins published in the registry with their file counts
per category. Plugins with files already present in the install directory
are marked as installed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

type pluginListing struct {
	Name       string `json:"name"`
	Rules      int    `json:"rules"`
	Commands   int    `json:"commands"`
	Extensions int    `json:"extensions"`
	Installed  bool   `json:"installed"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ManifestURL == "" {
		return fmt.Errorf("%w: %s not set", apperrors.ErrRegistryUnavailable, config.EnvManifestURL)
	}

	src := registry.NewHTTPSource(cfg.ManifestURL, cfg.ContentURL, registry.WithLogger(newLogger(cmd)))
	manifest, err := src.FetchManifest(cmd.Context())
	if err != nil {
		return err
	}

	listings := buildListings(manifest, hub.New(cfg.InstallDir))
	out := cmd.OutOrStdout()

	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	if len(listings) == 0 {
		fmt.Fprintln(out, "No plugins available in the registry")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLUGIN\tRULES\tCOMMANDS\tEXTENSIONS\tINSTALLED")
	for _, l := range listings {
		installed := ""
		if l.Installed {
			installed = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", l.Name, l.Rules, l.Commands, l.Extensions, installed)
	}
	return w.Flush()
}

func buildListings(manifest *registry.Manifest, store *hub.Hub) []pluginListing {
	listings := make([]pluginListing, 0, len(manifest.Plugins))
	for _, name := range manifest.Names() {
		entry, _ := manifest.Plugin(name)
		listings = append(listings, pluginListing{
			Name:       name,
			Rules:      len(entry.Rules),
			Commands:   len(entry.Commands),
			Extensions: len(entry.Extensions),
			Installed:  isInstalled(store, name),
		})
	}
	return listings
}

func isInstalled(store *hub.Hub, plugin string) bool {
	for _, cat := range registry.AllCategories() {
		if info, err := os.Stat(store.PluginDir(cat, plugin)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
