package cmd

import (
	"context"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/logging"
	"github.com/iamdantz/gemini-templates/internal/registry"
)

// completionTimeout bounds the manifest fetch made while completing
const completionTimeout = 3 * time.Second

// completePluginNames lists registry plugins not already on the command line
func completePluginNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig()
	if err != nil || cfg.ManifestURL == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	src := registry.NewHTTPSource(cfg.ManifestURL, cfg.ContentURL, registry.WithLogger(logging.Discard()))
	manifest, err := src.FetchManifest(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, name := range manifest.Names() {
		if !slices.Contains(args, name) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	addCmd.ValidArgsFunction = completePluginNames
}
