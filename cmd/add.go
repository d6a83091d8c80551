package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/config"
	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
	"github.com/iamdantz/gemini-templates/internal/hub"
	"github.com/iamdantz/gemini-templates/internal/installer"
	"github.com/iamdantz/gemini-templates/internal/picker"
	"github.com/iamdantz/gemini-templates/internal/registry"
	"github.com/iamdantz/gemini-templates/internal/ui"
)

var (
	addYes        bool
	addForce      bool
	addDryRun     bool
	addList       bool
	addRules      bool
	addCommands   bool
	addExtensions bool
)

var addCmd = &cobra.Command{
	Use:     "add [plugins...]",
	Aliases: []string{"install"},
	Short:   "Add plugins to the project",
	Long: `Download plugin files from the registry into .agent/<category>/<plugin>/.

Every file with a declared SHA-256 digest is verified before it is written.
Existing files are kept unless --force is given. If no plugins are named,
an interactive selection is shown.

Examples:
  gemini-templates add --list
  gemini-templates add terraform
  gemini-templates add terraform go --rules --force
  gemini-templates add go --dry-run`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&addYes, "yes", "y", false, "Skip confirmation")
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false, "Overwrite existing files")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Simulate without changes")
	addCmd.Flags().BoolVarP(&addList, "list", "l", false, "List available plugins")
	addCmd.Flags().BoolVar(&addRules, "rules", false, "Install only rules")
	addCmd.Flags().BoolVar(&addCommands, "commands", false, "Install only commands")
	addCmd.Flags().BoolVar(&addExtensions, "extensions", false, "Install only extensions")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ManifestURL == "" {
		return fmt.Errorf("%w: %s not set", apperrors.ErrRegistryUnavailable, config.EnvManifestURL)
	}

	src := registry.NewCachedSource(registry.NewHTTPSource(cfg.ManifestURL, cfg.ContentURL, registry.WithLogger(logger)))

	manifest, err := src.FetchManifest(cmd.Context())
	if err != nil {
		return fmt.Errorf("unable to fetch plugin registry, check your internet connection: %w", err)
	}

	if addList {
		printPlugins(out, manifest)
		return nil
	}

	if err := cfg.RequireRegistry(); err != nil {
		return err
	}

	plugins := args
	if len(plugins) == 0 {
		plugins, err = pickPlugins(manifest)
		if err != nil {
			return err
		}
	}
	if len(plugins) == 0 {
		ui.Printf(out, ui.Warning, "No plugins selected.")
		return nil
	}

	var unknown []string
	for _, name := range plugins {
		if !manifest.HasPlugin(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		fmt.Fprintf(out, "Run %s to see available plugins.\n", ui.Info.Render("gemini-templates add --list"))
		return &apperrors.UnknownPluginsError{Names: unknown}
	}

	paths := cfg.Paths()
	if !paths.IsInitialized() {
		fmt.Fprintln(out)
		if addDryRun {
			ui.Printf(out, ui.Warning, "Project not initialized. Run init to set it up (skipped in dry run).")
		} else {
			ui.Printf(out, ui.Warning, "Project not initialized. Running init first...")
			if err := bootstrapProject(out, paths, addYes); err != nil {
				return err
			}
		}
	}

	inst := installer.New(src, hub.New(paths.InstallDir),
		installer.WithLogger(logger),
		installer.WithLockFile(paths.LockPath),
		installer.WithOnFile(fileReporter(out, paths)),
	)

	report, err := inst.Install(cmd.Context(), plugins, installer.Options{
		Force:      addForce,
		DryRun:     addDryRun,
		Rules:      addRules,
		Commands:   addCommands,
		Extensions: addExtensions,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if addDryRun {
		ui.Printf(out, ui.Subtle, "Dry run: %d file(s) would be downloaded, %d skipped.",
			report.Count(installer.OutcomeDryRun), report.Count(installer.OutcomeSkipped))
		return nil
	}
	ui.Printf(out, ui.Success, "Done: %d file(s) downloaded, %d skipped.",
		report.Count(installer.OutcomeWritten), report.Count(installer.OutcomeSkipped))
	return nil
}

// fileReporter prints one line per processed file, with a header whenever
// a new plugin starts
func fileReporter(out io.Writer, paths *config.Paths) func(installer.FileResult) {
	current := ""
	return func(res installer.FileResult) {
		if res.Plugin != current {
			current = res.Plugin
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Info.Render("Processing plugin: ")+ui.Bold.Render(res.Plugin)+ui.Info.Render("..."))
		}

		dest := res.Path
		if rel, err := filepath.Rel(paths.ProjectDir, res.Path); err == nil && res.Path != "" {
			dest = rel
		}

		switch res.Outcome {
		case installer.OutcomeSkipped:
			ui.Printf(out, ui.Warning, "  ⚠ Skipped %s (already exists). Use --force to overwrite.", dest)
		case installer.OutcomeDryRun:
			ui.Printf(out, ui.Faint, "  [Dry Run] Would download %s to %s", res.URL, dest)
		case installer.OutcomeWritten:
			ui.Printf(out, ui.Success, "  ✔ Downloaded %s", dest)
		case installer.OutcomeFailed:
			ui.Printf(out, ui.Failure, "  ✘ Failed to download %s: %v", res.File, res.Err)
		}
	}
}

func pickPlugins(manifest *registry.Manifest) ([]string, error) {
	var items []picker.Item
	for _, name := range manifest.Names() {
		entry, _ := manifest.Plugin(name)
		items = append(items, picker.Item{
			ID:    name,
			Label: name,
			Hint:  pluginSummary(entry),
		})
	}
	return picker.Run("Select plugins to install:", items)
}

func printPlugins(out io.Writer, manifest *registry.Manifest) {
	ui.Printf(out, ui.Bold, "Available Plugins:")
	for _, name := range manifest.Names() {
		entry, _ := manifest.Plugin(name)
		fmt.Fprintf(out, "- %s %s\n", ui.Accent.Render(name), ui.Subtle.Render(pluginSummary(entry)))
	}
}

// pluginSummary renders per-category file counts, e.g. "(2 rules, 1 commands)"
func pluginSummary(entry registry.PluginEntry) string {
	var parts []string
	for _, cat := range registry.AllCategories() {
		if n := len(entry.Files(cat)); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, cat))
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
