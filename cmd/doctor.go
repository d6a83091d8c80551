package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/config"
	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
	"github.com/iamdantz/gemini-templates/internal/installer"
	"github.com/iamdantz/gemini-templates/internal/project"
	"github.com/iamdantz/gemini-templates/internal/registry"
	"github.com/iamdantz/gemini-templates/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common setup issues",
	Long: `Check the project setup and report problems.

Checks:
- Are the registry URLs configured?
- Is the registry manifest reachable?
- Does .gemini/settings.json load AGENTS.md and GEMINI.md?
- Do installed files still match the lock file?`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths := cfg.Paths()

	ui.Printf(out, ui.Title, "=== gemini-templates doctor ===")
	fmt.Fprintln(out)

	issues := 0

	fmt.Fprint(out, "Checking registry configuration... ")
	if err := cfg.RequireRegistry(); err != nil {
		fmt.Fprintln(out, "FAIL")
		fmt.Fprintf(out, "  → %v\n", err)
		issues++
	} else {
		fmt.Fprintln(out, "OK")

		fmt.Fprint(out, "Checking registry manifest... ")
		src := registry.NewHTTPSource(cfg.ManifestURL, cfg.ContentURL, registry.WithLogger(newLogger(cmd)))
		manifest, err := src.FetchManifest(cmd.Context())
		if err != nil {
			fmt.Fprintln(out, "FAIL")
			fmt.Fprintf(out, "  → %v\n", err)
			issues++
		} else {
			fmt.Fprintf(out, "OK (%d plugins)\n", len(manifest.Plugins))
		}
	}

	fmt.Fprint(out, "Checking project settings... ")
	issues += checkSettings(out, paths)

	fmt.Fprint(out, "Checking installed files... ")
	issues += checkLock(out, paths)

	fmt.Fprintln(out)
	if issues == 0 {
		fmt.Fprintln(out, "All checks passed!")
	} else {
		fmt.Fprintf(out, "Found %d issue(s)\n", issues)
	}
	return nil
}

func checkSettings(out io.Writer, paths *config.Paths) int {
	if !paths.IsInitialized() {
		fmt.Fprintln(out, "FAIL")
		fmt.Fprintf(out, "  → %v\n", apperrors.ErrNotInitialized)
		return 1
	}

	plan, err := project.PlanSettings(paths.SettingsPath)
	switch {
	case err != nil:
		fmt.Fprintln(out, "FAIL")
		fmt.Fprintf(out, "  → %v\n", err)
		return 1
	case plan.ParseErr != nil:
		fmt.Fprintln(out, "FAIL")
		fmt.Fprintf(out, "  → cannot parse %s: %v\n", paths.SettingsPath, plan.ParseErr)
		return 1
	case plan.Changed:
		var missing []string
		for _, name := range project.ContextFileNames {
			if !slices.Contains(plan.Current, name) {
				missing = append(missing, name)
			}
		}
		fmt.Fprintln(out, "WARN")
		fmt.Fprintf(out, "  → context.fileName is missing %v. Run 'gemini-templates init'.\n", missing)
		return 1
	}

	fmt.Fprintln(out, "OK")
	return 0
}

// checkLock compares every file recorded in the lock with its current
// on-disk digest
func checkLock(out io.Writer, paths *config.Paths) int {
	if !paths.InstallDirExists() {
		fmt.Fprintln(out, "OK (nothing installed)")
		return 0
	}

	lock, err := installer.LoadLock(paths.LockPath)
	if err != nil {
		fmt.Fprintln(out, "FAIL")
		fmt.Fprintf(out, "  → %v\n", err)
		return 1
	}
	if len(lock.Plugins) == 0 {
		fmt.Fprintln(out, "OK (nothing installed)")
		return 0
	}

	var problems []string
	total := 0
	for _, plugin := range sortedKeys(lock.Plugins) {
		for _, entry := range lock.Plugins[plugin].Files {
			total++
			path := filepath.Join(paths.InstallDir, entry.Category, plugin, filepath.FromSlash(entry.File))
			data, err := os.ReadFile(path)
			switch {
			case os.IsNotExist(err):
				problems = append(problems, fmt.Sprintf("%s/%s/%s: missing", entry.Category, plugin, entry.File))
			case err != nil:
				problems = append(problems, fmt.Sprintf("%s/%s/%s: %v", entry.Category, plugin, entry.File, err))
			case registry.Digest(data) != entry.SHA256:
				problems = append(problems, fmt.Sprintf("%s/%s/%s: modified since install", entry.Category, plugin, entry.File))
			}
		}
	}

	if len(problems) == 0 {
		fmt.Fprintf(out, "OK (%d files)\n", total)
		return 0
	}

	fmt.Fprintf(out, "WARN (%d of %d files changed)\n", len(problems), total)
	for _, p := range problems[:min(5, len(problems))] {
		fmt.Fprintf(out, "  → %s\n", p)
	}
	if len(problems) > 5 {
		fmt.Fprintf(out, "  → ... and %d more\n", len(problems)-5)
	}
	fmt.Fprintln(out, "  → Run 'gemini-templates add <plugin> --force' to restore")
	return len(problems)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
