package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/hub"
	"github.com/iamdantz/gemini-templates/internal/registry"
	"github.com/iamdantz/gemini-templates/internal/ui"
	"github.com/iamdantz/gemini-templates/internal/validation"
)

var (
	validatePath        string
	validateNoIntegrity bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate installed plugins",
	Long: `Check every markdown file below a rules, commands or extensions directory.

Checks:
  - structure: frontmatter, trigger, description and allowed tags
  - safety: destructive commands, active markup, prompt injection, secrets
  - integrity: on-disk digest against the registry manifest (when
    GEMINI_MANIFEST_URL is set; disable with --no-integrity)

Exits with status 1 if any file fails.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validatePath, "path", "", "Path to plugins directory (default .agent)")
	validateCmd.Flags().BoolVar(&validateNoIntegrity, "no-integrity", false, "Skip the registry integrity check")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ui.Printf(out, ui.Info, "Starting Validation...")

	target := cfg.InstallDir
	if validatePath != "" {
		if target, err = filepath.Abs(validatePath); err != nil {
			return err
		}
	}

	store := hub.New(target)
	if !store.IsPresent() {
		ui.Printf(out, ui.Warning, "No installed plugins found. Nothing to validate.")
		return nil
	}

	files, err := hub.NewScanner().Scan(target)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		ui.Printf(out, ui.Warning, "No markdown files found to validate in target directory.")
		return nil
	}
	ui.Printf(out, ui.Info, "Found %d files to validate.", len(files))

	validators := []validation.Validator{
		validation.NewStructureValidator(),
		validation.NewContentSafetyValidator(),
	}
	if !validateNoIntegrity && cfg.ManifestURL != "" {
		src := registry.NewHTTPSource(cfg.ManifestURL, cfg.ContentURL, registry.WithLogger(logger))
		validators = append(validators, validation.NewIntegrityValidator(integrityRoot(cfg.InstallDir, target), src))
	}

	contexts := make([]validation.FileContext, 0, len(files))
	for _, f := range files {
		data, err := store.Read(f)
		if err != nil {
			return err
		}
		contexts = append(contexts, validation.FileContext{Content: string(data), FilePath: f})
	}

	orchestrator := validation.NewOrchestrator(validators, validation.WithLogger(logger))
	results := orchestrator.Run(cmd.Context(), contexts)

	errOut := cmd.ErrOrStderr()
	failed, warned := 0, 0
	for i, res := range results {
		name := displayPath(cfg.ProjectDir, files[i])

		if !res.Valid {
			failed++
			fmt.Fprintln(errOut)
			ui.Printf(errOut, ui.Failure, "[FAIL] %s", name)
			for _, e := range res.Errors {
				ui.Printf(errOut, ui.Failure, "  - %s", e)
			}
		}

		if res.HasWarnings() {
			warned++
			fmt.Fprintln(errOut)
			ui.Printf(errOut, ui.Warning, "[WARN] %s", name)
			for _, w := range res.Warnings {
				ui.Printf(errOut, ui.Warning, "  - %s", w)
			}
		}
	}

	fmt.Fprintln(out)
	ui.Printf(out, ui.Subtle, "%d checked, %d failed, %d with warnings.", len(results), failed, warned)

	if failed > 0 {
		ui.Printf(errOut, ui.Failure, "Validation failed with errors.")
		return errValidationFailed
	}
	ui.Printf(out, ui.Success, "Validation passed successfully.")
	return nil
}

// integrityRoot picks the tree that manifest paths are relative to: the
// install directory when the target lies inside it, else the target itself
func integrityRoot(installDir, target string) string {
	rel, err := filepath.Rel(installDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return target
	}
	return installDir
}

func displayPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
