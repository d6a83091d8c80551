package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iamdantz/gemini-templates/internal/config"
	"github.com/iamdantz/gemini-templates/internal/picker"
	"github.com/iamdantz/gemini-templates/internal/project"
	"github.com/iamdantz/gemini-templates/internal/ui"
)

var initYes bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Gemini Templates structure",
	Long: `Prepare the current project for Gemini templates.

This command:
1. Adds AGENTS.md and GEMINI.md to context.fileName in .gemini/settings.json
2. Creates .agent/rules/AGENTS.md as an always-on rule if it does not exist`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return bootstrapProject(cmd.OutOrStdout(), cfg.Paths(), initYes)
}

// bootstrapProject runs the project bootstrap and reports each step
func bootstrapProject(out io.Writer, paths *config.Paths, yes bool) error {
	rel := func(p string) string {
		if r, err := filepath.Rel(paths.ProjectDir, p); err == nil {
			return r
		}
		return p
	}

	var promptErr error
	confirm := func(plan *project.SettingsPlan) bool {
		if plan.ParseErr != nil {
			ui.Printf(out, ui.Failure, "Error parsing existing %s. Proceeding with empty settings.", rel(plan.Path))
		}

		fmt.Fprintln(out)
		ui.Printf(out, ui.Bold, "Configuration changes detected for %s:", rel(plan.Path))
		fmt.Fprintln(out, ui.Subtle.Render("Current context.fileName: ")+ui.Failure.Render(jsonList(plan.Current)))
		fmt.Fprintln(out, ui.Subtle.Render("New context.fileName:     ")+ui.Success.Render(jsonList(plan.Updated)))

		if yes {
			return true
		}
		ok, err := picker.Confirm(fmt.Sprintf("Do you want to update %s?", rel(plan.Path)), true)
		if err != nil {
			promptErr = err
			return false
		}
		return ok
	}

	res, err := project.Bootstrap(paths, confirm)
	if err != nil {
		return err
	}
	if promptErr != nil {
		return fmt.Errorf("confirmation prompt: %w", promptErr)
	}

	switch {
	case res.SettingsUpdated:
		ui.Printf(out, ui.Success, "Updated %s", rel(paths.SettingsPath))
	case res.Settings.Changed:
		ui.Printf(out, ui.Warning, "Skipping settings update.")
	default:
		ui.Printf(out, ui.Info, "%s is already up to date.", rel(paths.SettingsPath))
	}

	agents := rel(paths.AgentsFile)
	if !res.AgentsCreated {
		fmt.Fprintln(out)
		ui.Printf(out, ui.Info, "%s already exists. Skipping creation.", agents)
		return nil
	}

	fmt.Fprintln(out)
	ui.Printf(out, ui.Success, "Created %s", agents)
	fmt.Fprintln(out)
	ui.Printf(out, ui.Bold, "Next Steps:")
	fmt.Fprintf(out, "1. Open %s and add your project-specific instructions.\n", ui.Info.Render(agents))
	fmt.Fprintln(out, "   This file acts as a global context (trigger: always_on), so Gemini will understand your project's rules and style in every interaction.")
	return nil
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}
