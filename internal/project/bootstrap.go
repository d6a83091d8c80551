// Package project prepares a repository for Gemini: it registers the
// instruction files in .gemini/settings.json and seeds the always-on
// AGENTS.md rule.
package project

import (
	"os"
	"path/filepath"

	"github.com/iamdantz/gemini-templates/internal/config"
	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
)

// AgentsTemplate is the initial content of the project AGENTS.md rule
const AgentsTemplate = "---\ntrigger: always_on\n---\n"

// Result reports what Bootstrap did
type Result struct {
	Settings        *SettingsPlan
	SettingsUpdated bool
	AgentsCreated   bool
}

// ConfirmFunc decides whether a settings change is written
type ConfirmFunc func(plan *SettingsPlan) bool

// Bootstrap updates the settings file (when confirm approves) and creates
// AGENTS.md when it does not exist yet. A nil confirm approves every change.
func Bootstrap(paths *config.Paths, confirm ConfirmFunc) (*Result, error) {
	plan, err := PlanSettings(paths.SettingsPath)
	if err != nil {
		return nil, err
	}
	res := &Result{Settings: plan}

	if plan.Changed && (confirm == nil || confirm(plan)) {
		if err := plan.Apply(); err != nil {
			return res, err
		}
		res.SettingsUpdated = true
	}

	created, err := EnsureAgentsFile(paths.AgentsFile)
	if err != nil {
		return res, err
	}
	res.AgentsCreated = created
	return res, nil
}

// EnsureAgentsFile creates the AGENTS.md rule unless it is already present
func EnsureAgentsFile(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, apperrors.NewPathError(filepath.Dir(path), "mkdir", err)
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(AgentsTemplate), 0644); err != nil {
		return false, apperrors.NewPathError(path, "write", err)
	}
	return true, nil
}
