package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
)

// ContextFileNames must be listed under context.fileName so Gemini loads
// the project instruction files
var ContextFileNames = []string{"AGENTS.md", "GEMINI.md"}

// SettingsPlan describes the change needed to a Gemini settings.json file.
// Keys other than context.fileName are carried over unchanged.
type SettingsPlan struct {
	Path     string
	Current  []string // context.fileName before the change
	Updated  []string // context.fileName after the change
	Changed  bool
	ParseErr error // set when the existing file could not be parsed

	settings map[string]any
}

// PlanSettings reads the settings file at path and computes the entries
// that have to be added. A missing file plans a new one; an unparsable
// file is replaced by fresh settings and reported through ParseErr.
func PlanSettings(path string) (*SettingsPlan, error) {
	plan := &SettingsPlan{Path: path, settings: map[string]any{}}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &plan.settings); err != nil || plan.settings == nil {
			plan.ParseErr = err
			if plan.ParseErr == nil {
				plan.ParseErr = errors.New("settings is not a JSON object")
			}
			plan.settings = map[string]any{}
		}
	case os.IsNotExist(err):
	default:
		return nil, apperrors.NewPathError(path, "read", err)
	}

	ctx, ok := plan.settings["context"].(map[string]any)
	if !ok {
		ctx = map[string]any{}
	}

	var names []any
	switch v := ctx["fileName"].(type) {
	case nil:
	case []any:
		names = v
	default:
		names = []any{v}
	}

	for _, n := range names {
		plan.Current = append(plan.Current, fmt.Sprint(n))
	}
	plan.Updated = slices.Clone(plan.Current)

	for _, want := range ContextFileNames {
		if !slices.Contains(plan.Updated, want) {
			plan.Updated = append(plan.Updated, want)
			names = append(names, want)
			plan.Changed = true
		}
	}

	ctx["fileName"] = names
	plan.settings["context"] = ctx
	return plan, nil
}

// Apply writes the planned settings, creating the parent directory
func (p *SettingsPlan) Apply() error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
		return apperrors.NewPathError(filepath.Dir(p.Path), "mkdir", err)
	}

	data, err := json.MarshalIndent(p.settings, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(p.Path, data, 0644); err != nil {
		return apperrors.NewPathError(p.Path, "write", err)
	}
	return nil
}
