package config

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved paths for a project
type Paths struct {
	ProjectDir   string // project root
	InstallDir   string // <project>/.agent (plugin install root)
	GeminiDir    string // <project>/.gemini
	SettingsPath string // <project>/.gemini/settings.json
	AgentsFile   string // <install>/rules/AGENTS.md
	LockPath     string // <install>/plugins.lock.toml
}

// LockFileName is the lock file kept in the install root
const LockFileName = "plugins.lock.toml"

// Paths derives the project layout from the configuration
func (c *Config) Paths() *Paths {
	geminiDir := filepath.Join(c.ProjectDir, ".gemini")
	return &Paths{
		ProjectDir:   c.ProjectDir,
		InstallDir:   c.InstallDir,
		GeminiDir:    geminiDir,
		SettingsPath: filepath.Join(geminiDir, "settings.json"),
		AgentsFile:   filepath.Join(c.InstallDir, "rules", "AGENTS.md"),
		LockPath:     filepath.Join(c.InstallDir, LockFileName),
	}
}

// ConfigPath returns the default config file location of the project
func (p *Paths) ConfigPath() string {
	return filepath.Join(p.ProjectDir, FileName)
}

// IsInitialized checks if the project has a Gemini settings file
func (p *Paths) IsInitialized() bool {
	info, err := os.Stat(p.SettingsPath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// InstallDirExists checks if the install root is present
func (p *Paths) InstallDirExists() bool {
	info, err := os.Stat(p.InstallDir)
	if err != nil {
		return false
	}
	return info.IsDir()
}
