package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigPaths(t *testing.T) {
	cfg := &Config{
		ProjectDir: "/work/app",
		InstallDir: "/work/app/.agent",
	}

	paths := cfg.Paths()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"GeminiDir", paths.GeminiDir, filepath.Join("/work/app", ".gemini")},
		{"SettingsPath", paths.SettingsPath, filepath.Join("/work/app", ".gemini", "settings.json")},
		{"AgentsFile", paths.AgentsFile, filepath.Join("/work/app/.agent", "rules", "AGENTS.md")},
		{"LockPath", paths.LockPath, filepath.Join("/work/app/.agent", LockFileName)},
		{"ConfigPath", paths.ConfigPath(), filepath.Join("/work/app", FileName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestPathsIsInitialized(t *testing.T) {
	dir := t.TempDir()
	paths := (&Config{ProjectDir: dir, InstallDir: filepath.Join(dir, ".agent")}).Paths()

	if paths.IsInitialized() {
		t.Error("IsInitialized() = true before settings exist")
	}
	if paths.InstallDirExists() {
		t.Error("InstallDirExists() = true before install dir exists")
	}

	if err := os.MkdirAll(paths.GeminiDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.SettingsPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(paths.InstallDir, 0755); err != nil {
		t.Fatal(err)
	}

	if !paths.IsInitialized() {
		t.Error("IsInitialized() = false after settings created")
	}
	if !paths.InstallDirExists() {
		t.Error("InstallDirExists() = false after install dir created")
	}
}
