package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
)

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Version != DefaultVersion {
		t.Errorf("Version = %q, want %q", cfg.Version, DefaultVersion)
	}
	if cfg.InstallDir != filepath.Join(dir, DefaultInstallDirName) {
		t.Errorf("InstallDir = %q, want %q", cfg.InstallDir, filepath.Join(dir, DefaultInstallDirName))
	}
	if cfg.ManifestURL != "" || cfg.ContentURL != "" {
		t.Errorf("URLs = %q, %q, want empty", cfg.ManifestURL, cfg.ContentURL)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), `
manifest_url = "https://file.example/{version}/manifest.json"
content_url = "https://file.example/{version}/plugins"
version = "v1"
install_dir = "content"
`)
	writeFile(t, filepath.Join(dir, ".env"), "GEMINI_VERSION=v2\nGEMINI_PLUGINS_URL=https://dotenv.example/{version}\n")
	t.Setenv(EnvContentURL, "https://env.example/{version}")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"version from .env", cfg.Version, "v2"},
		{"manifest from file", cfg.ManifestURL, "https://file.example/v2/manifest.json"},
		{"content from env", cfg.ContentURL, "https://env.example/v2"},
		{"relative install dir", cfg.InstallDir, filepath.Join(dir, "content")},
		{"file used", cfg.File, filepath.Join(dir, FileName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `manifest_url = "https://custom.example/manifest.json"`)

	cfg, err := Load(dir, path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ManifestURL != "https://custom.example/manifest.json" {
		t.Errorf("ManifestURL = %q", cfg.ManifestURL)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() with missing config file succeeded, want error")
	}
}

func TestRequireRegistry(t *testing.T) {
	cfg := &Config{ManifestURL: "https://x/manifest.json"}
	err := cfg.RequireRegistry()
	if !errors.Is(err, apperrors.ErrRegistryUnavailable) {
		t.Fatalf("RequireRegistry() = %v, want ErrRegistryUnavailable", err)
	}

	cfg.ContentURL = "https://x/plugins"
	if err := cfg.RequireRegistry(); err != nil {
		t.Errorf("RequireRegistry() = %v, want nil", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg := &Config{
		ManifestURL: "https://x/manifest.json",
		ContentURL:  "https://x/plugins",
		Version:     "v3",
		ProjectDir:  dir,
		InstallDir:  filepath.Join(dir, "templates"),
	}

	if err := cfg.Save(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.ManifestURL != cfg.ManifestURL || loaded.ContentURL != cfg.ContentURL || loaded.Version != cfg.Version {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
	if loaded.InstallDir != cfg.InstallDir {
		t.Errorf("InstallDir = %q, want %q", loaded.InstallDir, cfg.InstallDir)
	}
}
