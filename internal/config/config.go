package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
)

// FileName is the optional per-project configuration file
const FileName = "gemini-templates.toml"

// Environment variables read by Load
const (
	EnvManifestURL = "GEMINI_MANIFEST_URL"
	EnvContentURL  = "GEMINI_PLUGINS_URL"
	EnvVersion     = "GEMINI_VERSION"
	EnvInstallDir  = "GEMINI_INSTALL_DIR"
)

// DefaultVersion is used when no registry version is configured
const DefaultVersion = "main"

// DefaultInstallDirName is the install root relative to the project
const DefaultInstallDirName = ".agent"

// versionPlaceholder in a URL is replaced by the configured version
const versionPlaceholder = "{version}"

// Config holds the settings shared by every command
type Config struct {
	// Registry manifest location
	ManifestURL string `mapstructure:"manifest_url" toml:"manifest_url"`

	// Base URL below which plugin files are served
	ContentURL string `mapstructure:"content_url" toml:"content_url"`

	// Registry version, substituted for {version} in URLs
	Version string `mapstructure:"version" toml:"version"`

	// Install root; relative paths are resolved against ProjectDir
	InstallDir string `mapstructure:"install_dir" toml:"install_dir,omitempty"`

	// Project directory the config was loaded for
	ProjectDir string `mapstructure:"-" toml:"-"`

	// Config file that was read, empty when none
	File string `mapstructure:"-" toml:"-"`
}

var envBindings = map[string]string{
	"manifest_url": EnvManifestURL,
	"content_url":  EnvContentURL,
	"version":      EnvVersion,
	"install_dir":  EnvInstallDir,
}

// Load resolves the configuration for projectDir. Sources, lowest
// precedence first: defaults, the TOML config file (configFile, or
// gemini-templates.toml in the project), a .env file in the project, and
// the process environment.
func Load(projectDir, configFile string) (*Config, error) {
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("manifest_url", "")
	v.SetDefault("content_url", "")
	v.SetDefault("install_dir", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		candidate := filepath.Join(projectDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			v.SetConfigFile(candidate)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", candidate, err)
			}
		}
	}

	if err := applyDotEnv(v, filepath.Join(projectDir, ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ProjectDir = projectDir
	cfg.File = v.ConfigFileUsed()
	cfg.normalize()

	return cfg, nil
}

// applyDotEnv layers values from a .env file above the config file. Real
// environment variables keep precedence over the file.
func applyDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, env := range envBindings {
		val, ok := values[env]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(env); set {
			continue
		}
		v.Set(key, val)
	}
	return nil
}

func (c *Config) normalize() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	switch {
	case c.InstallDir == "":
		c.InstallDir = filepath.Join(c.ProjectDir, DefaultInstallDirName)
	case !filepath.IsAbs(c.InstallDir):
		c.InstallDir = filepath.Join(c.ProjectDir, c.InstallDir)
	}
	c.ManifestURL = c.expand(c.ManifestURL)
	c.ContentURL = c.expand(c.ContentURL)
}

func (c *Config) expand(u string) string {
	return strings.ReplaceAll(u, versionPlaceholder, c.Version)
}

// RequireRegistry reports whether the registry URLs needed for installs
// are configured
func (c *Config) RequireRegistry() error {
	var missing []string
	if c.ManifestURL == "" {
		missing = append(missing, EnvManifestURL)
	}
	if c.ContentURL == "" {
		missing = append(missing, EnvContentURL)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", apperrors.ErrRegistryUnavailable, strings.Join(missing, ", "))
	}
	return nil
}

// Save writes the registry settings to path as TOML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *c
	if rel, err := filepath.Rel(c.ProjectDir, c.InstallDir); err == nil && !strings.HasPrefix(rel, "..") {
		out.InstallDir = filepath.ToSlash(rel)
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
