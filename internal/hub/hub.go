// Package hub manages the local install tree that plugins are written into:
// <root>/<category>/<plugin>/<file>.
package hub

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
	"github.com/iamdantz/gemini-templates/internal/registry"
)

// Hub represents the install root on disk
type Hub struct {
	Root string
}

// Location identifies an installed file by its position in the tree
type Location struct {
	Category registry.Category
	Plugin   string
	File     string // slash-separated, relative to the plugin directory
}

// New creates a new Hub instance
func New(root string) *Hub {
	return &Hub{Root: root}
}

// PluginDir returns the directory holding a plugin's files for a category
func (h *Hub) PluginDir(category registry.Category, plugin string) string {
	return filepath.Join(h.Root, string(category), plugin)
}

// FilePath returns the destination of a plugin file. Names that would
// resolve outside the plugin directory are rejected.
func (h *Hub) FilePath(category registry.Category, plugin, name string) (string, error) {
	if plugin == "" || plugin == "." || plugin == ".." || strings.ContainsAny(plugin, `/\`) {
		return "", fmt.Errorf("invalid plugin name %q", plugin)
	}
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	dir := h.PluginDir(category, plugin)
	path := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return path, nil
}

// Locate maps a path below the root back to its category, plugin and file.
// It reports false for paths outside the root, with fewer than three
// segments, or whose first segment is not a known category.
func (h *Hub) Locate(path string) (Location, bool) {
	rel, err := filepath.Rel(h.Root, path)
	if err != nil {
		return Location{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 || parts[0] == ".." {
		return Location{}, false
	}

	category, ok := registry.ParseCategory(parts[0])
	if !ok {
		return Location{}, false
	}

	return Location{
		Category: category,
		Plugin:   parts[1],
		File:     strings.Join(parts[2:], "/"),
	}, true
}

// Exists checks if a path is present on disk
func (h *Hub) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsPresent checks if the root directory exists
func (h *Hub) IsPresent() bool {
	info, err := os.Stat(h.Root)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Read returns the bytes of a file in the tree
func (h *Hub) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewPathError(path, "read", err)
	}
	return data, nil
}

// Write stores data at path verbatim, creating parent directories
func (h *Hub) Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewPathError(filepath.Dir(path), "mkdir", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.NewPathError(path, "write", err)
	}
	return nil
}
