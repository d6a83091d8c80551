// Package registry models the remote plugin registry: the manifest that maps
// plugin names to categorized file descriptors, and the transport used to
// fetch the manifest and individual content files.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Category is one of the content directories a plugin can ship
type Category string

const (
	CategoryRules      Category = "rules"
	CategoryCommands   Category = "commands"
	CategoryExtensions Category = "extensions"
)

// AllCategories returns the categories in processing order
func AllCategories() []Category {
	return []Category{CategoryRules, CategoryCommands, CategoryExtensions}
}

// ParseCategory returns the category named s
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Manifest is the registry document served at the manifest URL
type Manifest struct {
	Plugins map[string]PluginEntry `json:"plugins"`
}

// Names returns all plugin names, sorted
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Plugins))
	for name := range m.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plugin returns the entry for name
func (m *Manifest) Plugin(name string) (PluginEntry, bool) {
	entry, ok := m.Plugins[name]
	return entry, ok
}

// HasPlugin checks if a plugin exists in the manifest
func (m *Manifest) HasPlugin(name string) bool {
	_, ok := m.Plugins[name]
	return ok
}

// PluginEntry lists the files a plugin ships, per category
type PluginEntry struct {
	Rules      []FileDescriptor `json:"rules"`
	Commands   []FileDescriptor `json:"commands"`
	Extensions []FileDescriptor `json:"extensions"`
}

// Files returns the descriptors for a category in manifest order
func (p PluginEntry) Files(category Category) []FileDescriptor {
	switch category {
	case CategoryRules:
		return p.Rules
	case CategoryCommands:
		return p.Commands
	case CategoryExtensions:
		return p.Extensions
	default:
		return nil
	}
}

// Lookup finds the descriptor for name within a category
func (p PluginEntry) Lookup(category Category, name string) (FileDescriptor, bool) {
	for _, fd := range p.Files(category) {
		if fd.Name == name {
			return fd, true
		}
	}
	return FileDescriptor{}, false
}

// FileCount returns the number of files across all categories
func (p PluginEntry) FileCount() int {
	return len(p.Rules) + len(p.Commands) + len(p.Extensions)
}

// FileDescriptor names a content file and its expected SHA-256 digest.
// Legacy manifests list bare file names; those decode with an empty Hash.
type FileDescriptor struct {
	Name string `json:"file"`
	Hash string `json:"hash"`
}

// HasHash reports whether a digest was declared
func (f FileDescriptor) HasHash() bool {
	return f.Hash != ""
}

func (f *FileDescriptor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*f = FileDescriptor{Name: name}
		return nil
	}

	var obj struct {
		File string `json:"file"`
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("file entry: %w", err)
	}
	if obj.File == "" {
		return fmt.Errorf("file entry: missing \"file\"")
	}
	*f = FileDescriptor{Name: obj.File, Hash: obj.Hash}
	return nil
}

func (f FileDescriptor) MarshalJSON() ([]byte, error) {
	if !f.HasHash() {
		return json.Marshal(f.Name)
	}
	return json.Marshal(struct {
		File string `json:"file"`
		Hash string `json:"hash"`
	}{f.Name, f.Hash})
}

// ParseManifest decodes a manifest document
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Plugins == nil {
		return nil, fmt.Errorf("parse manifest: missing \"plugins\"")
	}
	return &m, nil
}
