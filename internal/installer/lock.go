package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// LockFileName is the name of the lock file kept in the install root
const LockFileName = "plugins.lock.toml"

// LockVersion is the current lock file format version
const LockVersion = 1

// Lock records the files written by past installs
type Lock struct {
	Version int                   `toml:"version"`
	Plugins map[string]LockPlugin `toml:"plugins"`

	path string `toml:"-"`
}

// LockPlugin lists the installed files of one plugin
type LockPlugin struct {
	Files []LockEntry `toml:"files"`
}

// LockEntry describes one installed file
type LockEntry struct {
	Category    string    `toml:"category"`
	File        string    `toml:"file"`
	SHA256      string    `toml:"sha256"`
	InstalledAt time.Time `toml:"installed_at"`
}

// LoadLock reads the lock file at path. A missing file yields an empty lock.
func LoadLock(path string) (*Lock, error) {
	lock := &Lock{
		Version: LockVersion,
		Plugins: make(map[string]LockPlugin),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lock, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, lock); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if lock.Plugins == nil {
		lock.Plugins = make(map[string]LockPlugin)
	}
	lock.path = path
	return lock, nil
}

// Record adds or replaces the entry for a file
func (l *Lock) Record(plugin string, entry LockEntry) {
	p := l.Plugins[plugin]
	for i, existing := range p.Files {
		if existing.Category == entry.Category && existing.File == entry.File {
			p.Files[i] = entry
			l.Plugins[plugin] = p
			return
		}
	}
	p.Files = append(p.Files, entry)
	sort.SliceStable(p.Files, func(i, j int) bool {
		if p.Files[i].Category != p.Files[j].Category {
			return p.Files[i].Category < p.Files[j].Category
		}
		return p.Files[i].File < p.Files[j].File
	})
	l.Plugins[plugin] = p
}

// Entry returns the recorded entry for a file
func (l *Lock) Entry(plugin, category, file string) (LockEntry, bool) {
	for _, e := range l.Plugins[plugin].Files {
		if e.Category == category && e.File == file {
			return e, true
		}
	}
	return LockEntry{}, false
}

// Save writes the lock file
func (l *Lock) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	l.Version = LockVersion
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lock: %w", err)
	}
	return os.WriteFile(l.path, data, 0644)
}
