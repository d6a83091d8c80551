// Package installer copies plugin files from a registry into the local
// install tree, verifying declared digests before anything is written.
package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
	"github.com/iamdantz/gemini-templates/internal/hub"
	"github.com/iamdantz/gemini-templates/internal/logging"
	"github.com/iamdantz/gemini-templates/internal/registry"
)

// Outcome is the result of processing a single file
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped-exists"
	OutcomeDryRun  Outcome = "dry-run"
	OutcomeFailed  Outcome = "failed"
)

// Options control a single install run
type Options struct {
	Force  bool // overwrite existing files
	DryRun bool // report only, never fetch or write

	// Category filters. When none is set every category is installed.
	Rules      bool
	Commands   bool
	Extensions bool
}

// Categories returns the enabled categories in install order
func (o Options) Categories() []registry.Category {
	if !o.Rules && !o.Commands && !o.Extensions {
		return registry.AllCategories()
	}

	var cats []registry.Category
	if o.Rules {
		cats = append(cats, registry.CategoryRules)
	}
	if o.Commands {
		cats = append(cats, registry.CategoryCommands)
	}
	if o.Extensions {
		cats = append(cats, registry.CategoryExtensions)
	}
	return cats
}

// FileResult reports what happened to one file
type FileResult struct {
	Plugin   string
	Category registry.Category
	File     string
	Path     string
	URL      string
	Outcome  Outcome
	Err      error
}

// Report collects the file results of a run in processing order
type Report struct {
	Files []FileResult
}

// Count returns the number of files with the given outcome
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Installer fetches plugins from a source and writes them to a hub
type Installer struct {
	source   registry.Source
	store    *hub.Hub
	logger   logrus.FieldLogger
	onFile   func(FileResult)
	lockPath string
	now      func() time.Time
}

// Option configures an Installer
type Option func(*Installer)

// WithLogger sets the logger used for progress tracing
func WithLogger(l logrus.FieldLogger) Option {
	return func(i *Installer) {
		i.logger = l
	}
}

// WithOnFile registers a callback invoked as each file is processed
func WithOnFile(fn func(FileResult)) Option {
	return func(i *Installer) {
		i.onFile = fn
	}
}

// WithLockFile overrides the lock file location. An empty path disables
// lock recording.
func WithLockFile(path string) Option {
	return func(i *Installer) {
		i.lockPath = path
	}
}

// WithClock overrides the time source used for lock entries
func WithClock(now func() time.Time) Option {
	return func(i *Installer) {
		i.now = now
	}
}

// New creates an installer writing into store
func New(source registry.Source, store *hub.Hub, opts ...Option) *Installer {
	i := &Installer{
		source:   source,
		store:    store,
		logger:   logging.Discard(),
		onFile:   func(FileResult) {},
		lockPath: filepath.Join(store.Root, LockFileName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install processes plugins strictly in order: plugins as requested,
// categories rules, commands, extensions, files as listed in the manifest.
// The run stops at the first fetch, digest or write failure; files written
// before the failure stay on disk. The returned report is non-nil whenever
// the manifest could be resolved.
func (i *Installer) Install(ctx context.Context, plugins []string, opts Options) (*Report, error) {
	manifest, err := i.source.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}

	plugins = dedupe(plugins)
	var unknown []string
	for _, name := range plugins {
		if !manifest.HasPlugin(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &apperrors.UnknownPluginsError{Names: unknown}
	}

	report := &Report{}
	var written []FileResult

	runErr := func() error {
		for _, name := range plugins {
			entry, _ := manifest.Plugin(name)
			for _, cat := range opts.Categories() {
				for _, desc := range entry.Files(cat) {
					res, err := i.installFile(ctx, name, cat, desc, opts)
					report.Files = append(report.Files, res)
					i.onFile(res)
					if err != nil {
						return err
					}
					if res.Outcome == OutcomeWritten {
						written = append(written, res)
					}
				}
			}
		}
		return nil
	}()

	if err := i.recordLock(written); err != nil && runErr == nil {
		runErr = fmt.Errorf("update lock: %w", err)
	}
	return report, runErr
}

func (i *Installer) installFile(ctx context.Context, plugin string, cat registry.Category, desc registry.FileDescriptor, opts Options) (FileResult, error) {
	res := FileResult{
		Plugin:   plugin,
		Category: cat,
		File:     desc.Name,
		URL:      i.source.FileURL(plugin, cat, desc.Name),
	}
	logger := i.logger.WithFields(logrus.Fields{
		"plugin":   plugin,
		"category": cat,
		"file":     desc.Name,
	})

	fail := func(op string, err error) (FileResult, error) {
		err = apperrors.NewPluginError(plugin, op, err)
		res.Outcome, res.Err = OutcomeFailed, err
		logger.WithError(err).Debug("install failed")
		return res, err
	}

	path, err := i.store.FilePath(cat, plugin, desc.Name)
	if err != nil {
		return fail("resolve", err)
	}
	res.Path = path

	if i.store.Exists(path) && !opts.Force {
		res.Outcome = OutcomeSkipped
		logger.Debug("exists, skipping")
		return res, nil
	}

	if opts.DryRun {
		res.Outcome = OutcomeDryRun
		logger.Debug("dry run")
		return res, nil
	}

	data, err := i.source.FetchFile(ctx, plugin, cat, desc.Name)
	if err != nil {
		return fail("download", err)
	}

	if err := desc.Verify(data); err != nil {
		return fail("verify", err)
	}

	if err := i.store.Write(path, data); err != nil {
		return fail("write", err)
	}

	res.Outcome = OutcomeWritten
	logger.WithField("bytes", len(data)).Debug("written")
	return res, nil
}

func (i *Installer) recordLock(written []FileResult) error {
	if i.lockPath == "" || len(written) == 0 {
		return nil
	}

	lock, err := LoadLock(i.lockPath)
	if err != nil {
		return err
	}

	now := i.now().UTC()
	for _, res := range written {
		data, err := i.store.Read(res.Path)
		if err != nil {
			return err
		}
		lock.Record(res.Plugin, LockEntry{
			Category:    string(res.Category),
			File:        res.File,
			SHA256:      registry.Digest(data),
			InstalledAt: now,
		})
	}
	return lock.Save()
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
