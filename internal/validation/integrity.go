package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/iamdantz/gemini-templates/internal/hub"
	"github.com/iamdantz/gemini-templates/internal/registry"
)

const manifestKey = "manifest"

// IntegrityValidator compares installed files against the digests declared
// in the registry manifest. Files the manifest does not describe are not
// checked.
type IntegrityValidator struct {
	store  *hub.Hub
	source registry.Source

	group singleflight.Group

	mu       sync.Mutex
	resolved bool
	manifest *registry.Manifest
	err      error

	testHookCacheMiss func() // called when a caller finds no resolved manifest
}

// NewIntegrityValidator creates a validator for files installed below root
func NewIntegrityValidator(root string, source registry.Source) *IntegrityValidator {
	return &IntegrityValidator{
		store:  hub.New(root),
		source: source,
	}
}

func (v *IntegrityValidator) Name() string {
	return "IntegrityValidator"
}

func (v *IntegrityValidator) Validate(ctx context.Context, fc FileContext) Result {
	result := NewResult()

	manifest, err := v.loadManifest(ctx)
	if err != nil {
		result.AddError(fmt.Sprintf("Integrity validation error: %v", err))
		return result
	}

	loc, ok := v.store.Locate(fc.FilePath)
	if !ok {
		return result
	}
	entry, ok := manifest.Plugin(loc.Plugin)
	if !ok {
		return result
	}
	desc, ok := entry.Lookup(loc.Category, loc.File)
	if !ok || !desc.HasHash() {
		return result
	}

	data, err := v.store.Read(fc.FilePath)
	if err != nil {
		result.AddError(fmt.Sprintf("Integrity validation error: %v", err))
		return result
	}

	if actual := registry.Digest(data); !strings.EqualFold(actual, desc.Hash) {
		result.AddError(fmt.Sprintf("Integrity check failed. Expected: %s, Actual: %s", desc.Hash, actual))
	}
	return result
}

// loadManifest fetches the manifest at most once per validator. Callers
// arriving while the fetch is in flight wait for the same result; the
// outcome, success or failure, is kept for the life of the validator.
func (v *IntegrityValidator) loadManifest(ctx context.Context) (*registry.Manifest, error) {
	if m, ok, err := v.cached(); ok {
		return m, err
	}
	if v.testHookCacheMiss != nil {
		v.testHookCacheMiss()
	}

	res, err, _ := v.group.Do(manifestKey, func() (any, error) {
		if m, ok, err := v.cached(); ok {
			return m, err
		}

		// the fetch is shared, so one caller's cancellation must not fail the rest
		m, err := v.source.FetchManifest(context.WithoutCancel(ctx))

		v.mu.Lock()
		v.resolved, v.manifest, v.err = true, m, err
		v.mu.Unlock()
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return res.(*registry.Manifest), nil
}

func (v *IntegrityValidator) cached() (*registry.Manifest, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.manifest, v.resolved, v.err
}
