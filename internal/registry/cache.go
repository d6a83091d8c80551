package registry

import (
	"context"
	"sync"
)

// CachedSource wraps a Source so the manifest is fetched at most once.
// A successful result is reused; failures are not cached.
type CachedSource struct {
	Source

	mu       sync.Mutex
	manifest *Manifest
}

// NewCachedSource wraps src
func NewCachedSource(src Source) *CachedSource {
	return &CachedSource{Source: src}
}

func (c *CachedSource) FetchManifest(ctx context.Context) (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manifest != nil {
		return c.manifest, nil
	}
	m, err := c.Source.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	c.manifest = m
	return m, nil
}
