package registry

import (
	"context"
	"fmt"
)

// Source serves the manifest and the content files it describes
type Source interface {
	// FetchManifest downloads and parses the registry manifest
	FetchManifest(ctx context.Context) (*Manifest, error)

	// FetchFile downloads the raw bytes of one plugin file
	FetchFile(ctx context.Context, plugin string, category Category, name string) ([]byte, error)

	// FileURL returns the location FetchFile reads from
	FileURL(plugin string, category Category, name string) string
}

// FetchError represents a transport-level registry failure
type FetchError struct {
	Op     string // operation
	URL    string // requested URL
	Status int    // HTTP status, 0 when no response was received
	Err    error  // underlying error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
