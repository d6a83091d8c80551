package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	Source
	calls int
	fail  bool
}

func (c *countingSource) FetchManifest(ctx context.Context) (*Manifest, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("offline")
	}
	return &Manifest{Plugins: map[string]PluginEntry{"go": {}}}, nil
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{}
	src := NewCachedSource(inner)

	first, err := src.FetchManifest(context.Background())
	require.NoError(t, err)
	second, err := src.FetchManifest(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSourceRetriesFailures(t *testing.T) {
	inner := &countingSource{fail: true}
	src := NewCachedSource(inner)

	_, err := src.FetchManifest(context.Background())
	require.Error(t, err)

	inner.fail = false
	m, err := src.FetchManifest(context.Background())
	require.NoError(t, err)
	assert.True(t, m.HasPlugin("go"))
	assert.Equal(t, 2, inner.calls)
}
