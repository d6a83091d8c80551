package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plugins": {"terraform": {"rules": ["tf.md"]}}}`))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	mux.HandleFunc("/plugins/terraform/rules/tf.md", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# Terraform\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_FetchManifest(t *testing.T) {
	srv := newTestServer(t)
	src := NewHTTPSource(srv.URL+"/manifest.json", srv.URL+"/plugins")

	m, err := src.FetchManifest(context.Background())
	require.NoError(t, err)
	assert.True(t, m.HasPlugin("terraform"))
}

func TestHTTPSource_FetchManifestFailures(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"not found", srv.URL + "/missing.json"},
		{"unparsable", srv.URL + "/broken.json"},
		{"not configured", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewHTTPSource(tt.url, srv.URL+"/plugins")
			_, err := src.FetchManifest(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrRegistryUnavailable))
		})
	}
}

func TestHTTPSource_FetchFile(t *testing.T) {
	srv := newTestServer(t)
	src := NewHTTPSource(srv.URL+"/manifest.json", srv.URL+"/plugins/")

	assert.Equal(t, srv.URL+"/plugins/terraform/rules/tf.md", src.FileURL("terraform", CategoryRules, "tf.md"))

	data, err := src.FetchFile(context.Background(), "terraform", CategoryRules, "tf.md")
	require.NoError(t, err)
	assert.Equal(t, "# Terraform\n", string(data))

	_, err = src.FetchFile(context.Background(), "terraform", CategoryRules, "missing.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFetchFailed))

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestHTTPSource_FileURLEscapesSegments(t *testing.T) {
	src := NewHTTPSource("", "https://example.com/plugins")
	got := src.FileURL("my plugin", CategoryCommands, "sub dir/file.md")
	assert.Equal(t, "https://example.com/plugins/my%20plugin/commands/sub%20dir/file.md", got)
}
