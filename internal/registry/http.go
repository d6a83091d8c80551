package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "github.com/iamdantz/gemini-templates/internal/errors"
	"github.com/iamdantz/gemini-templates/internal/logging"
)

// maxDownloadSize bounds a single manifest or content response
const maxDownloadSize = 8 << 20

// HTTPSource fetches the manifest and content files over HTTP
type HTTPSource struct {
	manifestURL string
	contentURL  string
	client      *http.Client
	logger      logrus.FieldLogger
}

// Option configures an HTTPSource
type Option func(*HTTPSource)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *HTTPSource) {
		s.logger = l
	}
}

// NewHTTPSource creates a source reading the manifest from manifestURL and
// content files from below contentURL
func NewHTTPSource(manifestURL, contentURL string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		manifestURL: manifestURL,
		contentURL:  strings.TrimSuffix(contentURL, "/"),
		client:      http.DefaultClient,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) FetchManifest(ctx context.Context) (*Manifest, error) {
	if s.manifestURL == "" {
		return nil, fmt.Errorf("%w: manifest URL not configured", apperrors.ErrRegistryUnavailable)
	}

	data, err := s.get(ctx, "fetch manifest", s.manifestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistryUnavailable, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRegistryUnavailable, err)
	}

	s.logger.WithField("plugins", len(m.Plugins)).Debug("manifest loaded")
	return m, nil
}

func (s *HTTPSource) FetchFile(ctx context.Context, plugin string, category Category, name string) ([]byte, error) {
	u := s.FileURL(plugin, category, name)
	data, err := s.get(ctx, "fetch file", u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}
	return data, nil
}

func (s *HTTPSource) FileURL(plugin string, category Category, name string) string {
	segments := []string{url.PathEscape(plugin), url.PathEscape(string(category))}
	for _, part := range strings.Split(name, "/") {
		segments = append(segments, url.PathEscape(part))
	}
	return s.contentURL + "/" + strings.Join(segments, "/")
}

func (s *HTTPSource) get(ctx context.Context, op, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Op: op, URL: u, Err: err}
	}

	s.logger.WithField("url", u).Debug(op)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Op: op, URL: u, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, &FetchError{Op: op, URL: u, Err: err}
	}
	if len(data) > maxDownloadSize {
		return nil, &FetchError{Op: op, URL: u, Err: fmt.Errorf("response exceeds %d bytes", maxDownloadSize)}
	}
	return data, nil
}
