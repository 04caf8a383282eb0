// Package loader reads OpenAPI documents from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgopenapi "github.com/goliatone/go-maplocation/pkg/openapi"
)

// maxDocumentBytes caps remote documents.
const maxDocumentBytes = 8 << 20

type reader func(ctx context.Context, location string) ([]byte, error)

// Loader reads a source with the reader registered for its kind. Files are
// always readable; fs.FS and URL sources need the matching option.
type Loader struct {
	readers map[pkgopenapi.SourceKind]reader
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options.
func New(options pkgopenapi.LoaderOptions) *Loader {
	l := &Loader{readers: map[pkgopenapi.SourceKind]reader{
		pkgopenapi.SourceKindFile: readFile,
	}}
	if files := options.FileSystem; files != nil {
		l.readers[pkgopenapi.SourceKindFS] = func(_ context.Context, name string) ([]byte, error) {
			return fs.ReadFile(files, name)
		}
	}
	if client := httpClient(options); client != nil {
		l.readers[pkgopenapi.SourceKindURL] = func(ctx context.Context, url string) ([]byte, error) {
			return fetch(ctx, client, url)
		}
	}
	return l
}

// Load reads src and wraps the bytes in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi: loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}
	location := src.Location()
	if location == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi: loader: %s source has no location", src.Kind())
	}
	read, ok := l.readers[src.Kind()]
	if !ok {
		return pkgopenapi.Document{}, fmt.Errorf("openapi: loader: %s sources are not enabled", src.Kind())
	}

	data, err := read(ctx, location)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi: loader: %s: %w", location, err)
	}
	return pkgopenapi.NewDocument(src, data)
}

func httpClient(options pkgopenapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = options.RequestTimeout
		}
		return &client
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

func readFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}
