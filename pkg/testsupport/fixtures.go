// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/goliatone/go-maplocation/pkg/place"
)

// MustReadFixture reads a fixture file relative to the calling package.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MustLoadPlace decodes a JSON fixture into a place.Place.
func MustLoadPlace(t *testing.T, path string) place.Place {
	t.Helper()

	p, err := LoadPlace(path)
	if err != nil {
		t.Fatalf("load place: %v", err)
	}
	return p
}

// LoadPlace reads a JSON fixture into a place.Place, returning an error for
// callers managing setup outside of *testing.T.
func LoadPlace(path string) (place.Place, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return place.Place{}, fmt.Errorf("testsupport: read place: %w", err)
	}
	var out place.Place
	if err := json.Unmarshal(data, &out); err != nil {
		return place.Place{}, fmt.Errorf("testsupport: unmarshal place: %w", err)
	}
	return out, nil
}

// FixtureServer serves the fixture mapped to each request path. Unknown paths
// answer 404. The returned server is closed through t.Cleanup.
func FixtureServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	payloads := make(map[string][]byte, len(routes))
	for route, path := range routes {
		payloads[route] = MustReadFixture(t, path)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// MustReadGoldenString reads a golden file and returns its contents as a string.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}
