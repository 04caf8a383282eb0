package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	pkgopenapi "github.com/goliatone/go-maplocation/pkg/openapi"
)

const document = "openapi: 3.0.3\ninfo: {title: stores, version: '1'}\npaths: {}\n"

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.yaml")
	if err := os.WriteFile(path, []byte(document), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != document {
		t.Fatalf("unexpected raw document %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoadFS(t *testing.T) {
	files := fstest.MapFS{"specs/stores.yaml": {Data: []byte(document)}}

	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFS("specs/stores.yaml")); err == nil {
		t.Fatalf("expected fs sources to be disabled without a filesystem")
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/stores.yaml")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stores.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(document))
	}))
	defer srv.Close()

	src, err := pkgopenapi.SourceFromURL(srv.URL + "/stores.yaml")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	_, err = New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), src)
	if err == nil || !strings.Contains(err.Error(), "not enabled") {
		t.Fatalf("expected url sources to be disabled by default, got %v", err)
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(time.Second)))
	if _, err := l.Load(context.Background(), src); err != nil {
		t.Fatalf("load: %v", err)
	}

	missing, _ := pkgopenapi.SourceFromURL(srv.URL + "/missing.yaml")
	if _, err := l.Load(context.Background(), missing); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(ctx, pkgopenapi.SourceFromFile("stores.yaml")); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
