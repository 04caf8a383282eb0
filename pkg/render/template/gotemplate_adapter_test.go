package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-maplocation/pkg/render/template/gotemplate"
	"github.com/goliatone/go-maplocation/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngineGoldenTemplates(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{"provider": "nominatim", "zoom": 14}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	if err := engine.RegisterFilter("landmark", func(input any, _ any) (any, error) {
		return fmt.Sprintf("[%v]", input), nil
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}

	cases := []struct {
		name string
		data any
	}{
		{name: "pin", data: struct {
			Label string `json:"label"`
			Lat   string `json:"lat"`
			Lng   string `json:"lng"`
		}{Label: "Googleplex", Lat: "37.4224764", Lng: "-122.0842499"}},
		{name: "provider"},
		{name: "landmark", data: map[string]any{"address": "1600 Amphitheatre Pkwy"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
				return engine.RenderTemplate(tc.name, tc.data, w)
			})
			want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", tc.name+".golden"))
			if result != want {
				t.Fatalf("result mismatch\nwant: %q\n got: %q", want, result)
			}
			if written != result {
				t.Fatalf("writer got %q, result %q", written, result)
			}
		})
	}
}

func TestEngineRegisterFilterTwice(t *testing.T) {
	engine := newEngine(t)
	noop := func(input any, _ any) (any, error) { return input, nil }
	if err := engine.RegisterFilter("maplocation_noop", noop); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("maplocation_noop", noop); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	if err := engine.RegisterFilter(" ", noop); err == nil {
		t.Fatalf("expected blank name error")
	}
}

func TestEngineRenderInline(t *testing.T) {
	files, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(files),
		gotemplate.WithTemplateFunc(map[string]any{
			"coords": func(lat, lng float64) string { return fmt.Sprintf("%.2f,%.2f", lat, lng) },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.Render(`{{ coords(lat, lng) }} {{ "  pin  "|trim }}`, map[string]any{"lat": 48.8584, "lng": 2.2945})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if want := "48.86,2.29 pin"; result != want {
		t.Fatalf("inline render mismatch\nwant: %q\n got: %q", want, result)
	}

	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}

func TestEngineRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	files, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
