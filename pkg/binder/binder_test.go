package binder

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/render"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

func storeModel() model.MapModel {
	return model.NewMapModel("Store", "address", "street_number", "lat", "lng").
		With("address", "1600 Amphitheatre Parkway")
}

func storeAttributes() model.Attributes {
	return model.Attributes{
		model.FieldAddress:      "address",
		model.FieldStreetNumber: "street_number",
		model.FieldLatitude:     "lat",
		model.FieldLongitude:    "lng",
	}
}

func newBinder(t *testing.T, opts ...Option) *Binder {
	t.Helper()
	b, err := New(opts...)
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	return b
}

func renderStore(t *testing.T, b *Binder, req Request) Result {
	t.Helper()
	if req.Model == nil {
		req.Model = storeModel()
	}
	if req.Attributes == nil {
		req.Attributes = storeAttributes()
	}
	result, err := b.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return result
}

func TestRender_DefaultMarkup(t *testing.T) {
	result := renderStore(t, newBinder(t), Request{})

	if result.WidgetID != "maplocation-store-address" {
		t.Fatalf("unexpected widget id %q", result.WidgetID)
	}
	if !strings.Contains(result.Input, `type="text" id="store-address" name="Store[address]" value="1600 Amphitheatre Parkway"`) {
		t.Fatalf("unexpected address input: %s", result.Input)
	}
	if !strings.Contains(result.Input, `class="form-control"`) {
		t.Fatalf("expected default text class, got %s", result.Input)
	}
	if got := strings.Count(result.Map, `type="hidden"`); got != 3 {
		t.Fatalf("expected 3 hidden inputs, got %d in %s", got, result.Map)
	}
	for _, id := range []string{"store-street_number", "store-lat", "store-lng"} {
		if strings.Count(result.HTML(), `id="`+id+`"`) != 1 {
			t.Fatalf("expected exactly one element with id %s", id)
		}
	}
	if !strings.Contains(result.Map, `id="maplocation-store-address"`) || !strings.Contains(result.Map, DefaultWrapperStyle) {
		t.Fatalf("unexpected wrapper: %s", result.Map)
	}
	if result.Field != result.Input+result.Map {
		t.Fatalf("expected field to be input followed by map, got %s", result.Field)
	}
	if !strings.Contains(result.Script, `MapLocation.init("#maplocation-store-address", {`) {
		t.Fatalf("unexpected script: %s", result.Script)
	}
	if result.MapsScriptURL != "" || strings.Contains(result.Script, "maps.googleapis.com") {
		t.Fatalf("expected no loader without an api key, got %q", result.MapsScriptURL)
	}
}

func TestRender_ConfigFeedsSelector(t *testing.T) {
	b := newBinder(t, WithDraggable(true), WithDefaultZoom(15), WithHideMarker(true))
	result := renderStore(t, b, Request{})

	cfg, err := selector.ParseConfig([]byte(result.ConfigJSON))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := map[model.Field]string{
		model.FieldAddress:      "#store-address",
		model.FieldStreetNumber: "#store-street_number",
		model.FieldLatitude:     "#store-lat",
		model.FieldLongitude:    "#store-lng",
	}
	if diff := cmp.Diff(want, cfg.Selectors); diff != "" {
		t.Fatalf("selectors mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Draggable || !cfg.HideMarker || cfg.DefaultZoom != 15 {
		t.Fatalf("unexpected flags %+v", cfg)
	}
	if cfg.DefaultCenter != selector.DefaultCenter {
		t.Fatalf("unexpected center %v", cfg.DefaultCenter)
	}
	if cfg.AddressNotFound != selector.DefaultAddressNotFound {
		t.Fatalf("unexpected message %q", cfg.AddressNotFound)
	}

	form := selector.NewMemoryFormFromBindings(result.Bindings)
	if _, err := selector.New(cfg, form); err != nil {
		t.Fatalf("selector from rendered config: %v", err)
	}
}

func TestRender_FieldTemplateInsertsMap(t *testing.T) {
	result := renderStore(t, newBinder(t), Request{
		FieldTemplate: `<label>Address</label>{input}<p class="help">{error}</p>`,
	})

	want := "<label>Address</label>" + result.Input + result.Map + `<p class="help">{error}</p>`
	if result.Field != want {
		t.Fatalf("field mismatch\nwant %s\ngot  %s", want, result.Field)
	}
}

func TestRender_Callback(t *testing.T) {
	var got MapMarkup
	b := newBinder(t, WithRenderCallback(func(markup MapMarkup) (string, error) {
		got = markup
		return `<section class="map">` + markup.HTML() + `</section>`, nil
	}))
	result := renderStore(t, b, Request{FieldTemplate: "{input}"})

	if result.Field != "" {
		t.Fatalf("expected field template untouched, got %q", result.Field)
	}
	if got.WidgetID != result.WidgetID || len(got.Bindings) != 4 {
		t.Fatalf("unexpected markup passed to callback: %+v", got)
	}
	if !strings.HasPrefix(result.Map, `<section class="map"><div`) {
		t.Fatalf("expected callback output, got %s", result.Map)
	}
	if !strings.Contains(result.HTML(), result.Input) {
		t.Fatalf("expected html to keep the input")
	}

	failing := newBinder(t, WithRenderCallback(func(MapMarkup) (string, error) {
		return "", errors.New("boom")
	}))
	if _, err := failing.Render(context.Background(), Request{Model: storeModel(), Attributes: storeAttributes()}); err == nil {
		t.Fatalf("expected callback error")
	}
}

func TestRender_TranslatedMessage(t *testing.T) {
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "fr" && key == AddressNotFoundKey {
			return "<b>Adresse</b> introuvable<script>alert(1)</script>", nil
		}
		return "", errors.New("missing")
	})
	b := newBinder(t, WithTranslator(translator, "fr"), WithAPIKey("browser-key"))
	result := renderStore(t, b, Request{})

	if result.Config.AddressNotFound != "Adresse introuvable" {
		t.Fatalf("expected sanitized translation, got %q", result.Config.AddressNotFound)
	}
	if result.Config.Language != "fr" {
		t.Fatalf("expected language from locale, got %q", result.Config.Language)
	}
	for _, part := range []string{"key=browser-key", "libraries=places", "language=fr", "callback=MapLocation.ready"} {
		if !strings.Contains(result.MapsScriptURL, part) {
			t.Fatalf("expected %s in loader url %s", part, result.MapsScriptURL)
		}
	}
	if !strings.Contains(result.Script, "maps.googleapis.com/maps/api/js") {
		t.Fatalf("expected loader script, got %s", result.Script)
	}

	en := renderStore(t, b, Request{Options: render.RenderOptions{Locale: "en"}})
	if en.Config.AddressNotFound != selector.DefaultAddressNotFound {
		t.Fatalf("expected fallback for missing translation, got %q", en.Config.AddressNotFound)
	}
}

func TestRender_TranslatedErrorsLabel(t *testing.T) {
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "fr" && key == ErrorsLabelKey {
			return "Erreurs pour cette adresse", nil
		}
		return "", errors.New("missing")
	})
	b := newBinder(t, WithTranslator(translator, "fr"))
	errs := map[model.Field][]string{model.FieldAddress: {"Adresse introuvable"}}

	fr := renderStore(t, b, Request{Options: render.RenderOptions{Errors: errs}})
	if !strings.Contains(fr.Input, `aria-label="Erreurs pour cette adresse"`) {
		t.Fatalf("expected translated errors label, got %s", fr.Input)
	}

	en := renderStore(t, b, Request{Options: render.RenderOptions{Locale: "en", Errors: errs}})
	if !strings.Contains(en.Input, `aria-label="Address errors"`) {
		t.Fatalf("expected fallback errors label, got %s", en.Input)
	}

	clean := renderStore(t, b, Request{})
	if strings.Contains(clean.Input, "aria-label") {
		t.Fatalf("expected no errors region without errors, got %s", clean.Input)
	}
}

func TestRender_ValuesErrorsAndHidden(t *testing.T) {
	result := renderStore(t, newBinder(t), Request{
		Options: render.RenderOptions{
			Values: map[model.Field]string{model.FieldLatitude: "46.8"},
			Errors: map[model.Field][]string{
				model.FieldAddress:  {"Address not found"},
				model.FieldLatitude: {"out of range"},
			},
			Hidden: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok")),
		},
	})

	if !strings.Contains(result.Map, `id="store-lat" name="Store[lat]" value="46.8" data-maplocation-field="latitude" aria-invalid="true"`) {
		t.Fatalf("expected overridden invalid latitude, got %s", result.Map)
	}
	if !strings.Contains(result.Map, `name="_csrf" value="tok"`) {
		t.Fatalf("expected csrf input, got %s", result.Map)
	}
	if !strings.Contains(result.Input, `aria-describedby="store-address-errors"`) || !strings.Contains(result.Input, "<p>Address not found</p>") {
		t.Fatalf("expected inline address errors, got %s", result.Input)
	}
	if result.Bindings.Values()[model.FieldLatitude] != "46.8" {
		t.Fatalf("expected bindings to carry overridden value")
	}
}

func TestRender_BindingErrors(t *testing.T) {
	b := newBinder(t)

	_, err := b.Render(context.Background(), Request{
		Model:      model.NewMapModel("Store", "address", "lat"),
		Attributes: storeAttributes(),
	})
	var bindErr *model.BindingError
	if !errors.As(err, &bindErr) {
		t.Fatalf("expected binding error, got %v", err)
	}

	if _, err := b.Render(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error without model")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Render(ctx, Request{Model: storeModel(), Attributes: storeAttributes()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestRender_ClientOptionsAndEndpoints(t *testing.T) {
	b := newBinder(t,
		WithClientOptions(map[string]any{"mapTypeId": "roadmap", "draggable": "nope"}),
		WithEndpoints(Endpoints{Geocode: "/api/geocode", Reverse: "/api/reverse"}),
		WithWrapperAttributes(map[string]string{"id": "shop-map", "class": "map"}),
	)
	result := renderStore(t, b, Request{})

	var payload map[string]any
	if err := json.Unmarshal([]byte(result.ConfigJSON), &payload); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if payload["mapTypeId"] != "roadmap" {
		t.Fatalf("expected extra option, got %v", payload["mapTypeId"])
	}
	if payload["draggable"] != false {
		t.Fatalf("expected generated key to win, got %v", payload["draggable"])
	}
	endpoints, ok := payload["endpoints"].(map[string]any)
	if !ok || endpoints["geocode"] != "/api/geocode" || endpoints["reverse"] != "/api/reverse" {
		t.Fatalf("unexpected endpoints %v", payload["endpoints"])
	}
	if _, ok := endpoints["place"]; ok {
		t.Fatalf("expected empty endpoints omitted")
	}
	if result.WidgetID != "shop-map" || !strings.Contains(result.Map, `class="map"`) {
		t.Fatalf("expected wrapper override, got %s", result.Map)
	}
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}

func themedTemplates(t *testing.T) fs.FS {
	t.Helper()
	files := fstest.MapFS{
		"themes/acme/input.tpl": &fstest.MapFile{
			Data: []byte(`<div class="acme-field"><input type="search" id="{{ id }}" name="{{ name }}" value="{{ value }}"></div>`),
		},
	}
	err := fs.WalkDir(TemplatesFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(TemplatesFS(), path)
		if err != nil {
			return err
		}
		files[path] = &fstest.MapFile{Data: data}
		return nil
	})
	if err != nil {
		t.Fatalf("copy templates: %v", err)
	}
	return files
}

func TestRender_Theme(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"map-height": "320px",
		},
		Templates: map[string]string{
			PartialInput: "themes/acme/input",
		},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files: map[string]string{
				AssetRuntime: "maplocation.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"map-height": "400px",
				},
			},
		},
	}
	themeSelector := &stubThemeSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest}}

	b := newBinder(t,
		WithTemplatesFS(themedTemplates(t)),
		WithThemeSelector(themeSelector, "acme", "dark"),
	)
	result := renderStore(t, b, Request{})

	if len(themeSelector.calls) != 1 || themeSelector.calls[0] != (selectorCall{name: "acme", variant: "dark"}) {
		t.Fatalf("unexpected selector calls %+v", themeSelector.calls)
	}
	if !strings.HasPrefix(result.Input, `<div class="acme-field"><input type="search" id="store-address"`) {
		t.Fatalf("expected themed input, got %s", result.Input)
	}
	if !strings.Contains(result.Map, "--map-height: 400px;") {
		t.Fatalf("expected variant css var on wrapper, got %s", result.Map)
	}
	if result.RuntimeScriptURL != "/assets/acme/maplocation.js" {
		t.Fatalf("unexpected runtime url %q", result.RuntimeScriptURL)
	}
	if !strings.Contains(result.Script, `<script src="/assets/acme/maplocation.js"></script>`) {
		t.Fatalf("expected runtime script tag, got %s", result.Script)
	}

	themeSelector.err = errors.New("unknown theme")
	if _, err := b.Render(context.Background(), Request{Model: storeModel(), Attributes: storeAttributes()}); err == nil {
		t.Fatalf("expected theme selection error")
	}
}

func TestInsertMapPlaceholder(t *testing.T) {
	cases := map[string]string{
		"{label}{input}{error}":      "{label}{input}{map}{error}",
		"{label}{map}{input}{error}": "{label}{map}{input}{error}",
		"{label}{error}":             "{label}{error}",
		"{input}{input}":             "{input}{map}{input}",
	}
	for in, want := range cases {
		if got := InsertMapPlaceholder(in); got != want {
			t.Fatalf("InsertMapPlaceholder(%q) = %q, want %q", in, got, want)
		}
	}
}
