package binder

import (
	"io/fs"
	"log/slog"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/text/language"

	"github.com/goliatone/go-maplocation/pkg/place"
	"github.com/goliatone/go-maplocation/pkg/render"
	rendertemplate "github.com/goliatone/go-maplocation/pkg/render/template"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

// AddressNotFoundKey is the translation key of the validation message.
const AddressNotFoundKey = "maplocation.addressNotFound"

// ErrorsLabelKey labels the inline error region under the address input.
const ErrorsLabelKey = "maplocation.errorsLabel"

// DefaultWrapperStyle is applied to the map wrapper unless overridden.
const DefaultWrapperStyle = "width: 100%; height: 500px;"

// RenderFunc receives the assembled map markup and returns the HTML to use in
// its place. When set, the binder does not touch the field template.
type RenderFunc func(markup MapMarkup) (string, error)

// Option configures a Binder.
type Option func(*config)

type config struct {
	draggable       bool
	wrapperAttrs    map[string]string
	textAttrs       map[string]string
	apiKey          string
	center          place.LatLng
	zoom            int
	hideMarker      bool
	addressNotFound string
	translator      render.Translator
	locale          string
	onMissing       render.MissingTranslationHandler
	lang            language.Tag
	renderCallback  RenderFunc
	templateFS      fs.FS
	templates       rendertemplate.TemplateRenderer
	themeSelection  *theme.Selection
	themeSelector   theme.ThemeSelector
	themeName       string
	themeVariant    string
	endpoints       Endpoints
	scriptURL       string
	mapsBaseURL     string
	clientOptions   map[string]any
	logger          *slog.Logger
}

func defaultConfig() config {
	return config{
		textAttrs:       map[string]string{"class": "form-control"},
		center:          selector.DefaultCenter,
		zoom:            selector.DefaultZoom,
		addressNotFound: selector.DefaultAddressNotFound,
		lang:            language.Und,
		templateFS:      TemplatesFS(),
		mapsBaseURL:     DefaultMapsScriptBase,
		logger:          slog.New(slog.DiscardHandler),
	}
}

// WithDraggable lets the user click the map and drag the marker.
func WithDraggable(draggable bool) Option {
	return func(cfg *config) {
		cfg.draggable = draggable
	}
}

// WithWrapperAttributes sets attributes on the map wrapper. They override the
// default id and style.
func WithWrapperAttributes(attrs map[string]string) Option {
	return func(cfg *config) {
		cfg.wrapperAttrs = mergeAttrs(cfg.wrapperAttrs, attrs)
	}
}

// WithTextAttributes sets attributes on the visible address input. They
// override the default class.
func WithTextAttributes(attrs map[string]string) Option {
	return func(cfg *config) {
		cfg.textAttrs = mergeAttrs(cfg.textAttrs, attrs)
	}
}

// WithAPIKey sets the Google Maps browser key used in the loader URL.
func WithAPIKey(key string) Option {
	return func(cfg *config) {
		cfg.apiKey = strings.TrimSpace(key)
	}
}

// WithDefaultCenter sets the map center used when the form has no
// coordinates.
func WithDefaultCenter(center place.LatLng) Option {
	return func(cfg *config) {
		if center.Valid() {
			cfg.center = center
		}
	}
}

// WithDefaultZoom sets the initial zoom level.
func WithDefaultZoom(zoom int) Option {
	return func(cfg *config) {
		if zoom > 0 {
			cfg.zoom = zoom
		}
	}
}

// WithHideMarker keeps the marker hidden while still writing coordinates.
func WithHideMarker(hide bool) Option {
	return func(cfg *config) {
		cfg.hideMarker = hide
	}
}

// WithAddressNotFound sets the untranslated validation message.
func WithAddressNotFound(message string) Option {
	return func(cfg *config) {
		if message = strings.TrimSpace(message); message != "" {
			cfg.addressNotFound = message
		}
	}
}

// WithTranslator translates the validation message and the labels the
// embedded templates look up with translate, such as ErrorsLabelKey. The
// request locale wins over locale when set.
func WithTranslator(t render.Translator, locale string) Option {
	return func(cfg *config) {
		cfg.translator = t
		cfg.locale = strings.TrimSpace(locale)
	}
}

// WithMissingTranslationHandler customises the text used for missing keys.
func WithMissingTranslationHandler(handler render.MissingTranslationHandler) Option {
	return func(cfg *config) {
		cfg.onMissing = handler
	}
}

// WithLanguage sets the language for the maps loader and geocoding results.
func WithLanguage(tag language.Tag) Option {
	return func(cfg *config) {
		cfg.lang = tag
	}
}

// WithRenderCallback hands the assembled map markup to fn instead of inserting
// it into the field template.
func WithRenderCallback(fn RenderFunc) Option {
	return func(cfg *config) {
		cfg.renderCallback = fn
	}
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation. It
// must expose the render.TemplateI18nFuncs globals to render the embedded
// partials.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithTheme applies a resolved theme selection.
func WithTheme(selection *theme.Selection) Option {
	return func(cfg *config) {
		cfg.themeSelection = selection
	}
}

// WithThemeSelector resolves the theme on every render.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = strings.TrimSpace(name)
		cfg.themeVariant = strings.TrimSpace(variant)
	}
}

// WithEndpoints points the browser runtime at server-side geocoding routes.
func WithEndpoints(endpoints Endpoints) Option {
	return func(cfg *config) {
		cfg.endpoints = endpoints
	}
}

// WithScriptURL sets the URL of the browser runtime script. When empty, the
// theme asset maplocation.runtime is used if present.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		cfg.scriptURL = strings.TrimSpace(url)
	}
}

// WithMapsScriptBase overrides the Google Maps JS loader base URL.
func WithMapsScriptBase(base string) Option {
	return func(cfg *config) {
		if base = strings.TrimSpace(base); base != "" {
			cfg.mapsBaseURL = base
		}
	}
}

// WithClientOptions adds extra keys to the client configuration. Generated
// keys take precedence.
func WithClientOptions(options map[string]any) Option {
	return func(cfg *config) {
		if len(options) == 0 {
			return
		}
		if cfg.clientOptions == nil {
			cfg.clientOptions = make(map[string]any, len(options))
		}
		for key, value := range options {
			if key = strings.TrimSpace(key); key != "" {
				cfg.clientOptions[key] = value
			}
		}
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func mergeAttrs(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		if key = strings.TrimSpace(key); key != "" {
			out[key] = value
		}
	}
	return out
}
