package binder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/text/language"

	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/render"
	"github.com/goliatone/go-maplocation/pkg/render/template/gotemplate"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

// reservedInputAttrs are owned by the binder and ignored in text attributes.
var reservedInputAttrs = map[string]struct{}{
	"id":    {},
	"name":  {},
	"value": {},
	"type":  {},
}

// Request describes one widget render.
type Request struct {
	Model model.Model
	// Attributes maps logical fields to model attributes. Nil binds every
	// field to the attribute of the same name.
	Attributes model.Attributes
	// WidgetID overrides the default maplocation-<address input id>.
	WidgetID string
	// FieldTemplate is the host field layout, e.g. "{label}{input}{error}".
	// The map is inserted after {input} unless {map} is present.
	FieldTemplate string
	Options       render.RenderOptions
}

// MapMarkup is the assembled map markup handed to a RenderFunc.
type MapMarkup struct {
	WidgetID string
	Wrapper  string
	Hidden   string
	Bindings model.Bindings
	Config   ClientConfig
}

// HTML returns the wrapper followed by the hidden inputs.
func (m MapMarkup) HTML() string {
	return m.Wrapper + m.Hidden
}

// Result is the rendered widget.
type Result struct {
	WidgetID string
	// Input is the visible address input.
	Input string
	// Map is the wrapper plus hidden inputs, or the render callback output.
	Map string
	// Field is the field template with {input} and {map} substituted. It is
	// empty when a render callback is configured.
	Field            string
	Script           string
	Config           ClientConfig
	ConfigJSON       string
	Bindings         model.Bindings
	MapsScriptURL    string
	RuntimeScriptURL string
}

// HTML returns the complete widget markup including the bootstrap script.
func (r Result) HTML() string {
	body := r.Field
	if body == "" {
		body = r.Input + r.Map
	}
	return body + r.Script
}

// Binder renders map location widgets.
type Binder struct {
	cfg config
}

// New constructs a Binder applying the provided options.
func New(options ...Option) (*Binder, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{
				Locale:    cfg.locale,
				OnMissing: cfg.onMissing,
			})),
		)
		if err != nil {
			return nil, fmt.Errorf("binder: configure template renderer: %w", err)
		}
		cfg.templates = engine
	}

	return &Binder{cfg: cfg}, nil
}

// Render binds the request model and renders the widget.
func (b *Binder) Render(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Model == nil {
		return Result{}, errors.New("binder: model is required")
	}

	attrs := req.Attributes
	if attrs == nil {
		attrs = model.DefaultAttributes()
	}
	bindings, err := model.Bind(req.Model, attrs)
	if err != nil {
		return Result{}, fmt.Errorf("binder: %w", err)
	}
	bindings = withValues(bindings, req.Options.Values)

	themeCfg, err := b.themeConfig()
	if err != nil {
		return Result{}, err
	}

	wrapperAttrs := b.wrapperAttrs(bindings, req.WidgetID, themeCfg)
	widgetID := wrapperAttrs["id"]

	clientCfg := b.clientConfig(bindings, req.Options)
	configJSON, err := encodeClientConfig(clientCfg, b.cfg.clientOptions)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		WidgetID:         widgetID,
		Config:           clientCfg,
		ConfigJSON:       configJSON,
		Bindings:         bindings,
		MapsScriptURL:    mapsScriptURL(b.cfg.mapsBaseURL, b.cfg.apiKey, b.language(req.Options.Locale)),
		RuntimeScriptURL: b.runtimeURL(themeCfg),
	}

	partials := DefaultPartials()
	if themeCfg != nil {
		copyInto(partials, themeCfg.Partials)
	}

	address := bindings.Address()
	if result.Input, err = b.renderPartial(partials, PartialInput, map[string]any{
		"id":     address.InputID,
		"name":   address.InputName,
		"value":  address.Value,
		"attrs":  sortedAttrs(b.cfg.textAttrs, reservedInputAttrs),
		"errors": req.Options.Errors[model.FieldAddress],
		"locale": req.Options.Locale,
	}); err != nil {
		return Result{}, err
	}

	hidden, err := b.renderPartial(partials, PartialHidden, map[string]any{
		"inputs": hiddenInputs(bindings, req.Options),
	})
	if err != nil {
		return Result{}, err
	}
	wrapper, err := b.renderPartial(partials, PartialMap, map[string]any{
		"widget_id": widgetID,
		"attrs":     sortedAttrs(wrapperAttrs, nil),
	})
	if err != nil {
		return Result{}, err
	}

	if result.Script, err = b.renderPartial(partials, PartialScript, map[string]any{
		"wrapper_selector": jsonString("#" + widgetID),
		"config":           configJSON,
		"runtime_url":      result.RuntimeScriptURL,
		"maps_url":         result.MapsScriptURL,
	}); err != nil {
		return Result{}, err
	}

	markup := MapMarkup{
		WidgetID: widgetID,
		Wrapper:  wrapper,
		Hidden:   hidden,
		Bindings: bindings,
		Config:   clientCfg,
	}
	if b.cfg.renderCallback != nil {
		out, err := b.cfg.renderCallback(markup)
		if err != nil {
			return Result{}, fmt.Errorf("binder: render callback: %w", err)
		}
		result.Map = out
		return result, nil
	}

	result.Map = markup.HTML()
	result.Field = fillFieldTemplate(req.FieldTemplate, result.Input, result.Map)
	b.cfg.logger.Debug("binder: rendered widget", "widget", widgetID, "inputs", len(bindings))
	return result, nil
}

func (b *Binder) clientConfig(bindings model.Bindings, opts render.RenderOptions) ClientConfig {
	cfg := ClientConfig{
		Config: selector.Config{
			Selectors:       bindings.Selectors(),
			Draggable:       b.cfg.draggable,
			DefaultCenter:   b.cfg.center,
			DefaultZoom:     b.cfg.zoom,
			HideMarker:      b.cfg.hideMarker,
			AddressNotFound: b.addressNotFound(opts),
		},
	}
	if lang := b.language(opts.Locale); lang != language.Und {
		cfg.Language = lang.String()
	}
	if !b.cfg.endpoints.IsZero() {
		endpoints := b.cfg.endpoints
		cfg.Endpoints = &endpoints
	}
	return cfg
}

func (b *Binder) addressNotFound(opts render.RenderOptions) string {
	translator := b.cfg.translator
	if opts.Translator != nil {
		translator = opts.Translator
	}
	onMissing := b.cfg.onMissing
	if opts.OnMissing != nil {
		onMissing = opts.OnMissing
	}
	locale := b.cfg.locale
	if opts.Locale != "" {
		locale = opts.Locale
	}

	message := plainText(render.Translate(translator, locale, AddressNotFoundKey, b.cfg.addressNotFound, onMissing))
	if message == "" {
		return selector.DefaultAddressNotFound
	}
	return message
}

// language returns the configured tag, else the tag parsed from locale.
func (b *Binder) language(locale string) language.Tag {
	if b.cfg.lang != language.Und {
		return b.cfg.lang
	}
	if locale == "" {
		locale = b.cfg.locale
	}
	if locale == "" {
		return language.Und
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}

func (b *Binder) runtimeURL(themeCfg *theme.RendererConfig) string {
	if b.cfg.scriptURL != "" {
		return b.cfg.scriptURL
	}
	if themeCfg != nil && themeCfg.AssetURL != nil {
		return themeCfg.AssetURL(AssetRuntime)
	}
	return ""
}

func (b *Binder) wrapperAttrs(bindings model.Bindings, widgetID string, themeCfg *theme.RendererConfig) map[string]string {
	attrs := map[string]string{
		"id":    strings.TrimSpace(widgetID),
		"style": DefaultWrapperStyle,
	}
	if attrs["id"] == "" {
		attrs["id"] = "maplocation-" + bindings.Address().InputID
	}
	if themeCfg != nil {
		if vars := cssVarsStyle(themeCfg.CSSVars); vars != "" {
			attrs["style"] = attrs["style"] + " " + vars
		}
	}
	attrs = mergeAttrs(attrs, b.cfg.wrapperAttrs)
	if strings.TrimSpace(attrs["id"]) == "" {
		attrs["id"] = "maplocation-" + bindings.Address().InputID
	}
	return attrs
}

func (b *Binder) renderPartial(partials map[string]string, key string, data map[string]any) (string, error) {
	name := partials[key]
	if name == "" {
		name = defaultPartials[key]
	}
	out, err := b.cfg.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("binder: render %s: %w", key, err)
	}
	return strings.TrimSpace(out), nil
}

func withValues(bindings model.Bindings, values map[model.Field]string) model.Bindings {
	if len(values) == 0 {
		return bindings
	}
	out := make(model.Bindings, len(bindings))
	copy(out, bindings)
	for i := range out {
		if value, ok := values[out[i].Field]; ok {
			out[i].Value = value
		}
	}
	return out
}

func hiddenInputs(bindings model.Bindings, opts render.RenderOptions) []map[string]any {
	hidden := bindings.Hidden()
	inputs := make([]map[string]any, 0, len(hidden)+len(opts.Hidden))
	for _, binding := range hidden {
		inputs = append(inputs, map[string]any{
			"id":      binding.InputID,
			"name":    binding.InputName,
			"value":   binding.Value,
			"field":   string(binding.Field),
			"invalid": len(opts.Errors[binding.Field]) > 0,
		})
	}
	for _, field := range render.SortedHiddenFields(opts.Hidden) {
		inputs = append(inputs, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
	}
	return inputs
}

func sortedAttrs(attrs map[string]string, skip map[string]struct{}) []map[string]string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if _, reserved := skip[strings.ToLower(key)]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]map[string]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, map[string]string{"name": key, "value": attrs[key]})
	}
	return out
}
