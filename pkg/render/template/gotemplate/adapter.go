// Package gotemplate renders widget markup with a pongo2 template set.
package gotemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-maplocation/pkg/render/template"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	dir     string
	files   fs.FS
	ext     string
	funcs   map[string]any
	globals map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. It is consulted after WithBaseDir.
func WithFS(files fs.FS) Option {
	return func(o *options) {
		o.files = files
	}
}

// WithExtension changes the suffix appended to template names (".tpl").
func WithExtension(ext string) Option {
	return func(o *options) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.ext = ext
	}
}

// WithTemplateFunc exposes funcs to templates. pongo2.FilterFunction values
// become filters, other functions become globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(o *options) {
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" && fn != nil {
				o.funcs[name] = fn
			}
		}
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option {
	return func(o *options) {
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				o.globals[key] = value
			}
		}
	}
}

// Engine is a template.TemplateRenderer backed by pongo2.
type Engine struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet
	ext string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. A base dir or an fs.FS is required.
func New(opts ...Option) (*Engine, error) {
	o := options{ext: ".tpl", funcs: map[string]any{}, globals: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.dir == "" && o.files == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if o.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(o.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if o.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(o.files))
	}

	set := pongo2.NewSet("maplocation", loaders...)
	if set.Globals == nil {
		set.Globals = pongo2.Context{}
	}
	for key, value := range o.globals {
		set.Globals[key] = value
	}
	for name, fn := range o.funcs {
		if filter, ok := fn.(pongo2.FilterFunction); ok {
			if !pongo2.FilterExists(name) {
				if err := pongo2.RegisterFilter(name, filter); err != nil {
					return nil, fmt.Errorf("gotemplate: register filter %q: %w", name, err)
				}
			}
			continue
		}
		if reflect.ValueOf(fn).Kind() == reflect.Func {
			set.Globals[name] = fn
		}
	}
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}

	return &Engine{set: set, ext: o.ext}, nil
}

// Render treats name as inline template content when it contains template
// tags and as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the named template, appending the extension when
// missing. The result is also written to every out writer.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}
	return e.execute(tpl, name, data, out)
}

// RenderString compiles and renders inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tpl, "inline", data, out)
}

// RegisterFilter adds a pongo2 filter. Filters are process wide; registering
// an existing name is an error.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the globals visible to every template.
func (e *Engine) GlobalContext(data map[string]any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range data {
		if key = strings.TrimSpace(key); key != "" {
			e.set.Globals[key] = value
		}
	}
	return nil
}

func (e *Engine) execute(tpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	ctx, err := contextOf(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data for %q: %w", name, err)
	}

	e.mu.RLock()
	rendered, err := tpl.Execute(ctx)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", name, err)
	}

	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// contextOf passes maps through and flattens other values to their JSON
// object form so templates address them by JSON key.
func contextOf(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	ctx := pongo2.Context{}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
