package maplocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-maplocation/pkg/binder"
	pkgopenapi "github.com/goliatone/go-maplocation/pkg/openapi"
	"github.com/goliatone/go-maplocation/pkg/render"
)

// RenderOptions describes per-request overrides used to prefill values or
// surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request aliases binder.Request.
type Request = binder.Request

// Result aliases binder.Result.
type Result = binder.Result

// NewBinder constructs a binder with the provided options.
func NewBinder(options ...binder.Option) (*binder.Binder, error) {
	return binder.New(options...)
}

// SchemaRequest renders a widget for an OpenAPI component schema.
type SchemaRequest struct {
	Source pkgopenapi.Source
	Schema string
	// Values seeds attribute values keyed by property name.
	Values        map[string]string
	WidgetID      string
	FieldTemplate string
	Options       render.RenderOptions
}

// RenderSchema loads the document, binds the named component schema and
// renders the widget for it.
func RenderSchema(ctx context.Context, loader pkgopenapi.Loader, parser pkgopenapi.Parser, b *binder.Binder, req SchemaRequest) (binder.Result, error) {
	if loader == nil || parser == nil || b == nil {
		return binder.Result{}, errors.New("maplocation: loader, parser and binder are required")
	}
	doc, err := loader.Load(ctx, req.Source)
	if err != nil {
		return binder.Result{}, fmt.Errorf("maplocation: load schema document: %w", err)
	}
	res, err := pkgopenapi.Resolve(ctx, parser, doc, req.Schema)
	if err != nil {
		return binder.Result{}, err
	}
	return b.Render(ctx, binder.Request{
		Model:         res.Model.WithValues(req.Values),
		Attributes:    res.Attributes,
		WidgetID:      req.WidgetID,
		FieldTemplate: req.FieldTemplate,
		Options:       req.Options,
	})
}
