// Package binder renders the server side of the map location widget.
//
// Given a model and the attributes bound to each logical location field, a
// Binder renders the visible address input, one hidden input per auxiliary
// field, the map wrapper, and the JSON configuration the browser runtime
// consumes:
//
//	b, err := binder.New(binder.WithDraggable(true), binder.WithAPIKey(key))
//	res, err := b.Render(ctx, binder.Request{
//		Model:         store,
//		Attributes:    attrs,
//		FieldTemplate: "<label>Address</label>{input}",
//	})
//
// Markup is produced by the pongo2 engine from the embedded templates under
// templates/maplocation; themes may override any partial.
package binder
