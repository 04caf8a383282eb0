// Package maplocation is the entry point of the map location widget: a Form
// Binder that renders one visible address input, the hidden inputs for every
// bound location attribute and the map wrapper, plus the browser runtime that
// keeps those inputs in sync with a Google Map.
//
// Quick start:
//
//	b, _ := maplocation.NewBinder(binder.WithAPIKey(key), binder.WithDraggable(true),
//		binder.WithScriptURL("/runtime/maplocation.js"))
//	result, _ := b.Render(ctx, maplocation.Request{Model: model.NewMapModel("Store",
//		"address", "lat", "lng"), Attributes: attrs})
//	io.WriteString(w, result.HTML())
//
// Component schemas described with OpenAPI can be rendered directly through
// RenderSchema, and the runtime is served from RuntimeAssetsFS.
package maplocation
