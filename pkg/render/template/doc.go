// Package template defines the renderer-agnostic template contract used by the
// binder. The pongo2 implementation lives in the gotemplate subpackage.
package template
