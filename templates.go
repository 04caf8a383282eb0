package maplocation

import (
	"io/fs"

	"github.com/goliatone/go-maplocation/pkg/binder"
)

// EmbeddedTemplates exposes the built-in widget partials so callers can copy
// or extend them for a theme without importing the binder package directly.
func EmbeddedTemplates() fs.FS {
	return binder.TemplatesFS()
}
