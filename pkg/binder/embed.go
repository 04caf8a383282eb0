package binder

import (
	"embed"
	"io/fs"
)

//go:embed templates/maplocation/*.tpl
var embeddedTemplates embed.FS

// Partial keys resolved through the theme before falling back to the
// embedded templates.
const (
	PartialInput  = "maplocation.input"
	PartialHidden = "maplocation.hidden"
	PartialMap    = "maplocation.map"
	PartialScript = "maplocation.script"

	// AssetRuntime is the theme asset key for the browser runtime script.
	AssetRuntime = "maplocation.runtime"
)

var defaultPartials = map[string]string{
	PartialInput:  "templates/maplocation/input",
	PartialHidden: "templates/maplocation/hidden",
	PartialMap:    "templates/maplocation/map",
	PartialScript: "templates/maplocation/script",
}

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// DefaultPartials returns a copy of the built-in partial table.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(defaultPartials))
	for key, value := range defaultPartials {
		out[key] = value
	}
	return out
}
