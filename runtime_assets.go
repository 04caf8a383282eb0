package maplocation

import (
	"embed"
	"io/fs"
)

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeScript is the file name of the browser runtime inside
// RuntimeAssetsFS.
const RuntimeScript = "maplocation.js"

// RuntimeAssetsFS exposes the browser runtime (committed under
// pkg/runtime/assets) so Go applications can serve it without a build step.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(maplocation.RuntimeAssetsFS()),
//	  ),
//	)
//
// and binder.WithScriptURL("/runtime/maplocation.js").
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
