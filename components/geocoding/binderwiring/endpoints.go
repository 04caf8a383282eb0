package binderwiring

import (
	"github.com/goliatone/go-maplocation/components/geocoding"
	"github.com/goliatone/go-maplocation/pkg/binder"
)

// Endpoints returns the binder endpoints for a geocoding component mounted
// under basePath, using the component defaults plus any overrides.
//
// The rendered client config then points the browser runtime at:
// - <basePath>/api/geocode
// - <basePath>/api/reverse
// - <basePath>/api/autocomplete
// - <basePath>/api/place
func Endpoints(basePath string, fns ...geocoding.OptionFn) binder.Endpoints {
	return fromPaths(geocoding.MountPaths(basePath, fns...))
}

// ComponentEndpoints returns the binder endpoints for an existing component.
func ComponentEndpoints(component *geocoding.Component, basePath string) binder.Endpoints {
	return fromPaths(component.Paths(basePath))
}

// WithEndpoints is a binder option wiring the component routes into the
// rendered client config.
func WithEndpoints(basePath string, fns ...geocoding.OptionFn) binder.Option {
	return binder.WithEndpoints(Endpoints(basePath, fns...))
}

func fromPaths(paths geocoding.Paths) binder.Endpoints {
	return binder.Endpoints{
		Geocode:      paths.Geocode,
		Reverse:      paths.Reverse,
		Autocomplete: paths.Autocomplete,
		Place:        paths.Place,
	}
}
