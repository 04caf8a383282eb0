package geocoding

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Paths holds the mounted path of every route.
type Paths struct {
	Geocode      string
	Reverse      string
	Autocomplete string
	Place        string
}

// MountPath returns the full mount path for route under basePath.
func MountPath(basePath string, route Route, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath(route))
}

// MountPaths returns the full mount path of every route under basePath.
func MountPaths(basePath string, fns ...OptionFn) Paths {
	return mountPaths(basePath, NewOptions(fns...))
}

// RegisterRoutes registers every route under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Paths, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers every route under basePath using a
// pre-built Options value. The routes share one rate limiter.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Paths, error) {
	if mux == nil {
		return Paths{}, fmt.Errorf("geocoding: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	if opts.Geocoder == nil {
		return Paths{}, fmt.Errorf("geocoding: missing geocoder")
	}

	s := newServer(opts)
	for _, route := range Routes {
		mux.Handle(mountPath(basePath, opts.RoutePath(route)), s.route(route))
	}
	return mountPaths(basePath, opts), nil
}

func mountPaths(basePath string, opts Options) Paths {
	return Paths{
		Geocode:      mountPath(basePath, opts.RoutePath(RouteGeocode)),
		Reverse:      mountPath(basePath, opts.RoutePath(RouteReverse)),
		Autocomplete: mountPath(basePath, opts.RoutePath(RouteAutocomplete)),
		Place:        mountPath(basePath, opts.RoutePath(RoutePlace)),
	}
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
