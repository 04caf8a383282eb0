package geocoding

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/goliatone/go-maplocation/pkg/geocode"
)

// Route names one of the component endpoints.
type Route string

const (
	RouteGeocode      Route = "geocode"
	RouteReverse      Route = "reverse"
	RouteAutocomplete Route = "autocomplete"
	RoutePlace        Route = "place"
)

// Routes lists every route in registration order.
var Routes = []Route{RouteGeocode, RouteReverse, RouteAutocomplete, RoutePlace}

type GuardFunc func(r *http.Request) error

type Options struct {
	Geocoder geocode.Geocoder

	RoutePrefix      string
	GeocodePath      string
	ReversePath      string
	AutocompletePath string
	PlacePath        string

	QueryParam   string
	LatParam     string
	LngParam     string
	PlaceIDParam string
	SessionParam string
	LimitParam   string

	DefaultLimit int
	MaxLimit     int

	// Language and Countries are applied to autocomplete requests.
	Language  string
	Countries []string

	// RateLimit bounds requests per second across all routes. Zero disables
	// limiting.
	RateLimit rate.Limit
	RateBurst int

	Guard  GuardFunc
	Logger *slog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePrefix:      "/api",
		GeocodePath:      "/geocode",
		ReversePath:      "/reverse",
		AutocompletePath: "/autocomplete",
		PlacePath:        "/place",
		QueryParam:       "q",
		LatParam:         "lat",
		LngParam:         "lng",
		PlaceIDParam:     "id",
		SessionParam:     "session",
		LimitParam:       "limit",
		DefaultLimit:     5,
		MaxLimit:         20,
		RateBurst:        10,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if opts.RateLimit < 0 {
		opts.RateLimit = 0
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = defaults.RateBurst
	}
	fallback(&opts.GeocodePath, defaults.GeocodePath)
	fallback(&opts.ReversePath, defaults.ReversePath)
	fallback(&opts.AutocompletePath, defaults.AutocompletePath)
	fallback(&opts.PlacePath, defaults.PlacePath)
	fallback(&opts.QueryParam, defaults.QueryParam)
	fallback(&opts.LatParam, defaults.LatParam)
	fallback(&opts.LngParam, defaults.LngParam)
	fallback(&opts.PlaceIDParam, defaults.PlaceIDParam)
	fallback(&opts.SessionParam, defaults.SessionParam)
	fallback(&opts.LimitParam, defaults.LimitParam)
	if opts.Countries != nil {
		opts.Countries = append([]string{}, opts.Countries...)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

func fallback(value *string, def string) {
	if *value == "" {
		*value = def
	}
}

// RoutePath returns the path of route relative to the mount base.
func (o Options) RoutePath(route Route) string {
	var path string
	switch route {
	case RouteGeocode:
		path = o.GeocodePath
	case RouteReverse:
		path = o.ReversePath
	case RouteAutocomplete:
		path = o.AutocompletePath
	case RoutePlace:
		path = o.PlacePath
	default:
		return ""
	}
	return mountPath(o.RoutePrefix, path)
}

func WithGeocoder(geocoder geocode.Geocoder) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Geocoder = geocoder
	}
}

// WithRoutePrefix sets the prefix shared by every route, "/api" by default.
// An empty prefix mounts the routes directly under the base path.
func WithRoutePrefix(prefix string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePrefix = prefix
	}
}

// WithRoutePath overrides the path of a single route.
func WithRoutePath(route Route, path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		switch route {
		case RouteGeocode:
			o.GeocodePath = path
		case RouteReverse:
			o.ReversePath = path
		case RouteAutocomplete:
			o.AutocompletePath = path
		case RoutePlace:
			o.PlacePath = path
		}
	}
}

func WithQueryParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.QueryParam = name
	}
}

func WithCoordinateParams(lat, lng string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LatParam = lat
		o.LngParam = lng
	}
}

func WithSessionParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithLanguage(lang string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Language = lang
	}
}

func WithCountries(countries ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Countries = append([]string{}, countries...)
	}
}

// WithRateLimit allows perSecond requests per second with the given burst.
func WithRateLimit(perSecond float64, burst int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RateLimit = rate.Limit(perSecond)
		o.RateBurst = burst
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func clampLimit(limit int, opts Options) int {
	if limit <= 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
