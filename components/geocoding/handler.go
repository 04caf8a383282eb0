package geocoding

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/place"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type placesResponse struct {
	Data []place.Place `json:"data"`
}

type suggestionsResponse struct {
	Data []geocode.Suggestion `json:"data"`
}

// Handler builds a handler serving every route relative to the root path.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler serving every route relative to the
// root path from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	s := newServer(opts)
	mux := http.NewServeMux()
	for _, route := range Routes {
		mux.Handle(opts.RoutePath(route), s.route(route))
	}
	return mux
}

// RouteHandler builds the handler for a single route.
func RouteHandler(route Route, fns ...OptionFn) http.Handler {
	return newServer(NewOptions(fns...)).route(route)
}

type server struct {
	opts    Options
	limiter *rate.Limiter
}

func newServer(opts Options) *server {
	s := &server{opts: opts}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(opts.RateLimit, opts.RateBurst)
	}
	return s
}

func (s *server) route(route Route) http.Handler {
	var serve func(w http.ResponseWriter, r *http.Request) error
	switch route {
	case RouteGeocode:
		serve = s.geocode
	case RouteReverse:
		serve = s.reverse
	case RouteAutocomplete:
		serve = s.autocomplete
	case RoutePlace:
		serve = s.placeDetails
	default:
		return http.NotFoundHandler()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if s.opts.Guard != nil {
			if err := s.opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		if s.limiter != nil && !s.limiter.Allow() {
			s.opts.Logger.Warn("geocoding: rate limit exceeded", "route", string(route), "remote", r.RemoteAddr)
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		if s.opts.Geocoder == nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		if err := serve(w, r); err != nil {
			s.writeError(w, r, route, err)
		}
	})
}

func (s *server) geocode(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get(s.opts.QueryParam))
	if query == "" {
		return StatusError{Code: http.StatusBadRequest, Err: errors.New("geocoding: missing query")}
	}
	results, err := s.opts.Geocoder.Geocode(r.Context(), query)
	if err != nil {
		return err
	}
	writeJSON(w, r, placesResponse{Data: s.limit(r, results)})
	return nil
}

func (s *server) reverse(w http.ResponseWriter, r *http.Request) error {
	values := r.URL.Query()
	at, err := place.ParseLatLng(values.Get(s.opts.LatParam), values.Get(s.opts.LngParam))
	if err != nil {
		return StatusError{Code: http.StatusBadRequest, Err: err}
	}
	results, err := s.opts.Geocoder.Reverse(r.Context(), at)
	if err != nil {
		return err
	}
	writeJSON(w, r, placesResponse{Data: s.limit(r, results)})
	return nil
}

func (s *server) autocomplete(w http.ResponseWriter, r *http.Request) error {
	ac, err := s.autocompleter()
	if err != nil {
		return err
	}
	values := r.URL.Query()
	input := strings.TrimSpace(values.Get(s.opts.QueryParam))
	if input == "" {
		writeJSON(w, r, suggestionsResponse{Data: []geocode.Suggestion{}})
		return nil
	}

	req := geocode.AutocompleteRequest{
		Input:        input,
		SessionToken: values.Get(s.opts.SessionParam),
		Countries:    s.opts.Countries,
		Language:     s.opts.Language,
	}
	if lat, lng := values.Get(s.opts.LatParam), values.Get(s.opts.LngParam); lat != "" || lng != "" {
		near, err := place.ParseLatLng(lat, lng)
		if err != nil {
			return StatusError{Code: http.StatusBadRequest, Err: err}
		}
		req.Near = &near
	}

	suggestions, err := ac.Autocomplete(r.Context(), req)
	if err != nil {
		return err
	}
	if limit := clampLimit(parseInt(values.Get(s.opts.LimitParam)), s.opts); len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	if suggestions == nil {
		suggestions = []geocode.Suggestion{}
	}
	writeJSON(w, r, suggestionsResponse{Data: suggestions})
	return nil
}

func (s *server) placeDetails(w http.ResponseWriter, r *http.Request) error {
	ac, err := s.autocompleter()
	if err != nil {
		return err
	}
	values := r.URL.Query()
	placeID := strings.TrimSpace(values.Get(s.opts.PlaceIDParam))
	if placeID == "" {
		return StatusError{Code: http.StatusBadRequest, Err: errors.New("geocoding: missing place id")}
	}
	result, err := ac.PlaceDetails(r.Context(), placeID, values.Get(s.opts.SessionParam))
	if err != nil {
		return err
	}
	writeJSON(w, r, placesResponse{Data: []place.Place{result}})
	return nil
}

func (s *server) autocompleter() (geocode.Autocompleter, error) {
	if !geocode.SupportsAutocomplete(s.opts.Geocoder) {
		return nil, geocode.ErrUnsupported
	}
	ac, ok := s.opts.Geocoder.(geocode.Autocompleter)
	if !ok {
		return nil, geocode.ErrUnsupported
	}
	return ac, nil
}

func (s *server) limit(r *http.Request, results []place.Place) []place.Place {
	limit := clampLimit(parseInt(r.URL.Query().Get(s.opts.LimitParam)), s.opts)
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []place.Place{}
	}
	return results
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, route Route, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.opts.Logger.Error("geocoding: request failed",
			"route", string(route),
			"provider", s.opts.Geocoder.Name(),
			"error", err,
		)
	} else {
		s.opts.Logger.Debug("geocoding: request rejected", "route", string(route), "status", code, "error", err)
	}
	if r.Context().Err() != nil {
		return
	}
	http.Error(w, http.StatusText(code), code)
}

func statusFor(err error) int {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr != nil:
		return httpErr.StatusCode()
	case errors.Is(err, geocode.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, geocode.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
