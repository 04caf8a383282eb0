package geocoding

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/admin", RouteGeocode); got != "/admin/api/geocode" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("admin", RouteReverse); got != "/admin/api/reverse" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/admin/", RoutePlace, WithRoutePrefix(""), WithRoutePath(RoutePlace, "places")); got != "/admin/places" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/", Route("unknown")); got != "/" {
		t.Fatalf("unexpected mount path for unknown route: %q", got)
	}
}

func TestMountPaths(t *testing.T) {
	got := MountPaths("/maps", WithRoutePrefix("/geo/v1"))
	want := Paths{
		Geocode:      "/maps/geo/v1/geocode",
		Reverse:      "/maps/geo/v1/reverse",
		Autocomplete: "/maps/geo/v1/autocomplete",
		Place:        "/maps/geo/v1/place",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterRoutes_RegistersHandlers(t *testing.T) {
	mux := http.NewServeMux()
	paths, err := RegisterRoutes(mux, "/admin", WithGeocoder(loadProvider(t)))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if paths.Reverse != "/admin/api/reverse" {
		t.Fatalf("unexpected registered path: %q", paths.Reverse)
	}

	rec := serve(t, mux, http.MethodGet, paths.Geocode+"?q=amphitheatre")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	rec = serve(t, mux, http.MethodGet, paths.Reverse+"?lat=37.4224764&lng=-122.0842499")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_Errors(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/admin", WithGeocoder(loadProvider(t))); err == nil {
		t.Fatalf("expected error for nil mux")
	}
	if _, err := RegisterRoutes(http.NewServeMux(), "/admin"); err == nil {
		t.Fatalf("expected error for missing geocoder")
	}
}

func TestComponent(t *testing.T) {
	c := New(WithGeocoder(loadProvider(t)), WithMaxLimit(3))
	if got := c.Options().MaxLimit; got != 3 {
		t.Fatalf("unexpected max limit: %d", got)
	}
	if got := c.Paths("/app").Autocomplete; got != "/app/api/autocomplete" {
		t.Fatalf("unexpected autocomplete path: %q", got)
	}

	rec := serve(t, c.Handler(), http.MethodGet, "/api/geocode?q=amphitheatre")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	mux := http.NewServeMux()
	if _, err := c.RegisterRoutes(mux, "/app"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec := serve(t, mux, http.MethodGet, "/app/api/place?id=ChIJ2eUgeAK6j4ARbn5u_wAGqWA"); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var nilComponent *Component
	if got := nilComponent.Options().DefaultLimit; got != DefaultOptions().DefaultLimit {
		t.Fatalf("unexpected nil component defaults: %d", got)
	}
}

func TestNewOptions_Clamps(t *testing.T) {
	opts := NewOptions(
		WithDefaultLimit(50),
		WithMaxLimit(10),
		WithRateLimit(-1, 0),
		WithQueryParam(""),
	)
	if opts.DefaultLimit != 10 {
		t.Fatalf("expected default limit clamped to max, got %d", opts.DefaultLimit)
	}
	if opts.RateLimit != 0 || opts.RateBurst != DefaultOptions().RateBurst {
		t.Fatalf("unexpected rate settings: %v/%d", opts.RateLimit, opts.RateBurst)
	}
	if opts.QueryParam != "q" {
		t.Fatalf("expected query param default, got %q", opts.QueryParam)
	}
	if opts.Logger == nil {
		t.Fatalf("expected default logger")
	}
}
