package google

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/place"
	"github.com/goliatone/go-maplocation/pkg/testsupport"
)

const (
	geocodePath      = "/maps/api/geocode/json"
	autocompletePath = "/maps/api/place/autocomplete/json"
	detailsPath      = "/maps/api/place/details/json"
)

func newTestProvider(t *testing.T, routes map[string]string) *Provider {
	t.Helper()
	srv := testsupport.FixtureServer(t, routes)
	provider, err := New("test-key", WithBaseURL(srv.URL), WithLanguage(language.English))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return provider
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(" "); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestProvider_Geocode(t *testing.T) {
	provider := newTestProvider(t, map[string]string{geocodePath: "testdata/geocode_amphitheatre.json"})

	results, err := provider.Geocode(context.Background(), "1600 Amphitheatre Parkway")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]

	if got.FormattedAddress != "1600 Amphitheatre Parkway, Mountain View, CA 94043, USA" {
		t.Fatalf("unexpected formatted address %q", got.FormattedAddress)
	}
	if got.PlusCode != "849VCWC8+W5" {
		t.Fatalf("unexpected plus code %q", got.PlusCode)
	}
	if got.Geometry == nil || got.Geometry.Location == nil {
		t.Fatalf("expected point geometry, got %#v", got.Geometry)
	}
	if want := (place.LatLng{Lat: 37.4224764, Lng: -122.0842499}); *got.Geometry.Location != want {
		t.Fatalf("unexpected location %v", *got.Geometry.Location)
	}
	if got.Geometry.Viewport == nil {
		t.Fatalf("expected viewport")
	}
	if got.Geometry.Bounds != nil {
		t.Fatalf("expected zero bounds to be dropped, got %#v", got.Geometry.Bounds)
	}

	route, ok := got.Component(place.TypeRoute)
	if !ok {
		t.Fatalf("expected route component")
	}
	want := place.Component{LongName: "Amphitheatre Parkway", ShortName: "Amphitheatre Pkwy", Types: []string{"route"}}
	if diff := cmp.Diff(want, route); diff != "" {
		t.Fatalf("route mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_ReverseZeroResults(t *testing.T) {
	provider := newTestProvider(t, map[string]string{geocodePath: "testdata/zero_results.json"})

	results, err := provider.Reverse(context.Background(), place.LatLng{Lat: 0, Lng: 0})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestProvider_StatusError(t *testing.T) {
	provider := newTestProvider(t, map[string]string{geocodePath: "testdata/request_denied.json"})

	if _, err := provider.Geocode(context.Background(), "anything"); err == nil {
		t.Fatalf("expected REQUEST_DENIED to surface as error")
	}
}

func TestProvider_AutocompleteAndDetails(t *testing.T) {
	provider := newTestProvider(t, map[string]string{
		autocompletePath: "testdata/autocomplete.json",
		detailsPath:      "testdata/place_details.json",
	})
	token := NewSessionToken()

	suggestions, err := provider.Autocomplete(context.Background(), geocode.AutocompleteRequest{
		Input:        "1600 amph",
		SessionToken: token,
		Countries:    []string{"US"},
	})
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	wantSuggestions := []geocode.Suggestion{{
		PlaceID:       "ChIJ2eUgeAK6j4ARbn5u_wAGqWA",
		Description:   "1600 Amphitheatre Parkway, Mountain View, CA, USA",
		MainText:      "1600 Amphitheatre Parkway",
		SecondaryText: "Mountain View, CA, USA",
		Types:         []string{"street_address", "geocode"},
	}}
	if diff := cmp.Diff(wantSuggestions, suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}

	details, err := provider.PlaceDetails(context.Background(), suggestions[0].PlaceID, token)
	if err != nil {
		t.Fatalf("place details: %v", err)
	}
	if details.Name != "Googleplex" || !details.HasGeometry() {
		t.Fatalf("unexpected details %#v", details)
	}
	if len(details.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(details.Components))
	}
}

func TestProvider_InvalidSessionToken(t *testing.T) {
	provider := newTestProvider(t, map[string]string{})

	_, err := provider.Autocomplete(context.Background(), geocode.AutocompleteRequest{Input: "x", SessionToken: "not-a-uuid"})
	if err == nil {
		t.Fatalf("expected invalid session token error")
	}
	if _, err := provider.PlaceDetails(context.Background(), "", ""); !errors.Is(err, geocode.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty place id, got %v", err)
	}
}
