// Package geocode defines the provider boundary used by the location selector
// and the geocoding HTTP component: forward and reverse geocoding, place
// autocomplete, and a caching decorator. Concrete providers live under
// provider/.
package geocode

import (
	"context"
	"errors"

	"github.com/goliatone/go-maplocation/pkg/place"
)

var (
	// ErrNotFound is returned when a lookup by identifier has no match.
	ErrNotFound = errors.New("geocode: not found")
	// ErrUnsupported is returned when a provider lacks a capability.
	ErrUnsupported = errors.New("geocode: operation not supported by provider")
)

// Geocoder converts between addresses and coordinates. An empty result slice
// with a nil error means the service answered with no match.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]place.Place, error)
	Reverse(ctx context.Context, at place.LatLng) ([]place.Place, error)
}

// AutocompleteRequest describes one keystroke-level suggestion lookup.
type AutocompleteRequest struct {
	Input        string
	SessionToken string
	Near         *place.LatLng
	RadiusMeters uint
	Countries    []string
	Language     string
}

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	PlaceID       string   `json:"placeId"`
	Description   string   `json:"description"`
	MainText      string   `json:"mainText,omitempty"`
	SecondaryText string   `json:"secondaryText,omitempty"`
	Types         []string `json:"types,omitempty"`
}

// Autocompleter suggests places while the user types and resolves a chosen
// suggestion into a full place.
type Autocompleter interface {
	Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Suggestion, error)
	PlaceDetails(ctx context.Context, placeID, sessionToken string) (place.Place, error)
}

// First returns the first result, if any.
func First(results []place.Place) (place.Place, bool) {
	if len(results) == 0 {
		return place.Place{}, false
	}
	return results[0], true
}
