// Package nominatim adapts the OpenStreetMap Nominatim geocoder to
// geocode.Geocoder. It does not support autocomplete.
package nominatim

import (
	"context"
	"fmt"
	"strings"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/place"
)

const name = "nominatim"

// Option configures the provider.
type Option func(*Provider)

// WithURL points the provider at a self-hosted Nominatim instance.
func WithURL(url string) Option {
	return func(p *Provider) {
		if url = strings.TrimSpace(url); url != "" {
			p.coder = openstreetmap.GeocoderWithURL(url)
		}
	}
}

// WithGeocoder swaps the underlying geo-golang geocoder.
func WithGeocoder(coder geo.Geocoder) Option {
	return func(p *Provider) {
		if coder != nil {
			p.coder = coder
		}
	}
}

// Provider wraps a geo-golang geocoder.
type Provider struct {
	coder geo.Geocoder
}

var _ geocode.Geocoder = (*Provider)(nil)

// New returns a provider backed by the public Nominatim endpoint unless
// overridden.
func New(options ...Option) *Provider {
	p := &Provider{coder: openstreetmap.Geocoder()}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Provider) Name() string {
	return name
}

// Geocode resolves query to a point and then reverse geocodes that point to
// fill the address components.
func (p *Provider) Geocode(ctx context.Context, query string) ([]place.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	location, err := await(ctx, func() (*geo.Location, error) {
		return p.coder.Geocode(query)
	})
	if err != nil {
		return nil, fmt.Errorf("nominatim: geocode %q: %w", query, err)
	}
	if location == nil {
		return nil, nil
	}

	at := place.LatLng{Lat: location.Lat, Lng: location.Lng}
	address, err := await(ctx, func() (*geo.Address, error) {
		return p.coder.ReverseGeocode(at.Lat, at.Lng)
	})
	if err != nil {
		return nil, fmt.Errorf("nominatim: resolve address for %s: %w", at, err)
	}

	result := toPlace(at, address)
	if result.FormattedAddress == "" {
		result.FormattedAddress = query
	}
	return []place.Place{result}, nil
}

func (p *Provider) Reverse(ctx context.Context, at place.LatLng) ([]place.Place, error) {
	address, err := await(ctx, func() (*geo.Address, error) {
		return p.coder.ReverseGeocode(at.Lat, at.Lng)
	})
	if err != nil {
		return nil, fmt.Errorf("nominatim: reverse geocode %s: %w", at, err)
	}
	if address == nil {
		return nil, nil
	}
	return []place.Place{toPlace(at, address)}, nil
}

// await runs a blocking geo-golang call and returns early when ctx ends. The
// call itself keeps running until the library's own timeout fires.
func await[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := call()
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case out := <-done:
		return out.value, out.err
	}
}

func toPlace(at place.LatLng, address *geo.Address) place.Place {
	result := place.Point(at)
	if address == nil {
		return result
	}
	result.FormattedAddress = address.FormattedAddress
	result.Components = toComponents(*address)
	return result
}

func toComponents(address geo.Address) []place.Component {
	var out []place.Component
	add := func(typ, long, short string) {
		long = strings.TrimSpace(long)
		if long == "" {
			return
		}
		if short = strings.TrimSpace(short); short == "" {
			short = long
		}
		out = append(out, place.Component{LongName: long, ShortName: short, Types: []string{typ}})
	}

	locality := address.City
	if locality == "" {
		locality = address.Suburb
	}
	county := address.County
	if county == "" {
		county = address.StateDistrict
	}

	add(place.TypeStreetNumber, address.HouseNumber, "")
	add(place.TypeRoute, address.Street, "")
	add(place.TypeLocality, locality, "")
	add(place.TypeAdminAreaLevel2, county, "")
	add(place.TypeAdminAreaLevel1, address.State, address.StateCode)
	add(place.TypeCountry, address.Country, strings.ToUpper(address.CountryCode))
	add(place.TypePostalCode, address.Postcode, "")
	return out
}
