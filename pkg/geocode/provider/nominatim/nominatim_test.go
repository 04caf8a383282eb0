package nominatim

import (
	"context"
	"errors"
	"testing"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maplocation/pkg/place"
)

type fakeCoder struct {
	location *geo.Location
	address  *geo.Address
	err      error
	block    chan struct{}
}

func (f *fakeCoder) Geocode(string) (*geo.Location, error) {
	if f.block != nil {
		<-f.block
	}
	return f.location, f.err
}

func (f *fakeCoder) ReverseGeocode(float64, float64) (*geo.Address, error) {
	return f.address, f.err
}

func quebecAddress() *geo.Address {
	return &geo.Address{
		FormattedAddress: "1045 Rue des Parlementaires, Québec, QC G1A 1A3, Canada",
		HouseNumber:      "1045",
		Street:           "Rue des Parlementaires",
		City:             "Québec",
		County:           "Communauté-Urbaine-de-Québec",
		State:            "Québec",
		StateCode:        "QC",
		Country:          "Canada",
		CountryCode:      "ca",
		Postcode:         "G1A 1A3",
	}
}

func TestProvider_Geocode(t *testing.T) {
	provider := New(WithGeocoder(&fakeCoder{
		location: &geo.Location{Lat: 46.8083, Lng: -71.2139},
		address:  quebecAddress(),
	}))

	results, err := provider.Geocode(context.Background(), "Assemblée nationale")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if center, ok := got.Geometry.Center(); !ok || center != (place.LatLng{Lat: 46.8083, Lng: -71.2139}) {
		t.Fatalf("unexpected center %v", center)
	}

	want := []place.Component{
		{LongName: "1045", ShortName: "1045", Types: []string{place.TypeStreetNumber}},
		{LongName: "Rue des Parlementaires", ShortName: "Rue des Parlementaires", Types: []string{place.TypeRoute}},
		{LongName: "Québec", ShortName: "Québec", Types: []string{place.TypeLocality}},
		{LongName: "Communauté-Urbaine-de-Québec", ShortName: "Communauté-Urbaine-de-Québec", Types: []string{place.TypeAdminAreaLevel2}},
		{LongName: "Québec", ShortName: "QC", Types: []string{place.TypeAdminAreaLevel1}},
		{LongName: "Canada", ShortName: "CA", Types: []string{place.TypeCountry}},
		{LongName: "G1A 1A3", ShortName: "G1A 1A3", Types: []string{place.TypePostalCode}},
	}
	if diff := cmp.Diff(want, got.Components); diff != "" {
		t.Fatalf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_NoMatch(t *testing.T) {
	provider := New(WithGeocoder(&fakeCoder{}))

	results, err := provider.Geocode(context.Background(), "nowhere")
	if err != nil || len(results) != 0 {
		t.Fatalf("expected empty result, got %v %v", results, err)
	}
	results, err = provider.Reverse(context.Background(), place.LatLng{})
	if err != nil || len(results) != 0 {
		t.Fatalf("expected empty reverse result, got %v %v", results, err)
	}
}

func TestProvider_Errors(t *testing.T) {
	provider := New(WithGeocoder(&fakeCoder{err: errors.New("boom")}))
	if _, err := provider.Reverse(context.Background(), place.LatLng{Lat: 1, Lng: 1}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProvider_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	provider := New(WithGeocoder(&fakeCoder{block: block}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := provider.Geocode(ctx, "slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
