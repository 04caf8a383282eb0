package place

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoundsCenterIsArithmeticMidpoint(t *testing.T) {
	bounds := Bounds{
		NorthEast: LatLng{Lat: 10, Lng: 20},
		SouthWest: LatLng{Lat: 2, Lng: -4},
	}
	want := LatLng{Lat: 6, Lng: 8}
	if diff := cmp.Diff(want, bounds.Center()); diff != "" {
		t.Fatalf("center mismatch (-want +got):\n%s", diff)
	}
}

func TestGeometryCenterPrefersLocation(t *testing.T) {
	loc := LatLng{Lat: 1, Lng: 1}
	geom := &Geometry{
		Location: &loc,
		Viewport: &Bounds{NorthEast: LatLng{Lat: 4, Lng: 4}, SouthWest: LatLng{Lat: 2, Lng: 2}},
	}
	got, ok := geom.Center()
	if !ok {
		t.Fatalf("expected center")
	}
	if got != loc {
		t.Fatalf("expected location %v, got %v", loc, got)
	}
}

func TestGeometryCenterFallsBackToBounds(t *testing.T) {
	geom := &Geometry{
		Bounds: &Bounds{NorthEast: LatLng{Lat: 4, Lng: 6}, SouthWest: LatLng{Lat: 2, Lng: 2}},
	}
	got, ok := geom.Center()
	if !ok {
		t.Fatalf("expected center from bounds")
	}
	if got != (LatLng{Lat: 3, Lng: 4}) {
		t.Fatalf("unexpected center %v", got)
	}
}

func TestGeometryAreaPrefersViewport(t *testing.T) {
	viewport := &Bounds{NorthEast: LatLng{Lat: 1, Lng: 1}}
	bounds := &Bounds{NorthEast: LatLng{Lat: 2, Lng: 2}}
	geom := &Geometry{Viewport: viewport, Bounds: bounds}
	if geom.Area() != viewport {
		t.Fatalf("expected viewport to win")
	}
	geom.Viewport = &Bounds{}
	if geom.Area() != bounds {
		t.Fatalf("expected zero viewport to fall back to bounds")
	}
}

func TestPlaceHasGeometry(t *testing.T) {
	if (Place{}).HasGeometry() {
		t.Fatalf("place without geometry reported geometry")
	}
	if (Place{Geometry: &Geometry{}}).HasGeometry() {
		t.Fatalf("empty geometry reported as positionable")
	}
	if !Point(LatLng{Lat: 1, Lng: 2}).HasGeometry() {
		t.Fatalf("point place should have geometry")
	}
}

func TestParseLatLng(t *testing.T) {
	got, err := ParseLatLng(" 37.422 ", "-122.084")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != (LatLng{Lat: 37.422, Lng: -122.084}) {
		t.Fatalf("unexpected point %v", got)
	}
	if _, err := ParseLatLng("abc", "1"); err == nil {
		t.Fatalf("expected error for malformed latitude")
	}
	if _, err := ParseLatLng("91", "1"); err == nil {
		t.Fatalf("expected error for out of range latitude")
	}
}

func TestLatLngString(t *testing.T) {
	if got := (LatLng{Lat: 46.829853, Lng: -71.254028}).String(); got != "46.829853,-71.254028" {
		t.Fatalf("unexpected string %q", got)
	}
}
