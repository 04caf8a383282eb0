package place

import (
	"fmt"
	"strconv"
	"strings"
)

// Address component type tags as reported by the geocoding services.
const (
	TypePlusCode        = "plus_code"
	TypeStreetNumber    = "street_number"
	TypeRoute           = "route"
	TypeLocality        = "locality"
	TypeAdminAreaLevel2 = "administrative_area_level_2"
	TypeAdminAreaLevel1 = "administrative_area_level_1"
	TypeCountry         = "country"
	TypePostalCode      = "postal_code"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// String renders the pair as "lat,lng" using the shortest exact float form.
func (p LatLng) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// Valid reports whether the pair lies within the WGS84 ranges.
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// ParseLatLng parses two decimal strings into a coordinate pair.
func ParseLatLng(lat, lng string) (LatLng, error) {
	latValue, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("place: parse latitude %q: %w", lat, err)
	}
	lngValue, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("place: parse longitude %q: %w", lng, err)
	}
	point := LatLng{Lat: latValue, Lng: lngValue}
	if !point.Valid() {
		return LatLng{}, fmt.Errorf("place: coordinate %s out of range", point)
	}
	return point, nil
}

// Bounds is a rectangle described by its north-east and south-west corners.
type Bounds struct {
	NorthEast LatLng `json:"northeast" yaml:"northeast"`
	SouthWest LatLng `json:"southwest" yaml:"southwest"`
}

// IsZero reports whether both corners are unset.
func (b Bounds) IsZero() bool {
	return b.NorthEast == (LatLng{}) && b.SouthWest == (LatLng{})
}

// Center returns the arithmetic midpoint of the two corners.
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: b.SouthWest.Lat + (b.NorthEast.Lat-b.SouthWest.Lat)/2,
		Lng: b.SouthWest.Lng + (b.NorthEast.Lng-b.SouthWest.Lng)/2,
	}
}

// Geometry carries the optional point and areas attached to a place.
type Geometry struct {
	Location *LatLng `json:"location,omitempty" yaml:"location,omitempty"`
	Viewport *Bounds `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	Bounds   *Bounds `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// Area returns the viewport when present, otherwise the bounds.
func (g *Geometry) Area() *Bounds {
	if g == nil {
		return nil
	}
	if g.Viewport != nil && !g.Viewport.IsZero() {
		return g.Viewport
	}
	if g.Bounds != nil && !g.Bounds.IsZero() {
		return g.Bounds
	}
	return nil
}

// Center returns the point to display for the geometry: the location when
// present, else the midpoint of its area. ok is false when neither exists.
func (g *Geometry) Center() (LatLng, bool) {
	if g == nil {
		return LatLng{}, false
	}
	if g.Location != nil {
		return *g.Location, true
	}
	if area := g.Area(); area != nil {
		return area.Center(), true
	}
	return LatLng{}, false
}

// Component is one typed part of an address.
type Component struct {
	LongName  string   `json:"long_name" yaml:"long_name"`
	ShortName string   `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Types     []string `json:"types" yaml:"types"`
}

// HasType reports whether the component is tagged with typ.
func (c Component) HasType(typ string) bool {
	for _, candidate := range c.Types {
		if candidate == typ {
			return true
		}
	}
	return false
}

// Place is a geocoding, autocomplete, or map interaction result.
type Place struct {
	FormattedAddress string      `json:"formatted_address,omitempty" yaml:"formatted_address,omitempty"`
	Name             string      `json:"name,omitempty" yaml:"name,omitempty"`
	PlaceID          string      `json:"place_id,omitempty" yaml:"place_id,omitempty"`
	PlusCode         string      `json:"plus_code,omitempty" yaml:"plus_code,omitempty"`
	Components       []Component `json:"address_components,omitempty" yaml:"address_components,omitempty"`
	Geometry         *Geometry   `json:"geometry,omitempty" yaml:"geometry,omitempty"`
}

// HasGeometry reports whether the place can be positioned on a map.
func (p Place) HasGeometry() bool {
	_, ok := p.Geometry.Center()
	return ok
}

// Component returns the first component tagged with typ.
func (p Place) Component(typ string) (Component, bool) {
	for _, component := range p.Components {
		if component.HasType(typ) {
			return component, true
		}
	}
	return Component{}, false
}

// Point builds a place holding only a point geometry, as produced by a map
// click before reverse geocoding.
func Point(at LatLng) Place {
	location := at
	return Place{Geometry: &Geometry{Location: &location}}
}
