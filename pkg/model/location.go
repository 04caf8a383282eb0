package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is the record edited by the widget. Coordinates are nil until a
// selection resolves.
type Location struct {
	Address         string   `json:"address,omitempty"`
	Name            string   `json:"name,omitempty"`
	StreetNumber    string   `json:"streetNumber,omitempty"`
	Route           string   `json:"route,omitempty"`
	Locality        string   `json:"locality,omitempty"`
	AdminAreaLevel2 string   `json:"adminAreaLevel2,omitempty"`
	AdminAreaLevel1 string   `json:"adminAreaLevel1,omitempty"`
	Country         string   `json:"country,omitempty"`
	PostalCode      string   `json:"postalCode,omitempty"`
	PlusCode        string   `json:"plusCode,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,latitude_range"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,longitude_range"`
}

// LocationFromValues builds a Location from field values. Blank coordinates
// stay nil; malformed coordinates are an error.
func LocationFromValues(values map[Field]string) (Location, error) {
	loc := Location{
		Address:         strings.TrimSpace(values[FieldAddress]),
		Name:            strings.TrimSpace(values[FieldName]),
		StreetNumber:    strings.TrimSpace(values[FieldStreetNumber]),
		Route:           strings.TrimSpace(values[FieldRoute]),
		Locality:        strings.TrimSpace(values[FieldLocality]),
		AdminAreaLevel2: strings.TrimSpace(values[FieldAdminAreaLevel2]),
		AdminAreaLevel1: strings.TrimSpace(values[FieldAdminAreaLevel1]),
		Country:         strings.TrimSpace(values[FieldCountry]),
		PostalCode:      strings.TrimSpace(values[FieldPostalCode]),
		PlusCode:        strings.TrimSpace(values[FieldPlusCode]),
	}

	var err error
	if loc.Latitude, err = parseCoordinate(values[FieldLatitude]); err != nil {
		return Location{}, fmt.Errorf("model: latitude: %w", err)
	}
	if loc.Longitude, err = parseCoordinate(values[FieldLongitude]); err != nil {
		return Location{}, fmt.Errorf("model: longitude: %w", err)
	}
	return loc, nil
}

func parseCoordinate(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Values renders the record back into field values. Empty fields are omitted.
func (l Location) Values() map[Field]string {
	out := map[Field]string{}
	set := func(field Field, value string) {
		if value != "" {
			out[field] = value
		}
	}
	set(FieldAddress, l.Address)
	set(FieldName, l.Name)
	set(FieldStreetNumber, l.StreetNumber)
	set(FieldRoute, l.Route)
	set(FieldLocality, l.Locality)
	set(FieldAdminAreaLevel2, l.AdminAreaLevel2)
	set(FieldAdminAreaLevel1, l.AdminAreaLevel1)
	set(FieldCountry, l.Country)
	set(FieldPostalCode, l.PostalCode)
	set(FieldPlusCode, l.PlusCode)
	if l.Latitude != nil {
		out[FieldLatitude] = FormatCoordinate(*l.Latitude)
	}
	if l.Longitude != nil {
		out[FieldLongitude] = FormatCoordinate(*l.Longitude)
	}
	return out
}

// FormatCoordinate renders a coordinate in its shortest exact decimal form.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
