// Package static serves geocoding results from a fixed catalog of places
// loaded from YAML or JSON. It backs offline development and tests.
package static

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/place"
)

const (
	name = "static"

	earthRadiusMeters = 6371000.0
	// DefaultMaxDistance bounds reverse lookups in meters.
	DefaultMaxDistance = 250.0
	defaultSuggestions = 5
)

// Catalog is the on-disk document shape.
type Catalog struct {
	Places []place.Place `json:"places" yaml:"places"`
}

// Option configures the provider.
type Option func(*Provider)

// WithMaxDistance sets the reverse lookup radius in meters.
func WithMaxDistance(meters float64) Option {
	return func(p *Provider) {
		if meters > 0 {
			p.maxDistance = meters
		}
	}
}

// WithSuggestionLimit caps autocomplete results.
func WithSuggestionLimit(limit int) Option {
	return func(p *Provider) {
		if limit > 0 {
			p.limit = limit
		}
	}
}

// Provider answers lookups from memory.
type Provider struct {
	places      []place.Place
	maxDistance float64
	limit       int
}

var (
	_ geocode.Geocoder      = (*Provider)(nil)
	_ geocode.Autocompleter = (*Provider)(nil)
)

// New builds a provider over places.
func New(places []place.Place, options ...Option) *Provider {
	p := &Provider{
		places:      append([]place.Place(nil), places...),
		maxDistance: DefaultMaxDistance,
		limit:       defaultSuggestions,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse decodes a catalog, trying JSON first and YAML second.
func Parse(data []byte) ([]place.Place, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err == nil {
		return catalog.Places, nil
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("static: parse catalog: %w", err)
	}
	return catalog.Places, nil
}

// LoadFS reads every .json, .yaml and .yml catalog under root.
func LoadFS(fsys fs.FS, root string, options ...Option) (*Provider, error) {
	if fsys == nil {
		return nil, errors.New("static: filesystem is nil")
	}
	if root == "" {
		root = "."
	}

	var places []place.Place
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCatalogFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("static: read %s: %w", path, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		places = append(places, parsed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(places, options...), nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (p *Provider) Name() string {
	return name
}

// Geocode returns every place whose formatted address or name contains all
// words of query, case-insensitively.
func (p *Provider) Geocode(ctx context.Context, query string) ([]place.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}
	var out []place.Place
	for _, candidate := range p.places {
		if matches(candidate, terms) {
			out = append(out, candidate)
		}
	}
	return out, nil
}

// Reverse returns the catalog place nearest to at within the max distance.
func (p *Provider) Reverse(ctx context.Context, at place.LatLng) ([]place.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	best := -1
	bestDistance := math.MaxFloat64
	for i, candidate := range p.places {
		center, ok := candidate.Geometry.Center()
		if !ok {
			continue
		}
		if d := Distance(at, center); d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best < 0 || bestDistance > p.maxDistance {
		return nil, nil
	}
	return []place.Place{p.places[best]}, nil
}

func (p *Provider) Autocomplete(ctx context.Context, req geocode.AutocompleteRequest) ([]geocode.Suggestion, error) {
	matchesFound, err := p.Geocode(ctx, req.Input)
	if err != nil {
		return nil, err
	}
	if req.Near != nil {
		near := *req.Near
		sort.SliceStable(matchesFound, func(i, j int) bool {
			ci, _ := matchesFound[i].Geometry.Center()
			cj, _ := matchesFound[j].Geometry.Center()
			return Distance(near, ci) < Distance(near, cj)
		})
	}

	out := make([]geocode.Suggestion, 0, min(len(matchesFound), p.limit))
	for _, candidate := range matchesFound {
		if len(out) == p.limit {
			break
		}
		if candidate.PlaceID == "" || !inCountries(candidate, req.Countries) {
			continue
		}
		main, secondary := splitDescription(candidate)
		out = append(out, geocode.Suggestion{
			PlaceID:       candidate.PlaceID,
			Description:   candidate.FormattedAddress,
			MainText:      main,
			SecondaryText: secondary,
		})
	}
	return out, nil
}

func (p *Provider) PlaceDetails(ctx context.Context, placeID, _ string) (place.Place, error) {
	if err := ctx.Err(); err != nil {
		return place.Place{}, err
	}
	placeID = strings.TrimSpace(placeID)
	for _, candidate := range p.places {
		if placeID != "" && candidate.PlaceID == placeID {
			return candidate, nil
		}
	}
	return place.Place{}, fmt.Errorf("static: place %q: %w", placeID, geocode.ErrNotFound)
}

func matches(candidate place.Place, terms []string) bool {
	haystack := strings.ToLower(candidate.FormattedAddress + " " + candidate.Name)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func inCountries(candidate place.Place, countries []string) bool {
	if len(countries) == 0 {
		return true
	}
	country, ok := candidate.Component(place.TypeCountry)
	if !ok {
		return false
	}
	for _, code := range countries {
		if strings.EqualFold(strings.TrimSpace(code), country.ShortName) {
			return true
		}
	}
	return false
}

func splitDescription(candidate place.Place) (string, string) {
	main, secondary, found := strings.Cut(candidate.FormattedAddress, ", ")
	if candidate.Name != "" {
		return candidate.Name, candidate.FormattedAddress
	}
	if !found {
		return candidate.FormattedAddress, ""
	}
	return main, secondary
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b place.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
