// Package google implements geocode.Geocoder and geocode.Autocompleter on top
// of the Google Maps web services client.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"googlemaps.github.io/maps"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/place"
)

const name = "google"

var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskAddressComponent,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskPlaceID,
}

// Option configures the provider.
type Option func(*config)

type config struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  int
	lang       language.Tag
	region     string
}

// WithBaseURL points the client at another host, used by tests.
func WithBaseURL(url string) Option {
	return func(cfg *config) {
		cfg.baseURL = strings.TrimSpace(url)
	}
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = client
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(requestsPerSecond int) Option {
	return func(cfg *config) {
		cfg.rateLimit = requestsPerSecond
	}
}

// WithLanguage sets the result language.
func WithLanguage(tag language.Tag) Option {
	return func(cfg *config) {
		cfg.lang = tag
	}
}

// WithRegion biases forward geocoding to a ccTLD region code.
func WithRegion(region string) Option {
	return func(cfg *config) {
		cfg.region = strings.ToLower(strings.TrimSpace(region))
	}
}

// Provider talks to the Geocoding and Places APIs.
type Provider struct {
	client *maps.Client
	lang   language.Tag
	region string
}

var (
	_ geocode.Geocoder      = (*Provider)(nil)
	_ geocode.Autocompleter = (*Provider)(nil)
)

// New builds a provider for apiKey.
func New(apiKey string, options ...Option) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google: api key is required")
	}
	cfg := &config{lang: language.Und}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(cfg.httpClient))
	}
	if cfg.rateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(cfg.rateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("google: create maps client: %w", err)
	}
	return &Provider{client: client, lang: cfg.lang, region: cfg.region}, nil
}

func (p *Provider) Name() string {
	return name
}

func (p *Provider) Geocode(ctx context.Context, query string) ([]place.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  query,
		Region:   p.region,
		Language: p.language(""),
	})
	if err != nil {
		return nil, fmt.Errorf("google: geocode %q: %w", query, err)
	}
	return convertResults(results), nil
}

func (p *Provider) Reverse(ctx context.Context, at place.LatLng) ([]place.Place, error) {
	results, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: at.Lat, Lng: at.Lng},
		Language: p.language(""),
	})
	if err != nil {
		return nil, fmt.Errorf("google: reverse geocode %s: %w", at, err)
	}
	return convertResults(results), nil
}

func (p *Provider) Autocomplete(ctx context.Context, req geocode.AutocompleteRequest) ([]geocode.Suggestion, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, nil
	}
	token, err := sessionToken(req.SessionToken)
	if err != nil {
		return nil, err
	}

	request := &maps.PlaceAutocompleteRequest{
		Input:        input,
		Language:     p.language(req.Language),
		SessionToken: token,
		Radius:       req.RadiusMeters,
	}
	if req.Near != nil {
		request.Location = &maps.LatLng{Lat: req.Near.Lat, Lng: req.Near.Lng}
	}
	if len(req.Countries) > 0 {
		countries := make([]string, 0, len(req.Countries))
		for _, c := range req.Countries {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				countries = append(countries, c)
			}
		}
		request.Components = map[maps.Component][]string{maps.ComponentCountry: countries}
	}

	resp, err := p.client.PlaceAutocomplete(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("google: autocomplete %q: %w", input, err)
	}

	out := make([]geocode.Suggestion, 0, len(resp.Predictions))
	for _, prediction := range resp.Predictions {
		out = append(out, geocode.Suggestion{
			PlaceID:       prediction.PlaceID,
			Description:   prediction.Description,
			MainText:      prediction.StructuredFormatting.MainText,
			SecondaryText: prediction.StructuredFormatting.SecondaryText,
			Types:         append([]string(nil), prediction.Types...),
		})
	}
	return out, nil
}

func (p *Provider) PlaceDetails(ctx context.Context, placeID, session string) (place.Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return place.Place{}, geocode.ErrNotFound
	}
	token, err := sessionToken(session)
	if err != nil {
		return place.Place{}, err
	}

	result, err := p.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:      placeID,
		Language:     p.language(""),
		Fields:       detailFields,
		SessionToken: token,
	})
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") {
			return place.Place{}, fmt.Errorf("google: place %q: %w", placeID, geocode.ErrNotFound)
		}
		return place.Place{}, fmt.Errorf("google: place details %q: %w", placeID, err)
	}

	return place.Place{
		FormattedAddress: result.FormattedAddress,
		Name:             result.Name,
		PlaceID:          result.PlaceID,
		Components:       convertComponents(result.AddressComponents),
		Geometry:         convertGeometry(result.Geometry),
	}, nil
}

func (p *Provider) language(override string) string {
	if override = strings.TrimSpace(override); override != "" {
		if tag, err := language.Parse(override); err == nil {
			return tag.String()
		}
	}
	if p.lang == language.Und {
		return ""
	}
	return p.lang.String()
}

// sessionToken parses a client supplied session token. An empty token means no
// session billing.
func sessionToken(raw string) (maps.PlaceAutocompleteSessionToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return maps.PlaceAutocompleteSessionToken{}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return maps.PlaceAutocompleteSessionToken{}, fmt.Errorf("google: invalid session token: %w", err)
	}
	return maps.PlaceAutocompleteSessionToken(id), nil
}

// NewSessionToken returns a fresh autocomplete session token string.
func NewSessionToken() string {
	return uuid.UUID(maps.NewPlaceAutocompleteSessionToken()).String()
}

func convertResults(results []maps.GeocodingResult) []place.Place {
	if len(results) == 0 {
		return nil
	}
	out := make([]place.Place, 0, len(results))
	for _, result := range results {
		out = append(out, place.Place{
			FormattedAddress: result.FormattedAddress,
			PlaceID:          result.PlaceID,
			PlusCode:         result.PlusCode.GlobalCode,
			Components:       convertComponents(result.AddressComponents),
			Geometry:         convertGeometry(result.Geometry),
		})
	}
	return out
}

func convertComponents(components []maps.AddressComponent) []place.Component {
	if len(components) == 0 {
		return nil
	}
	out := make([]place.Component, 0, len(components))
	for _, component := range components {
		out = append(out, place.Component{
			LongName:  component.LongName,
			ShortName: component.ShortName,
			Types:     append([]string(nil), component.Types...),
		})
	}
	return out
}

func convertGeometry(geom maps.AddressGeometry) *place.Geometry {
	out := &place.Geometry{}
	if geom.Location != (maps.LatLng{}) {
		out.Location = &place.LatLng{Lat: geom.Location.Lat, Lng: geom.Location.Lng}
	}
	out.Viewport = convertBounds(geom.Viewport)
	out.Bounds = convertBounds(geom.Bounds)
	if out.Location == nil && out.Viewport == nil && out.Bounds == nil {
		return nil
	}
	return out
}

func convertBounds(b maps.LatLngBounds) *place.Bounds {
	if b.NorthEast == (maps.LatLng{}) && b.SouthWest == (maps.LatLng{}) {
		return nil
	}
	return &place.Bounds{
		NorthEast: place.LatLng{Lat: b.NorthEast.Lat, Lng: b.NorthEast.Lng},
		SouthWest: place.LatLng{Lat: b.SouthWest.Lat, Lng: b.SouthWest.Lng},
	}
}
