package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/place"
)

// componentFields maps address component type tags to the field they fill.
var componentFields = map[string]model.Field{
	place.TypePlusCode:        model.FieldPlusCode,
	place.TypeStreetNumber:    model.FieldStreetNumber,
	place.TypeRoute:           model.FieldRoute,
	place.TypeLocality:        model.FieldLocality,
	place.TypeAdminAreaLevel2: model.FieldAdminAreaLevel2,
	place.TypeAdminAreaLevel1: model.FieldAdminAreaLevel1,
	place.TypeCountry:         model.FieldCountry,
	place.TypePostalCode:      model.FieldPostalCode,
}

// Option configures a Selector.
type Option func(*Selector)

// WithMap sets the map view. Without one, map calls are dropped.
func WithMap(view Map) Option {
	return func(s *Selector) {
		if view != nil {
			s.view = view
		}
	}
}

// WithMarkers sets the marker factory. Without one, no marker is drawn.
func WithMarkers(markers MarkerFactory) Option {
	return func(s *Selector) {
		s.markers = markers
	}
}

// WithGeocoder sets the geocoder used by the click, drag and address pathways.
func WithGeocoder(geocoder geocode.Geocoder) Option {
	return func(s *Selector) {
		s.geocoder = geocoder
	}
}

// WithAutocompleter sets the service resolving autocomplete suggestions.
func WithAutocompleter(autocompleter geocode.Autocompleter) Option {
	return func(s *Selector) {
		s.autocompleter = autocompleter
	}
}

// WithLogger sets the logger for listener failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Selector holds the state of one widget instance.
type Selector struct {
	cfg           Config
	form          Form
	view          Map
	markers       MarkerFactory
	geocoder      geocode.Geocoder
	autocompleter geocode.Autocompleter
	logger        *slog.Logger

	mu     sync.Mutex
	marker Marker
	issued uint64
}

// New builds a selector over form using cfg.
func New(cfg Config, form Form, options ...Option) (*Selector, error) {
	if form == nil {
		return nil, errors.New("selector: form is required")
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Selector{
		cfg:    cfg,
		form:   form,
		view:   nopMap{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Config returns the configuration the selector was built with.
func (s *Selector) Config() Config {
	return s.cfg
}

// Init centers the map on the default coordinate. When the bound latitude and
// longitude inputs both hold values, it centers there instead, places a
// marker and rewrites the coordinates. It reports whether a marker position
// was restored from the form.
func (s *Selector) Init(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.SetCenter(s.cfg.DefaultCenter)
	s.view.SetZoom(s.cfg.DefaultZoom)

	lat := strings.TrimSpace(s.form.Value(s.cfg.Selector(model.FieldLatitude)))
	lng := strings.TrimSpace(s.form.Value(s.cfg.Selector(model.FieldLongitude)))
	if lat == "" || lng == "" {
		return false, nil
	}
	at, err := place.ParseLatLng(lat, lng)
	if err != nil {
		s.logger.Warn("selector: ignoring stored coordinates", "lat", lat, "lng", lng, "error", err)
		return false, nil
	}

	s.view.SetCenter(at)
	s.createMarkerLocked(at)
	s.writeCoordinatesLocked(at)
	return true, nil
}

// ApplySelection writes item into the bound inputs, re-centers the map and
// replaces the marker. Items without geometry are ignored and leave every
// field untouched.
func (s *Selector) ApplySelection(item place.Place) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.applyLocked(item)
}

// OnPlaceChanged handles the autocomplete pathway.
func (s *Selector) OnPlaceChanged(ctx context.Context, item place.Place) bool {
	if ctx.Err() != nil {
		return false
	}
	return s.ApplySelection(item)
}

// SelectSuggestion resolves an autocomplete suggestion and applies it.
func (s *Selector) SelectSuggestion(ctx context.Context, placeID, sessionToken string) (bool, error) {
	if s.autocompleter == nil {
		return false, geocode.ErrUnsupported
	}
	seq := s.begin()

	item, err := s.autocompleter.PlaceDetails(ctx, placeID, sessionToken)
	if err != nil {
		return false, fmt.Errorf("selector: place details %q: %w", placeID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commitLocked(seq) {
		return false, nil
	}
	if item.FormattedAddress != "" && item.HasGeometry() {
		s.writeLocked(model.FieldAddress, item.FormattedAddress)
	}
	return s.applyLocked(item), nil
}

// GeocodeAddress forward geocodes query and applies the first result. The
// address input itself is left as typed.
func (s *Selector) GeocodeAddress(ctx context.Context, query string) (bool, error) {
	if s.geocoder == nil {
		return false, geocode.ErrUnsupported
	}
	seq := s.begin()

	results, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return false, fmt.Errorf("selector: geocode %q: %w", query, err)
	}
	first, ok := geocode.First(results)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commitLocked(seq) {
		return false, nil
	}
	return s.applyLocked(first), nil
}

// OnMapClick handles the map-click pathway. It is ignored unless the widget
// is draggable. The marker moves to the clicked point before the reverse
// geocode resolves.
func (s *Selector) OnMapClick(ctx context.Context, at place.LatLng) (bool, error) {
	if !s.cfg.Draggable {
		return false, nil
	}

	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.createMarkerLocked(at)
	s.mu.Unlock()

	return s.reverse(ctx, seq, at)
}

// OnMarkerDragEnd handles the marker-drag pathway.
func (s *Selector) OnMarkerDragEnd(ctx context.Context, at place.LatLng) (bool, error) {
	if !s.cfg.Draggable {
		return false, nil
	}
	return s.reverse(ctx, s.begin(), at)
}

// AfterValidateAttribute is the validation hook for the host form. For the
// address input, when neither coordinate holds a value and no other message
// exists, it appends the "address not found" message and reports that
// submission must be prevented.
func (s *Selector) AfterValidateAttribute(attribute string, messages []string) ([]string, bool) {
	if !s.isAddressInput(attribute) {
		return messages, false
	}
	if len(messages) > 0 {
		return messages, false
	}

	lat := strings.TrimSpace(s.form.Value(s.cfg.Selector(model.FieldLatitude)))
	lng := strings.TrimSpace(s.form.Value(s.cfg.Selector(model.FieldLongitude)))
	if lat != "" || lng != "" {
		return messages, false
	}
	return append(messages, s.cfg.AddressNotFound), true
}

// MarkerPosition returns the current marker position, if any.
func (s *Selector) MarkerPosition() (place.LatLng, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marker == nil {
		return place.LatLng{}, false
	}
	return s.marker.Position(), true
}

func (s *Selector) reverse(ctx context.Context, seq uint64, at place.LatLng) (bool, error) {
	if s.geocoder == nil {
		return false, geocode.ErrUnsupported
	}
	results, err := s.geocoder.Reverse(ctx, at)
	if err != nil {
		return false, fmt.Errorf("selector: reverse geocode %s: %w", at, err)
	}
	first, ok := geocode.First(results)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commitLocked(seq) {
		s.logger.Debug("selector: dropping stale reverse geocode", "seq", seq, "latest", s.issued)
		return false, nil
	}
	if first.FormattedAddress != "" {
		s.writeLocked(model.FieldAddress, first.FormattedAddress)
	}
	return s.applyLocked(first), nil
}

func (s *Selector) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// commitLocked reports whether seq is still the latest issued interaction.
// A newer interaction supersedes seq even when its own lookup came back
// empty or failed.
func (s *Selector) commitLocked(seq uint64) bool {
	return seq == s.issued
}

func (s *Selector) applyLocked(item place.Place) bool {
	center, ok := item.Geometry.Center()
	if !ok {
		return false
	}

	s.writeComponentsLocked(item)

	if area := item.Geometry.Area(); area != nil {
		s.view.FitBounds(*area)
	}
	s.view.SetCenter(center)
	s.createMarkerLocked(center)
	s.writeCoordinatesLocked(center)
	return true
}

func (s *Selector) writeComponentsLocked(item place.Place) {
	if item.Name != "" {
		s.writeLocked(model.FieldName, item.Name)
	}

	var streetOrRoute, plusCode bool
	for _, component := range item.Components {
		for _, typ := range component.Types {
			field, ok := componentFields[typ]
			if !ok {
				continue
			}
			switch field {
			case model.FieldStreetNumber, model.FieldRoute:
				streetOrRoute = true
			case model.FieldPlusCode:
				plusCode = true
			}
			s.writeLocked(field, component.LongName)
		}
	}

	if item.PlusCode != "" && !plusCode && !streetOrRoute {
		s.writeLocked(model.FieldPlusCode, item.PlusCode)
	}
}

func (s *Selector) writeCoordinatesLocked(at place.LatLng) {
	s.writeLocked(model.FieldLatitude, model.FormatCoordinate(at.Lat))
	s.writeLocked(model.FieldLongitude, model.FormatCoordinate(at.Lng))
}

func (s *Selector) writeLocked(field model.Field, value string) {
	selector := s.cfg.Selector(field)
	if selector == "" {
		return
	}
	s.form.SetValue(selector, value)
	s.form.TriggerChange(selector)
}

// createMarkerLocked replaces the current marker. The previous one is
// removed first so at most one marker exists.
func (s *Selector) createMarkerLocked(at place.LatLng) {
	if s.marker != nil {
		s.marker.Remove()
		s.marker = nil
	}
	if s.cfg.HideMarker || s.markers == nil {
		return
	}

	marker := s.markers.NewMarker(at, s.cfg.Draggable)
	if marker == nil {
		return
	}
	if s.cfg.Draggable {
		marker.OnDragEnd(func(ctx context.Context, at place.LatLng) {
			if _, err := s.OnMarkerDragEnd(ctx, at); err != nil {
				s.logger.Warn("selector: marker drag", "error", err)
			}
		})
	}
	s.marker = marker
}

func (s *Selector) isAddressInput(attribute string) bool {
	attribute = strings.TrimPrefix(strings.TrimSpace(attribute), "#")
	address := strings.TrimPrefix(s.cfg.Selector(model.FieldAddress), "#")
	return attribute != "" && attribute == address
}

type nopMap struct{}

func (nopMap) SetCenter(place.LatLng) {}
func (nopMap) SetZoom(int) {}
func (nopMap) FitBounds(place.Bounds) {}
