package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/place"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

const typedAddressOption = "Use the address as typed"

// Picker runs the location selector in a terminal: the user types an
// address, optionally picks an autocomplete suggestion and adjusts the pin by
// entering coordinates.
type Picker struct {
	driver       Driver
	geocoder     geocode.Geocoder
	format       OutputFormat
	sessionToken func() string
	logger       *slog.Logger
}

// Result is a picked location together with the bound form values.
type Result struct {
	Location model.Location
	Values   map[model.Field]string
	Bindings model.Bindings
}

// New constructs a Picker. Without WithDriver it prompts through survey.
func New(options ...Option) (*Picker, error) {
	p := &Picker{
		format:       OutputFormatJSON,
		sessionToken: newSessionToken,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.driver == nil {
		p.driver = NewSurveyDriver(nil)
	}
	if p.geocoder == nil {
		return nil, errors.New("prompt: geocoder is required")
	}
	return p, nil
}

// Pick prompts until a location with coordinates is selected or the user
// gives up. Bound values seed the prompts.
func (p *Picker) Pick(ctx context.Context, bindings model.Bindings, cfg selector.Config) (Result, error) {
	form := selector.NewMemoryFormFromBindings(bindings)
	options := []selector.Option{
		selector.WithGeocoder(p.geocoder),
		selector.WithMarkers(&selector.RecordingMarkers{}),
		selector.WithLogger(p.logger),
	}
	ac, hasAutocomplete := p.autocompleter()
	if hasAutocomplete {
		options = append(options, selector.WithAutocompleter(ac))
	}
	sel, err := selector.New(cfg, form, options...)
	if err != nil {
		return Result{}, fmt.Errorf("prompt: %w", err)
	}
	cfg = sel.Config()

	if restored, err := sel.Init(ctx); err != nil {
		return Result{}, err
	} else if restored {
		if err := p.driver.Info(ctx, "Restored pin at "+pinLabel(sel)); err != nil {
			return Result{}, err
		}
	}

	addressSelector := cfg.Selector(model.FieldAddress)
	for {
		address, err := p.driver.Input(ctx, InputConfig{
			Message:   "Address",
			Default:   form.Value(addressSelector),
			Validator: requireText,
		})
		if err != nil {
			return Result{}, err
		}
		address = strings.TrimSpace(address)
		form.SetValue(addressSelector, address)

		if err := p.resolve(ctx, sel, ac, hasAutocomplete, address); err != nil {
			return Result{}, err
		}

		messages, prevent := sel.AfterValidateAttribute(addressSelector, nil)
		if !prevent {
			break
		}
		if err := p.driver.Info(ctx, strings.Join(messages, "; ")); err != nil {
			return Result{}, err
		}
		retry, err := p.driver.Confirm(ctx, ConfirmConfig{Message: "Try another address?", Default: true})
		if err != nil {
			return Result{}, err
		}
		if !retry {
			return Result{}, ErrNoLocation
		}
	}

	if err := p.driver.Info(ctx, "Pin at "+pinLabel(sel)); err != nil {
		return Result{}, err
	}
	if cfg.Draggable {
		if err := p.adjust(ctx, sel); err != nil {
			return Result{}, err
		}
	}

	values := form.FieldValues(cfg)
	loc, err := model.LocationFromValues(values)
	if err != nil {
		return Result{}, fmt.Errorf("prompt: %w", err)
	}
	return Result{Location: loc, Values: values, Bindings: bindings}, nil
}

// Locate forward geocodes address without prompting and returns the first
// match. It fails with ErrNoLocation when nothing matches.
func (p *Picker) Locate(ctx context.Context, bindings model.Bindings, cfg selector.Config, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, fmt.Errorf("prompt: address is required: %w", ErrNoLocation)
	}
	form := selector.NewMemoryFormFromBindings(bindings)
	sel, err := selector.New(cfg, form, selector.WithGeocoder(p.geocoder), selector.WithLogger(p.logger))
	if err != nil {
		return Result{}, fmt.Errorf("prompt: %w", err)
	}
	cfg = sel.Config()

	addressSelector := cfg.Selector(model.FieldAddress)
	form.SetValue(addressSelector, address)
	form.SetValue(cfg.Selector(model.FieldLatitude), "")
	form.SetValue(cfg.Selector(model.FieldLongitude), "")
	if _, err := sel.GeocodeAddress(ctx, address); err != nil && !errors.Is(err, geocode.ErrNotFound) {
		return Result{}, err
	}
	if messages, prevent := sel.AfterValidateAttribute(addressSelector, nil); prevent {
		return Result{}, fmt.Errorf("prompt: %s: %w", strings.Join(messages, "; "), ErrNoLocation)
	}

	values := form.FieldValues(cfg)
	loc, err := model.LocationFromValues(values)
	if err != nil {
		return Result{}, fmt.Errorf("prompt: %w", err)
	}
	return Result{Location: loc, Values: values, Bindings: bindings}, nil
}

// resolve applies a suggestion when the geocoder offers autocomplete, else
// forward geocodes the typed address.
func (p *Picker) resolve(ctx context.Context, sel *selector.Selector, ac geocode.Autocompleter, hasAutocomplete bool, address string) error {
	if hasAutocomplete {
		token := p.sessionToken()
		suggestions, err := ac.Autocomplete(ctx, geocode.AutocompleteRequest{Input: address, SessionToken: token})
		if err != nil && !errors.Is(err, geocode.ErrUnsupported) {
			return fmt.Errorf("prompt: autocomplete: %w", err)
		}
		if len(suggestions) > 0 {
			labels := make([]string, 0, len(suggestions)+1)
			for _, suggestion := range suggestions {
				labels = append(labels, suggestion.Description)
			}
			labels = append(labels, typedAddressOption)

			idx, err := p.driver.Select(ctx, SelectConfig{Message: "Pick a place", Options: labels, PageSize: 10})
			if err != nil {
				return err
			}
			if idx >= 0 && idx < len(suggestions) {
				if _, err := sel.SelectSuggestion(ctx, suggestions[idx].PlaceID, token); err != nil && !errors.Is(err, geocode.ErrNotFound) {
					return err
				}
				return nil
			}
		}
	}

	if _, err := sel.GeocodeAddress(ctx, address); err != nil && !errors.Is(err, geocode.ErrNotFound) {
		return err
	}
	return nil
}

func (p *Picker) adjust(ctx context.Context, sel *selector.Selector) error {
	for {
		move, err := p.driver.Confirm(ctx, ConfirmConfig{Message: "Move the pin?"})
		if err != nil || !move {
			return err
		}
		raw, err := p.driver.Input(ctx, InputConfig{
			Message:   "Coordinates (lat,lng)",
			Validator: validCoordinates,
		})
		if err != nil {
			return err
		}
		at, err := parseCoordinates(raw)
		if err != nil {
			return err
		}
		if _, err := sel.OnMarkerDragEnd(ctx, at); err != nil {
			return err
		}
		if err := p.driver.Info(ctx, "Pin at "+pinLabel(sel)); err != nil {
			return err
		}
	}
}

func (p *Picker) autocompleter() (geocode.Autocompleter, bool) {
	if !geocode.SupportsAutocomplete(p.geocoder) {
		return nil, false
	}
	ac, ok := p.geocoder.(geocode.Autocompleter)
	return ac, ok
}

// Encode serializes res in the picker's output format.
func (p *Picker) Encode(res Result) ([]byte, error) {
	return Encode(res, p.format)
}

// Encode serializes res in format.
func Encode(res Result, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, binding := range res.Bindings {
			if value := res.Values[binding.Field]; value != "" {
				form.Set(binding.InputName, value)
			}
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range model.AllFields() {
			if value := res.Values[field]; value != "" {
				fmt.Fprintf(&b, "%s: %s\n", field, value)
			}
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		return json.MarshalIndent(res.Location, "", "  ")
	default:
		return nil, fmt.Errorf("prompt: unknown output format %q", format)
	}
}

func pinLabel(sel *selector.Selector) string {
	at, ok := sel.MarkerPosition()
	if !ok {
		return "(none)"
	}
	return at.String()
}

func requireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("value is required")
	}
	return nil
}

func validCoordinates(value string) error {
	_, err := parseCoordinates(value)
	return err
}

func parseCoordinates(raw string) (place.LatLng, error) {
	lat, lng, ok := strings.Cut(raw, ",")
	if !ok {
		return place.LatLng{}, errors.New("expected lat,lng")
	}
	return place.ParseLatLng(lat, lng)
}
