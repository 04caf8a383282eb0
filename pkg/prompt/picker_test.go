package prompt

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/geocode/provider/static"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	selectOpts   [][]string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selectOpts = append(s.selectOpts, cfg.Options)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

// forwardOnly hides the provider's autocomplete support.
type forwardOnly struct {
	geocode.Geocoder
}

func loadProvider(t *testing.T) *static.Provider {
	t.Helper()
	provider, err := static.LoadFS(os.DirFS("testdata"), ".")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return provider
}

func storeBindings(t *testing.T, m model.Model) model.Bindings {
	t.Helper()
	bindings, err := model.Bind(m, model.Attributes{
		model.FieldAddress:      "address",
		model.FieldName:         "name",
		model.FieldStreetNumber: "street_number",
		model.FieldRoute:        "route",
		model.FieldLocality:     "city",
		model.FieldPostalCode:   "postal_code",
		model.FieldCountry:      "country",
		model.FieldPlusCode:     "plus_code",
		model.FieldLatitude:     "lat",
		model.FieldLongitude:    "lng",
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return bindings
}

func emptyStore() model.MapModel {
	return model.NewMapModel("Store", "address", "name", "street_number", "route", "city", "postal_code", "country", "plus_code", "lat", "lng")
}

func newPicker(t *testing.T, driver Driver, geocoder geocode.Geocoder, options ...Option) *Picker {
	t.Helper()
	options = append([]Option{
		WithDriver(driver),
		WithGeocoder(geocoder),
		WithSessionTokens(func() string { return "session-1" }),
	}, options...)
	picker, err := New(options...)
	if err != nil {
		t.Fatalf("new picker: %v", err)
	}
	return picker
}

func TestPickerSelectsSuggestion(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	driver := &stubDriver{inputs: []string{"mountain view"}, selectIdx: []int{1}}
	picker := newPicker(t, driver, loadProvider(t))

	res, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors()))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}

	wantOptions := []string{
		"1600 Amphitheatre Parkway, Mountain View, CA 94043, USA",
		"1401 N Shoreline Blvd, Mountain View, CA 94043, USA",
		typedAddressOption,
	}
	if diff := cmp.Diff(wantOptions, driver.selectOpts[0]); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}

	want := map[model.Field]string{
		model.FieldAddress:      "1401 N Shoreline Blvd, Mountain View, CA 94043, USA",
		model.FieldName:         "Computer History Museum",
		model.FieldStreetNumber: "1401",
		model.FieldRoute:        "North Shoreline Boulevard",
		model.FieldLocality:     "Mountain View",
		model.FieldCountry:      "United States",
		model.FieldPostalCode:   "94043",
		model.FieldLatitude:     "37.4143371",
		model.FieldLongitude:    "-122.0774936",
	}
	if diff := cmp.Diff(want, res.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !res.Location.HasCoordinates() || *res.Location.Latitude != 37.4143371 {
		t.Fatalf("unexpected location: %+v", res.Location)
	}
}

func TestPickerTypedAddressFallsBackToGeocode(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	driver := &stubDriver{inputs: []string{"amphitheatre parkway"}, selectIdx: []int{1}}
	picker := newPicker(t, driver, loadProvider(t))

	res, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors()))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got := res.Values[model.FieldAddress]; got != "amphitheatre parkway" {
		t.Fatalf("expected the typed address to be kept, got %q", got)
	}
	if got := res.Values[model.FieldLatitude]; got != "37.4224764" {
		t.Fatalf("expected latitude from geocode, got %q", got)
	}
}

func TestPickerWithoutAutocomplete(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	driver := &stubDriver{inputs: []string{"  shoreline  "}}
	picker := newPicker(t, driver, forwardOnly{loadProvider(t)})

	res, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors()))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if driver.selectPos != 0 {
		t.Fatalf("expected no suggestion prompt, got %d", driver.selectPos)
	}
	if got := res.Values[model.FieldAddress]; got != "shoreline" {
		t.Fatalf("expected trimmed address, got %q", got)
	}
	if got := res.Values[model.FieldStreetNumber]; got != "1401" {
		t.Fatalf("expected street number 1401, got %q", got)
	}
}

func TestPickerAddressNotFound(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	driver := &stubDriver{inputs: []string{"nowhere at all"}, confirm: []bool{false}}
	picker := newPicker(t, driver, forwardOnly{loadProvider(t)})

	_, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors()))
	if !errors.Is(err, ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}
	if len(driver.infoMessages) == 0 || driver.infoMessages[0] != selector.DefaultAddressNotFound {
		t.Fatalf("expected address not found message, got %v", driver.infoMessages)
	}
}

func TestPickerRetriesAfterMiss(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	driver := &stubDriver{inputs: []string{"nowhere", "1600 amphitheatre"}, confirm: []bool{true}}
	picker := newPicker(t, driver, forwardOnly{loadProvider(t)})

	res, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors()))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got := res.Values[model.FieldPlusCode]; got != "" {
		t.Fatalf("expected no plus code when a street is present, got %q", got)
	}
	if got := res.Values[model.FieldLongitude]; got != "-122.0842499" {
		t.Fatalf("unexpected longitude %q", got)
	}
}

func TestPickerAdjustsDraggablePin(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	cfg := selector.DefaultConfig(bindings.Selectors())
	cfg.Draggable = true

	driver := &stubDriver{
		inputs:    []string{"amphitheatre", "37.41434,-122.07749"},
		selectIdx: []int{0},
		confirm:   []bool{true, false},
	}
	picker := newPicker(t, driver, loadProvider(t))

	res, err := picker.Pick(context.Background(), bindings, cfg)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got := res.Values[model.FieldAddress]; got != "1401 N Shoreline Blvd, Mountain View, CA 94043, USA" {
		t.Fatalf("expected reverse geocoded address, got %q", got)
	}
	if got := res.Values[model.FieldLatitude]; got != "37.4143371" {
		t.Fatalf("unexpected latitude %q", got)
	}
	last := driver.infoMessages[len(driver.infoMessages)-1]
	if last != "Pin at 37.4143371,-122.0774936" {
		t.Fatalf("unexpected pin message %q", last)
	}
}

func TestPickerRestoresStoredCoordinates(t *testing.T) {
	m := emptyStore().With("lat", "37.4224764").With("lng", "-122.0842499").With("address", "Googleplex")
	bindings := storeBindings(t, m)
	driver := &stubDriver{inputs: []string{"nowhere"}}
	picker := newPicker(t, driver, forwardOnly{loadProvider(t)})

	res, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors()))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if driver.infoMessages[0] != "Restored pin at 37.4224764,-122.0842499" {
		t.Fatalf("unexpected messages %v", driver.infoMessages)
	}
	if got := res.Values[model.FieldLatitude]; got != "37.4224764" {
		t.Fatalf("expected stored latitude to survive, got %q", got)
	}
}

func TestPickerPropagatesAbort(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	driver := &stubDriver{}
	picker := newPicker(t, driver, loadProvider(t))

	if _, err := picker.Pick(context.Background(), bindings, selector.DefaultConfig(bindings.Selectors())); err == nil {
		t.Fatalf("expected an error when input runs out")
	}
}

func TestPickerLocate(t *testing.T) {
	m := emptyStore().With("lat", "1").With("lng", "2")
	bindings := storeBindings(t, m)
	driver := &stubDriver{}
	picker := newPicker(t, driver, loadProvider(t))
	cfg := selector.DefaultConfig(bindings.Selectors())

	res, err := picker.Locate(context.Background(), bindings, cfg, "computer history museum")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := res.Values[model.FieldLatitude]; got != "37.4143371" {
		t.Fatalf("unexpected latitude %q", got)
	}
	if driver.inputPos != 0 || len(driver.infoMessages) != 0 {
		t.Fatalf("expected no prompts")
	}

	if _, err := picker.Locate(context.Background(), bindings, cfg, "nowhere"); !errors.Is(err, ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation for a stale pin, got %v", err)
	}
	if _, err := picker.Locate(context.Background(), bindings, cfg, "  "); !errors.Is(err, ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation for blank address, got %v", err)
	}
}

func TestNewRequiresGeocoder(t *testing.T) {
	if _, err := New(WithDriver(&stubDriver{})); err == nil {
		t.Fatalf("expected error without geocoder")
	}
}

func TestEncode(t *testing.T) {
	bindings := storeBindings(t, emptyStore())
	lat, lng := 37.4224764, -122.0842499
	res := Result{
		Location: model.Location{Address: "1600 Amphitheatre Parkway", Latitude: &lat, Longitude: &lng},
		Values: map[model.Field]string{
			model.FieldAddress:   "1600 Amphitheatre Parkway",
			model.FieldLatitude:  "37.4224764",
			model.FieldLongitude: "-122.0842499",
		},
		Bindings: bindings,
	}

	jsonOut, err := Encode(res, OutputFormatJSON)
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	if !strings.Contains(string(jsonOut), `"latitude": 37.4224764`) {
		t.Fatalf("unexpected json: %s", jsonOut)
	}

	formOut, err := Encode(res, OutputFormatFormURLEncoded)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	wantForm := "Store%5Baddress%5D=1600+Amphitheatre+Parkway&Store%5Blat%5D=37.4224764&Store%5Blng%5D=-122.0842499"
	if string(formOut) != wantForm {
		t.Fatalf("unexpected form output %q", formOut)
	}

	prettyOut, err := Encode(res, OutputFormatPrettyText)
	if err != nil {
		t.Fatalf("encode pretty: %v", err)
	}
	if !strings.HasPrefix(string(prettyOut), "address: 1600 Amphitheatre Parkway\n") {
		t.Fatalf("unexpected pretty output %q", prettyOut)
	}

	if _, err := Encode(res, OutputFormat("xml")); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseOutputFormat(t *testing.T) {
	if format, ok := ParseOutputFormat("form"); !ok || format != OutputFormatFormURLEncoded {
		t.Fatalf("expected form format, got %q %v", format, ok)
	}
	if _, ok := ParseOutputFormat("yaml"); ok {
		t.Fatalf("expected yaml to be rejected")
	}
}
