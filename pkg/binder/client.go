package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-maplocation/pkg/selector"
)

// DefaultMapsScriptBase is the Google Maps JS API loader.
const DefaultMapsScriptBase = "https://maps.googleapis.com/maps/api/js"

// mapsCallback is the global the loader calls once the API is ready.
const mapsCallback = "MapLocation.ready"

// Endpoints lists server-side geocoding routes the runtime may call instead
// of the browser geocoder.
type Endpoints struct {
	Geocode      string `json:"geocode,omitempty"`
	Reverse      string `json:"reverse,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
	Place        string `json:"place,omitempty"`
}

// IsZero reports whether no endpoint is configured.
func (e Endpoints) IsZero() bool {
	return e == Endpoints{}
}

// ClientConfig is the configuration payload consumed by the browser runtime
// and by selector.New.
type ClientConfig struct {
	selector.Config
	Language  string     `json:"language,omitempty"`
	Endpoints *Endpoints `json:"endpoints,omitempty"`
}

// encodeClientConfig renders cfg as JSON with extra keys merged underneath the
// generated ones. Map keys are emitted in sorted order.
func encodeClientConfig(cfg ClientConfig, extra map[string]any) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("binder: encode client config: %w", err)
	}
	if len(extra) == 0 {
		return string(raw), nil
	}

	merged := make(map[string]any, len(extra)+8)
	for key, value := range extra {
		merged[key] = value
	}
	var generated map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generated); err != nil {
		return "", fmt.Errorf("binder: decode client config: %w", err)
	}
	for key, value := range generated {
		merged[key] = value
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(merged); err != nil {
		return "", fmt.Errorf("binder: encode client options: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// mapsScriptURL builds the Google Maps loader URL. It is empty without a key.
func mapsScriptURL(base, apiKey string, lang language.Tag) string {
	if apiKey == "" {
		return ""
	}
	query := url.Values{}
	query.Set("key", apiKey)
	query.Set("libraries", "places")
	query.Set("callback", mapsCallback)
	if lang != language.Und {
		query.Set("language", lang.String())
	}
	return base + "?" + query.Encode()
}

func jsonString(value string) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(raw)
}
