package selector

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/place"
)

const (
	// DefaultZoom is the initial map zoom level.
	DefaultZoom = 12
	// DefaultAddressNotFound is the validation message used when no
	// translation is configured.
	DefaultAddressNotFound = "Address not found"
)

// DefaultCenter is the map center used when the form holds no coordinates.
var DefaultCenter = place.LatLng{Lat: 46.829853, Lng: -71.254028}

// Config is the client configuration payload rendered by the binder.
type Config struct {
	Selectors       map[model.Field]string `json:"selectors"`
	Draggable       bool                   `json:"draggable"`
	DefaultCenter   place.LatLng           `json:"defaultCenter"`
	DefaultZoom     int                    `json:"defaultZoom"`
	HideMarker      bool                   `json:"hideMarker"`
	AddressNotFound string                 `json:"addressNotFound"`
}

// DefaultConfig returns a configuration with the widget defaults and the
// given selectors.
func DefaultConfig(selectors map[model.Field]string) Config {
	return Config{
		Selectors:       selectors,
		DefaultCenter:   DefaultCenter,
		DefaultZoom:     DefaultZoom,
		AddressNotFound: DefaultAddressNotFound,
	}
}

// ParseConfig decodes a JSON payload and fills unset defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("selector: decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the selectors the selector cannot work without.
func (c Config) Validate() error {
	for _, field := range []model.Field{model.FieldAddress, model.FieldLatitude, model.FieldLongitude} {
		if strings.TrimSpace(c.Selectors[field]) == "" {
			return fmt.Errorf("selector: config is missing the %s selector", field)
		}
	}
	return nil
}

// Selector returns the selector bound to field, or "".
func (c Config) Selector(field model.Field) string {
	return c.Selectors[field]
}

func (c *Config) normalize() {
	if c.DefaultZoom <= 0 {
		c.DefaultZoom = DefaultZoom
	}
	if c.DefaultCenter == (place.LatLng{}) {
		c.DefaultCenter = DefaultCenter
	}
	if strings.TrimSpace(c.AddressNotFound) == "" {
		c.AddressNotFound = DefaultAddressNotFound
	}
}
