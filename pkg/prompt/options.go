package prompt

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-maplocation/pkg/geocode"
)

// OutputFormat controls how a picked location is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the location as indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits the bound inputs as
	// application/x-www-form-urlencoded.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "field: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat accepts json, form or pretty.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch format := OutputFormat(raw); format {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, true
	default:
		return "", false
	}
}

// Option configures the Picker.
type Option func(*Picker)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(p *Picker) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithGeocoder sets the geocoder used to resolve addresses and pins.
func WithGeocoder(geocoder geocode.Geocoder) Option {
	return func(p *Picker) {
		p.geocoder = geocoder
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(p *Picker) {
		if format != "" {
			p.format = format
		}
	}
}

// WithSessionTokens overrides the autocomplete session token source.
func WithSessionTokens(next func() string) Option {
	return func(p *Picker) {
		if next != nil {
			p.sessionToken = next
		}
	}
}

// WithLogger sets the logger passed to the selector.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Picker) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func newSessionToken() string {
	return uuid.NewString()
}
