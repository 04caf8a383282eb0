// Package providers builds the geocoder selected by the binaries'
// configuration.
package providers

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-maplocation/internal/config"
	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/geocode/provider/google"
	"github.com/goliatone/go-maplocation/pkg/geocode/provider/nominatim"
	"github.com/goliatone/go-maplocation/pkg/geocode/provider/static"
)

//go:embed catalog/*.yaml
var demoCatalog embed.FS

// DemoCatalog returns the embedded fixture places used when no catalog
// directory is configured.
func DemoCatalog() fs.FS {
	sub, err := fs.Sub(demoCatalog, "catalog")
	if err != nil {
		return demoCatalog
	}
	return sub
}

// NewRegistry registers every provider that can be built from cfg. The
// google provider is only registered when an API key is set.
func NewRegistry(cfg config.GeocoderConfig) (*geocode.Registry, error) {
	registry := geocode.NewRegistry()

	catalog := DemoCatalog()
	if dir := strings.TrimSpace(cfg.Catalog); dir != "" {
		catalog = os.DirFS(dir)
	}
	staticProvider, err := static.LoadFS(catalog, ".")
	if err != nil {
		return nil, fmt.Errorf("providers: static catalog: %w", err)
	}
	registry.MustRegister("static", staticProvider)

	var nominatimOpts []nominatim.Option
	if cfg.URL != "" {
		nominatimOpts = append(nominatimOpts, nominatim.WithURL(cfg.URL))
	}
	registry.MustRegister("nominatim", nominatim.New(nominatimOpts...))

	if cfg.APIKey != "" {
		var googleOpts []google.Option
		if cfg.Language != "" {
			tag, err := language.Parse(cfg.Language)
			if err != nil {
				return nil, fmt.Errorf("providers: language %q: %w", cfg.Language, err)
			}
			googleOpts = append(googleOpts, google.WithLanguage(tag))
		}
		provider, err := google.New(cfg.APIKey, googleOpts...)
		if err != nil {
			return nil, fmt.Errorf("providers: %w", err)
		}
		registry.MustRegister("google", provider)
	}
	return registry, nil
}

// New returns the configured provider, wrapped in a cache when a hit TTL is
// set.
func New(cfg config.GeocoderConfig, logger *slog.Logger) (geocode.Geocoder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = "static"
	}
	coder, err := registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("providers: %w (available: %s)", err, strings.Join(registry.List(), ", "))
	}
	logger.Info("geocoder selected", "provider", coder.Name(), "cache_ttl", cfg.CacheTTL)
	if cfg.CacheTTL <= 0 {
		return coder, nil
	}
	return geocode.NewCachedGeocoder(coder, cfg.CacheTTL, cfg.MissTTL), nil
}
