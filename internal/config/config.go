// Package config loads the settings shared by the maplocation binaries from
// defaults, an optional config.yaml, and MAPLOCATION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g.
// MAPLOCATION_SERVER_PORT.
const EnvPrefix = "MAPLOCATION"

// Config holds all configuration for the binaries.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Geocoder GeocoderConfig
	Widget   WidgetConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int
	GinMode        string // debug, release, test
	BasePath       string
	AllowedOrigins []string
	RateLimit      float64 // requests per second, 0 disables
	RateBurst      int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// GeocoderConfig selects and configures the geocoding provider.
type GeocoderConfig struct {
	Provider  string // static, nominatim, google
	APIKey    string
	Language  string
	Catalog   string // static provider catalog directory
	URL       string // nominatim endpoint override
	CacheTTL  time.Duration
	MissTTL   time.Duration
}

// WidgetConfig holds the binder defaults used by the demo page.
type WidgetConfig struct {
	Preset   string
	Presets  string // directory of preset files
	MapsKey  string
	Locale   string
	Zoom     int
	CenterAt string // "lat,lng"
}

// Load reads configuration from the default search paths.
func Load() (*Config, error) {
	return LoadFrom(".", "./config")
}

// LoadFrom reads config.yaml from the first path that has one. A missing file
// is not an error.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("server.basepath", "")
	v.SetDefault("server.allowedorigins", []string{"*"})
	v.SetDefault("server.ratelimit", 10.0)
	v.SetDefault("server.rateburst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("geocoder.provider", "static")
	v.SetDefault("geocoder.apikey", "")
	v.SetDefault("geocoder.language", "")
	v.SetDefault("geocoder.catalog", "")
	v.SetDefault("geocoder.url", "")
	v.SetDefault("geocoder.cachettl", 10*time.Minute)
	v.SetDefault("geocoder.missttl", time.Minute)
	v.SetDefault("widget.preset", "")
	v.SetDefault("widget.presets", "")
	v.SetDefault("widget.mapskey", "")
	v.SetDefault("widget.locale", "")
	v.SetDefault("widget.zoom", 12)
	v.SetDefault("widget.centerat", "")
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Geocoder.Provider) {
	case "static", "nominatim":
	case "google":
		if c.Geocoder.APIKey == "" {
			return errors.New("config: google geocoder requires geocoder.apikey")
		}
	default:
		return fmt.Errorf("config: unknown geocoder provider %q", c.Geocoder.Provider)
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port".
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a slog.Logger writing to stdout.
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a slog.Logger writing to w based on the log settings.
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
