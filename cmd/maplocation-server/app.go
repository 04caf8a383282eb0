package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-maplocation/components/geocoding"
	"github.com/goliatone/go-maplocation/components/geocoding/binderwiring"
	"github.com/goliatone/go-maplocation/internal/config"
	"github.com/goliatone/go-maplocation/internal/widget"
	"github.com/goliatone/go-maplocation/pkg/binder"
	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/preset"
	"github.com/goliatone/go-maplocation/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const (
	formName   = "Store"
	assetsPath = "/assets"
)

// App encapsulates the server dependencies.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	geocoder  geocode.Geocoder
	component *geocoding.Component
	binder    *binder.Binder
	pages     *gotemplate.Engine
	preset    preset.Preset
}

// NewApp wires the binder, the geocoding component and the page templates.
func NewApp(cfg *config.Config, logger *slog.Logger, geocoder geocode.Geocoder) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server: config is required")
	}
	if geocoder == nil {
		return nil, fmt.Errorf("server: geocoder is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	selected, err := widget.LoadPreset(cfg.Widget)
	if err != nil {
		return nil, err
	}

	basePath := strings.TrimRight(cfg.Server.BasePath, "/")
	component := geocoding.New(
		geocoding.WithGeocoder(geocoder),
		geocoding.WithLanguage(cfg.Geocoder.Language),
		geocoding.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
		geocoding.WithLogger(logger),
	)

	options, err := widget.Options(cfg.Widget)
	if err != nil {
		return nil, err
	}
	options = append(options, selected.Options()...)
	options = append(options,
		binder.WithEndpoints(binderwiring.ComponentEndpoints(component, basePath)),
		binder.WithScriptURL(path.Join("/", basePath, assetsPath, "maplocation.js")),
		binder.WithLogger(logger),
	)
	b, err := binder.New(options...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: templates: %w", err)
	}
	pages, err := gotemplate.New(gotemplate.WithFS(templates))
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}

	logger.Info("application initialized", "preset", selected.Name, "base_path", basePath)
	return &App{
		cfg:       cfg,
		logger:    logger,
		geocoder:  geocoder,
		component: component,
		binder:    b,
		pages:     pages,
		preset:    selected,
	}, nil
}

// Router builds the gin engine serving every route.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.logger))
	a.registerRoutes(r)
	return r
}

func (a *App) model() model.MapModel {
	return widget.Model(formName, a.preset)
}
