// Command maplocation-cli picks a location in the terminal using the same
// bindings and selector behavior as the browser widget.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/goliatone/go-maplocation"
	"github.com/goliatone/go-maplocation/internal/config"
	"github.com/goliatone/go-maplocation/internal/providers"
	"github.com/goliatone/go-maplocation/internal/widget"
	"github.com/goliatone/go-maplocation/pkg/binder"
	pkgopenapi "github.com/goliatone/go-maplocation/pkg/openapi"
	"github.com/goliatone/go-maplocation/pkg/prompt"
)

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	provider := flag.String("provider", "", "geocoding provider (static, nominatim, google)")
	presetName := flag.String("preset", "", "widget preset name")
	presetsDir := flag.String("presets", "", "directory of preset files")
	formName := flag.String("form", "Store", "form name used for input ids and names")
	source := flag.String("openapi", "", "OpenAPI document path or URL to bind instead of a preset")
	schemaName := flag.String("schema", "", "component schema to bind from -openapi")
	format := flag.String("format", "json", "output format (json, form, pretty)")
	address := flag.String("address", "", "geocode this address without prompting")
	flag.Parse()

	outputFormat, ok := prompt.ParseOutputFormat(*format)
	if !ok {
		log.Fatalf("invalid format: %q", *format)
	}

	cfg, err := config.LoadFrom(*configDir, "./config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *provider != "" {
		cfg.Geocoder.Provider = *provider
	}
	if *presetName != "" {
		cfg.Widget.Preset = *presetName
	}
	if *presetsDir != "" {
		cfg.Widget.Presets = *presetsDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := cfg.NewLoggerTo(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	geocoder, err := providers.New(cfg.Geocoder, logger)
	if err != nil {
		log.Fatalf("Failed to configure geocoder: %v", err)
	}

	rendered, err := render(ctx, cfg, *formName, *source, *schemaName)
	if err != nil {
		log.Fatalf("Failed to bind form: %v", err)
	}

	picker, err := prompt.New(
		prompt.WithDriver(prompt.NewSurveyDriver(os.Stderr)),
		prompt.WithGeocoder(geocoder),
		prompt.WithOutputFormat(outputFormat),
		prompt.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to configure picker: %v", err)
	}

	var res prompt.Result
	if strings.TrimSpace(*address) != "" {
		res, err = picker.Locate(ctx, rendered.Bindings, rendered.Config.Config, *address)
	} else {
		res, err = picker.Pick(ctx, rendered.Bindings, rendered.Config.Config)
	}
	if errors.Is(err, prompt.ErrAborted) {
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("Failed to pick location: %v", err)
	}

	out, err := picker.Encode(res)
	if err != nil {
		log.Fatalf("Failed to encode location: %v", err)
	}
	fmt.Println(strings.TrimRight(string(out), "\n"))
}

// render binds the form either from the configured preset or from an OpenAPI
// component schema and returns the client configuration the binder built.
func render(ctx context.Context, cfg *config.Config, formName, source, schemaName string) (binder.Result, error) {
	p, err := widget.LoadPreset(cfg.Widget)
	if err != nil {
		return binder.Result{}, err
	}
	options, err := widget.Options(cfg.Widget)
	if err != nil {
		return binder.Result{}, err
	}
	b, err := maplocation.NewBinder(append(options, p.Options()...)...)
	if err != nil {
		return binder.Result{}, err
	}

	if strings.TrimSpace(source) == "" {
		return b.Render(ctx, binder.Request{
			Model:      widget.Model(formName, p),
			Attributes: p.Attributes(),
		})
	}

	src, err := parseSource(source)
	if err != nil {
		return binder.Result{}, err
	}
	return maplocation.RenderSchema(ctx, maplocation.NewLoader(pkgopenapi.WithHTTPFallback(15*time.Second)), maplocation.NewParser(), b, maplocation.SchemaRequest{
		Source: src,
		Schema: schemaName,
	})
}

func parseSource(raw string) (pkgopenapi.Source, error) {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path), nil
}
