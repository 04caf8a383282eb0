// Package widget turns the binaries' widget configuration into a preset,
// binder options and an empty form model.
package widget

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-maplocation/internal/config"
	"github.com/goliatone/go-maplocation/pkg/binder"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/place"
	"github.com/goliatone/go-maplocation/pkg/preset"
)

//go:embed presets/*.yaml
var embeddedPresets embed.FS

// DefaultPreset names the embedded preset used when none is configured.
const DefaultPreset = "demo"

// LoadPreset returns the configured preset from the presets directory, or
// from the embedded presets when no directory is set.
func LoadPreset(cfg config.WidgetConfig) (preset.Preset, error) {
	var fsys fs.FS
	if dir := strings.TrimSpace(cfg.Presets); dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embeddedPresets, "presets")
		if err != nil {
			return preset.Preset{}, fmt.Errorf("widget: presets: %w", err)
		}
		fsys = sub
	}

	store, err := preset.LoadFS(fsys)
	if err != nil {
		return preset.Preset{}, fmt.Errorf("widget: %w", err)
	}
	name := strings.TrimSpace(cfg.Preset)
	if name == "" {
		name = DefaultPreset
	}
	selected, ok := store.Preset(name)
	if !ok {
		return preset.Preset{}, fmt.Errorf("widget: preset %q not found (available: %s)", name, strings.Join(store.Names(), ", "))
	}
	return selected, nil
}

// Options converts the widget settings into binder options. They are meant
// to precede the preset options so a preset can override them.
func Options(cfg config.WidgetConfig) ([]binder.Option, error) {
	var options []binder.Option
	if cfg.MapsKey != "" {
		options = append(options, binder.WithAPIKey(cfg.MapsKey))
	}
	if cfg.Zoom > 0 {
		options = append(options, binder.WithDefaultZoom(cfg.Zoom))
	}
	if center := strings.TrimSpace(cfg.CenterAt); center != "" {
		lat, lng, _ := strings.Cut(center, ",")
		at, err := place.ParseLatLng(lat, lng)
		if err != nil {
			return nil, fmt.Errorf("widget: center: %w", err)
		}
		options = append(options, binder.WithDefaultCenter(at))
	}
	return options, nil
}

// Model returns an empty form model with one attribute per field bound by p.
func Model(formName string, p preset.Preset) model.MapModel {
	attrs := p.Attributes()
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		names = append(names, attr)
	}
	return model.NewMapModel(formName, names...)
}
