// Package preset loads named widget configurations from JSON or YAML files so
// hosts can keep attribute mappings and binder options out of Go code.
package preset

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-maplocation/pkg/binder"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/place"
)

// Preset is one named widget configuration.
type Preset struct {
	Name              string
	Source            string
	Draggable         bool
	HideMarker        bool
	DefaultCenter     *place.LatLng
	DefaultZoom       int
	AddressNotFound   string
	Language          language.Tag
	ScriptURL         string
	WrapperAttributes map[string]string
	TextAttributes    map[string]string
	Endpoints         binder.Endpoints
	ClientOptions     map[string]any

	attributes model.Attributes
}

// Attributes returns the field to attribute mapping. Unset presets bind every
// field to the attribute of the same name.
func (p Preset) Attributes() model.Attributes {
	if len(p.attributes) == 0 {
		return model.DefaultAttributes()
	}
	return p.attributes.Clone()
}

// Options converts the preset into binder options.
func (p Preset) Options() []binder.Option {
	opts := []binder.Option{
		binder.WithDraggable(p.Draggable),
		binder.WithHideMarker(p.HideMarker),
	}
	if p.DefaultCenter != nil {
		opts = append(opts, binder.WithDefaultCenter(*p.DefaultCenter))
	}
	if p.DefaultZoom > 0 {
		opts = append(opts, binder.WithDefaultZoom(p.DefaultZoom))
	}
	if p.AddressNotFound != "" {
		opts = append(opts, binder.WithAddressNotFound(p.AddressNotFound))
	}
	if p.Language != language.Und {
		opts = append(opts, binder.WithLanguage(p.Language))
	}
	if p.ScriptURL != "" {
		opts = append(opts, binder.WithScriptURL(p.ScriptURL))
	}
	if len(p.WrapperAttributes) > 0 {
		opts = append(opts, binder.WithWrapperAttributes(p.WrapperAttributes))
	}
	if len(p.TextAttributes) > 0 {
		opts = append(opts, binder.WithTextAttributes(p.TextAttributes))
	}
	if !p.Endpoints.IsZero() {
		opts = append(opts, binder.WithEndpoints(p.Endpoints))
	}
	if len(p.ClientOptions) > 0 {
		opts = append(opts, binder.WithClientOptions(p.ClientOptions))
	}
	return opts
}

// Store holds presets keyed by name.
type Store struct {
	presets map[string]Preset
}

// LoadFS walks fsys and parses every JSON/YAML preset file. A nil fsys yields
// an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{presets: make(map[string]Preset)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPresetFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("preset: read %s: %w", path, err)
		}
		presets, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, p := range presets {
			if _, exists := store.presets[p.Name]; exists {
				return fmt.Errorf("preset: duplicate preset %q (file %s)", p.Name, path)
			}
			store.presets[p.Name] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Preset returns the preset registered under name.
func (s *Store) Preset(name string) (Preset, bool) {
	if s == nil {
		return Preset{}, false
	}
	p, ok := s.presets[strings.TrimSpace(name)]
	return p, ok
}

// Names lists the preset names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any presets.
func (s *Store) Empty() bool {
	return s == nil || len(s.presets) == 0
}

type documentFile struct {
	Presets map[string]presetFile `json:"presets" yaml:"presets"`
}

type centerFile struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type endpointsFile struct {
	Geocode      string `json:"geocode" yaml:"geocode"`
	Reverse      string `json:"reverse" yaml:"reverse"`
	Autocomplete string `json:"autocomplete" yaml:"autocomplete"`
	Place        string `json:"place" yaml:"place"`
}

type presetFile struct {
	Attributes        map[string]string `json:"attributes" yaml:"attributes"`
	Draggable         bool              `json:"draggable" yaml:"draggable"`
	HideMarker        bool              `json:"hideMarker" yaml:"hideMarker"`
	DefaultCenter     *centerFile       `json:"defaultCenter" yaml:"defaultCenter"`
	DefaultZoom       int               `json:"defaultZoom" yaml:"defaultZoom"`
	AddressNotFound   string            `json:"addressNotFound" yaml:"addressNotFound"`
	Language          string            `json:"language" yaml:"language"`
	ScriptURL         string            `json:"scriptURL" yaml:"scriptURL"`
	WrapperAttributes map[string]string `json:"wrapperAttributes" yaml:"wrapperAttributes"`
	TextAttributes    map[string]string `json:"textAttributes" yaml:"textAttributes"`
	Endpoints         endpointsFile     `json:"endpoints" yaml:"endpoints"`
	ClientOptions     map[string]any    `json:"clientOptions" yaml:"clientOptions"`
}

// Parse decodes a preset document, trying JSON first and YAML second. source
// names the document in errors.
func Parse(data []byte, source string) ([]Preset, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("preset: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("preset: parse %s: invalid JSON or YAML", source)
		}
	}

	names := make([]string, 0, len(doc.Presets))
	for name := range doc.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Preset, 0, len(names))
	for _, name := range names {
		p, err := normalisePreset(strings.TrimSpace(name), source, doc.Presets[name])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func normalisePreset(name, source string, raw presetFile) (Preset, error) {
	if name == "" {
		return Preset{}, fmt.Errorf("preset: file %s defines a preset with an empty name", source)
	}
	p := Preset{
		Name:              name,
		Source:            source,
		Draggable:         raw.Draggable,
		HideMarker:        raw.HideMarker,
		DefaultZoom:       raw.DefaultZoom,
		AddressNotFound:   strings.TrimSpace(raw.AddressNotFound),
		Language:          language.Und,
		ScriptURL:         strings.TrimSpace(raw.ScriptURL),
		WrapperAttributes: raw.WrapperAttributes,
		TextAttributes:    raw.TextAttributes,
		Endpoints:         binder.Endpoints(raw.Endpoints),
		ClientOptions:     raw.ClientOptions,
	}

	if len(raw.Attributes) > 0 {
		p.attributes = make(model.Attributes, len(raw.Attributes))
		for key, attr := range raw.Attributes {
			field, ok := model.ParseField(key)
			if !ok {
				return Preset{}, fmt.Errorf("preset: %q (file %s) maps unknown field %q", name, source, key)
			}
			p.attributes[field] = strings.TrimSpace(attr)
		}
	}

	if raw.DefaultCenter != nil {
		center := place.LatLng{Lat: raw.DefaultCenter.Lat, Lng: raw.DefaultCenter.Lng}
		if !center.Valid() {
			return Preset{}, fmt.Errorf("preset: %q (file %s) default center %s is out of range", name, source, center)
		}
		p.DefaultCenter = &center
	}
	if raw.DefaultZoom < 0 {
		return Preset{}, fmt.Errorf("preset: %q (file %s) default zoom must not be negative", name, source)
	}

	if lang := strings.TrimSpace(raw.Language); lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return Preset{}, fmt.Errorf("preset: %q (file %s) language %q: %w", name, source, lang, err)
		}
		p.Language = tag
	}
	return p, nil
}

func isPresetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
