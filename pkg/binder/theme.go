package binder

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// themeConfig resolves the renderer configuration for the active theme, or
// nil when no theme is configured.
func (b *Binder) themeConfig() (*theme.RendererConfig, error) {
	selection := b.cfg.themeSelection
	if selection == nil && b.cfg.themeSelector != nil {
		selected, err := b.cfg.themeSelector.Select(b.cfg.themeName, b.cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("binder: select theme %q: %w", b.cfg.themeName, err)
		}
		selection = selected
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection), nil
}

// rendererConfig merges manifest and variant templates, tokens and assets on
// top of the built-in partials. Tokens become CSS variables prefixed with --.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: DefaultPartials(),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	assets := map[string]string{}
	prefix := ""
	if manifest := selection.Manifest; manifest != nil {
		copyInto(cfg.Partials, manifest.Templates)
		copyInto(cfg.Tokens, manifest.Tokens)
		copyInto(assets, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			copyInto(cfg.Partials, variant.Templates)
			copyInto(cfg.Tokens, variant.Tokens)
			copyInto(assets, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = func(key string) string {
		file := strings.TrimSpace(assets[key])
		if file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

func copyInto(dst, src map[string]string) {
	for key, value := range src {
		if strings.TrimSpace(value) != "" {
			dst[key] = value
		}
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}
