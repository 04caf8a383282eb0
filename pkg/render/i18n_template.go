package render

import "strings"

// TemplateI18nConfig configures the translation helpers exposed to widget
// templates.
type TemplateI18nConfig struct {
	// Locale is used when a template passes no locale of its own.
	Locale    string
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns template globals for the gotemplate engine:
//
//	translate(locale, key[, fallback]) string
//	current_locale(locale) string
//
// locale is either a string or the render data map, read from its "locale"
// entry.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	localeOf := func(src any) string {
		if locale := localeFrom(src); locale != "" {
			return locale
		}
		return cfg.Locale
	}

	return map[string]any{
		"translate": func(src any, key string, fallback ...string) string {
			return Translate(t, localeOf(src), key, strings.Join(fallback, ""), cfg.OnMissing)
		},
		"current_locale": func(src any) string {
			return localeOf(src)
		},
	}
}

func localeFrom(src any) string {
	switch v := src.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		locale, _ := v["locale"].(string)
		return strings.TrimSpace(locale)
	case map[string]string:
		return strings.TrimSpace(v["locale"])
	default:
		return ""
	}
}
