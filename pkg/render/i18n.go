package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when no
// Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the string used when a key cannot be
// translated. args carries the caller arguments; Translate passes a
// map[string]any{"default": fallback} as the first argument.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Translate resolves key through t, falling back to fallback (or the key)
// when the translator is missing or fails. onMissing may be nil.
func Translate(t Translator, locale, key, fallback string, onMissing MissingTranslationHandler) string {
	return translate(locale, key, fallback, t, onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
