package render

import (
	"github.com/goliatone/go-maplocation/pkg/model"
)

// RenderOptions describe per-request data the binder uses to customise its
// output without touching the model.
type RenderOptions struct {
	// Locale selects translations for labels and the "address not found"
	// message.
	Locale string
	// Translator resolves message keys. When nil, fallbacks are used.
	Translator Translator
	// OnMissing customises the string used when a translation is missing.
	OnMissing MissingTranslationHandler
	// Values overrides the model values of bound fields, for example to echo
	// a rejected submission back into the form.
	Values map[model.Field]string
	// Errors surfaces server-side validation feedback keyed by field. The
	// templates render these inline and mark the inputs aria-invalid.
	Errors map[model.Field][]string
	// Hidden adds extra hidden inputs (CSRF tokens, versions) next to the
	// bound ones.
	Hidden map[string]string
}
