package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-maplocation/pkg/model"
)

// ErrorMapping splits a go-errors compatible payload into field-level and
// form-level messages.
type ErrorMapping struct {
	Fields map[model.Field][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves server error keys onto bound fields. Keys may be
// input names (`Store[latitude]`), input ids, model attribute names, field
// names, or go-errors style paths (`/body/latitude`). Unknown keys are
// treated as form-level errors so messages are not lost.
func MapErrorPayload(bindings model.Bindings, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[model.Field][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	index := errorKeyIndex(bindings)
	for rawPath, messages := range payload {
		normalizedMessages := normalizeMessages(messages)
		if len(normalizedMessages) == 0 {
			continue
		}

		field, ok := mapErrorPath(rawPath, index)
		if !ok {
			mapping.Form = append(mapping.Form, normalizedMessages...)
			continue
		}
		mapping.Fields[field] = normalizeMessages(append(mapping.Fields[field], normalizedMessages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func errorKeyIndex(bindings model.Bindings) map[string]model.Field {
	index := make(map[string]model.Field, len(bindings)*4)
	for _, binding := range bindings {
		for _, key := range []string{
			string(binding.Field),
			binding.Attribute,
			binding.InputID,
			binding.InputName,
		} {
			if key = strings.ToLower(strings.TrimSpace(key)); key != "" {
				index[key] = binding.Field
			}
		}
	}
	return index
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, index map[string]model.Field) (model.Field, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}

	if field, ok := index[strings.ToLower(strings.TrimPrefix(trimmed, "#"))]; ok {
		return field, true
	}

	segments := stripNumericSegments(dropWrapperSegments(parsePathSegments(trimmed)))
	// The last segment names the attribute in both `Form[attr]` and
	// `/body/attr` shaped keys.
	for i := len(segments) - 1; i >= 0; i-- {
		if field, ok := index[strings.ToLower(segments[i])]; ok {
			return field, true
		}
		if field, ok := model.ParseField(segments[i]); ok {
			if _, bound := index[strings.ToLower(string(field))]; bound {
				return field, true
			}
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
