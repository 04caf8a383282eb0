package render

import (
	"fmt"
	"slices"
	"strings"
)

// HiddenField is an extra hidden input rendered after the bound location
// inputs, such as a CSRF token or the id of the record being edited.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden builds a HiddenField, formatting value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken is Hidden for a token string.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields copies base and applies fields on top. Blank names are
// dropped and later fields win. A nil map is returned when nothing is left.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns fields ordered by name so the markup is stable.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	merged := MergeHiddenFields(fields)
	if merged == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(merged))
	for name, value := range merged {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	slices.SortFunc(out, func(a, b HiddenField) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
