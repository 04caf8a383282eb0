package binder

import "strings"

const (
	inputPlaceholder = "{input}"
	mapPlaceholder   = "{map}"
)

// InsertMapPlaceholder adds {map} right after the first {input} unless the
// template already places it.
func InsertMapPlaceholder(tpl string) string {
	if strings.Contains(tpl, mapPlaceholder) || !strings.Contains(tpl, inputPlaceholder) {
		return tpl
	}
	return strings.Replace(tpl, inputPlaceholder, inputPlaceholder+mapPlaceholder, 1)
}

func fillFieldTemplate(tpl, input, mapMarkup string) string {
	if strings.TrimSpace(tpl) == "" {
		return input + mapMarkup
	}
	return strings.NewReplacer(inputPlaceholder, input, mapPlaceholder, mapMarkup).Replace(InsertMapPlaceholder(tpl))
}
