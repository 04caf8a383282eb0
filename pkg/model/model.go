package model

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Model is the host-side data object whose attributes the widget edits.
type Model interface {
	FormName() string
	HasAttribute(name string) bool
	AttributeValue(name string) string
}

// MapModel is a Model backed by a string map. Attributes exist when their key
// is present, even with an empty value.
type MapModel struct {
	Name   string
	Values map[string]string
}

var _ Model = MapModel{}

// NewMapModel returns a MapModel declaring the supplied attribute names.
func NewMapModel(formName string, attributes ...string) MapModel {
	values := make(map[string]string, len(attributes))
	for _, attr := range attributes {
		values[strings.TrimSpace(attr)] = ""
	}
	return MapModel{Name: formName, Values: values}
}

func (m MapModel) FormName() string { return m.Name }

func (m MapModel) HasAttribute(name string) bool {
	_, ok := m.Values[name]
	return ok
}

func (m MapModel) AttributeValue(name string) string {
	return m.Values[name]
}

// With returns a copy of the model with name set to value.
func (m MapModel) With(name, value string) MapModel {
	values := make(map[string]string, len(m.Values)+1)
	for k, v := range m.Values {
		values[k] = v
	}
	values[name] = value
	return MapModel{Name: m.Name, Values: values}
}

// StructModel exposes the exported fields of a struct as attributes. The
// `form` struct tag renames an attribute; `form:"-"` hides it.
type StructModel struct {
	name   string
	values map[string]string
}

var _ Model = (*StructModel)(nil)

// NewStructModel snapshots v (a struct or pointer to struct). An empty
// formName defaults to the struct type name.
func NewStructModel(formName string, v any) (*StructModel, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("model: struct model source is nil")
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model: struct model requires a struct, got %T", v)
	}
	if strings.TrimSpace(formName) == "" {
		formName = rv.Type().Name()
	}

	values := make(map[string]string)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("form"); ok {
			tag = strings.TrimSpace(strings.Split(tag, ",")[0])
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		values[name] = formatValue(rv.Field(i))
	}

	return &StructModel{name: formName, values: values}, nil
}

func (m *StructModel) FormName() string {
	if m == nil {
		return ""
	}
	return m.name
}

func (m *StructModel) HasAttribute(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[name]
	return ok
}

func (m *StructModel) AttributeValue(name string) string {
	if m == nil {
		return ""
	}
	return m.values[name]
}

// AttributeNames lists the exposed attributes in sorted order.
func (m *StructModel) AttributeNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		return ""
	}
}

// InputID mirrors the host framework's id convention: the lowercased form
// name and attribute joined by a dash, restricted to [a-z0-9_-].
func InputID(m Model, attribute string) string {
	attr := sanitizeID(attribute)
	if m == nil {
		return attr
	}
	form := sanitizeID(m.FormName())
	if form == "" {
		return attr
	}
	return form + "-" + attr
}

// InputName returns the submitted name for attribute: FormName[attribute], or
// the bare attribute without a form name.
func InputName(m Model, attribute string) string {
	attribute = strings.TrimSpace(attribute)
	if m == nil || strings.TrimSpace(m.FormName()) == "" {
		return attribute
	}
	return strings.TrimSpace(m.FormName()) + "[" + attribute + "]"
}

func sanitizeID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
