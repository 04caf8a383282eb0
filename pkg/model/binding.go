package model

import (
	"fmt"
	"strings"
)

// BindingError reports a field whose attribute cannot be bound to the model.
type BindingError struct {
	Field     Field
	Attribute string
	Reason    string
}

func (e *BindingError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Attribute == "" {
		return fmt.Sprintf("model: bind %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("model: bind %s (attribute %q): %s", e.Field, e.Attribute, e.Reason)
}

// Binding ties one logical field to the input rendered for its attribute.
type Binding struct {
	Field     Field  `json:"field"`
	Attribute string `json:"attribute"`
	InputID   string `json:"inputId"`
	InputName string `json:"inputName"`
	Value     string `json:"value,omitempty"`
}

// Selector returns the "#id" DOM selector for the binding.
func (b Binding) Selector() string {
	if b.InputID == "" {
		return ""
	}
	return "#" + b.InputID
}

// Bindings is the ordered set produced by Bind. The address binding is always
// first.
type Bindings []Binding

var requiredFields = []Field{FieldAddress, FieldLatitude, FieldLongitude}

// Bind resolves attrs against m. Address, latitude and longitude are required;
// other fields are optional and skipped when unset.
func Bind(m Model, attrs Attributes) (Bindings, error) {
	if m == nil {
		return nil, &BindingError{Field: FieldAddress, Reason: "model is nil"}
	}
	attrs = attrs.Clone()
	for _, field := range requiredFields {
		if attrs[field] == "" {
			return nil, &BindingError{Field: field, Reason: "attribute is required"}
		}
	}

	bindings := make(Bindings, 0, len(attrs))
	seen := make(map[string]Field, len(attrs))
	for _, field := range AllFields() {
		attr, ok := attrs[field]
		if !ok {
			continue
		}
		if !m.HasAttribute(attr) {
			return nil, &BindingError{Field: field, Attribute: attr, Reason: "attribute not defined on model"}
		}
		id := InputID(m, attr)
		if other, dup := seen[id]; dup {
			return nil, &BindingError{
				Field:     field,
				Attribute: attr,
				Reason:    fmt.Sprintf("input id %q already bound to %s", id, other),
			}
		}
		seen[id] = field
		bindings = append(bindings, Binding{
			Field:     field,
			Attribute: attr,
			InputID:   id,
			InputName: InputName(m, attr),
			Value:     m.AttributeValue(attr),
		})
	}

	if len(bindings) != len(attrs) {
		for field, attr := range attrs {
			if _, ok := bindings.Lookup(field); !ok {
				return nil, &BindingError{Field: field, Attribute: attr, Reason: "unknown field"}
			}
		}
	}

	return bindings, nil
}

// Lookup returns the binding for field.
func (b Bindings) Lookup(field Field) (Binding, bool) {
	for _, binding := range b {
		if binding.Field == field {
			return binding, true
		}
	}
	return Binding{}, false
}

// Address returns the address binding.
func (b Bindings) Address() Binding {
	binding, _ := b.Lookup(FieldAddress)
	return binding
}

// Hidden returns every binding except the address, in order.
func (b Bindings) Hidden() Bindings {
	out := make(Bindings, 0, len(b))
	for _, binding := range b {
		if binding.Field == FieldAddress {
			continue
		}
		out = append(out, binding)
	}
	return out
}

// Selector returns the DOM selector bound to field, or "".
func (b Bindings) Selector(field Field) string {
	binding, ok := b.Lookup(field)
	if !ok {
		return ""
	}
	return binding.Selector()
}

// Selectors maps every bound field to its DOM selector.
func (b Bindings) Selectors() map[Field]string {
	out := make(map[Field]string, len(b))
	for _, binding := range b {
		out[binding.Field] = binding.Selector()
	}
	return out
}

// Values maps every bound field to the model value captured at bind time.
func (b Bindings) Values() map[Field]string {
	out := make(map[Field]string, len(b))
	for _, binding := range b {
		out[binding.Field] = binding.Value
	}
	return out
}

// FieldForInput returns the field bound to the given input id or name.
func (b Bindings) FieldForInput(ref string) (Field, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	for _, binding := range b {
		if binding.InputID == ref || binding.InputName == ref {
			return binding.Field, true
		}
	}
	return "", false
}

// ValuesFromForm picks the submitted value of every binding out of a form
// payload keyed by input name (url.Values shape).
func (b Bindings) ValuesFromForm(form map[string][]string) map[Field]string {
	out := make(map[Field]string, len(b))
	for _, binding := range b {
		values := form[binding.InputName]
		if len(values) == 0 {
			continue
		}
		out[binding.Field] = strings.TrimSpace(values[0])
	}
	return out
}
