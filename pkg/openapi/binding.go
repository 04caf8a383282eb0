package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-maplocation/pkg/model"
)

// ExtensionKey tags a schema property with the location field it stores.
// The value "-" excludes a property from name based matching.
const ExtensionKey = "x-maplocation"

// SchemaModel is a model.Model whose attributes are the properties of a
// component schema. Attribute values are the property defaults.
type SchemaModel struct {
	name   string
	values map[string]string
}

var _ model.Model = SchemaModel{}

func (m SchemaModel) FormName() string { return m.name }

func (m SchemaModel) HasAttribute(name string) bool {
	_, ok := m.values[name]
	return ok
}

func (m SchemaModel) AttributeValue(name string) string {
	return m.values[name]
}

// WithValues returns a copy of the model with the given attribute values.
// Unknown attributes are ignored.
func (m SchemaModel) WithValues(values map[string]string) SchemaModel {
	out := SchemaModel{name: m.name, values: make(map[string]string, len(m.values))}
	for key, value := range m.values {
		out.values[key] = value
	}
	for key, value := range values {
		if _, ok := out.values[key]; ok {
			out.values[key] = value
		}
	}
	return out
}

// Resolution is the outcome of binding a schema.
type Resolution struct {
	Schema     Schema
	Model      SchemaModel
	Attributes model.Attributes
}

// Bind maps the properties of schema onto location fields. Extension tags win
// over name matches; a field claimed twice by extension tags is an error.
// formName overrides the schema name as the model form name.
func Bind(schema Schema, formName string) (Resolution, error) {
	if strings.TrimSpace(formName) == "" {
		formName = schema.Name
	}
	res := Resolution{
		Schema:     schema,
		Model:      SchemaModel{name: formName, values: make(map[string]string, len(schema.Properties))},
		Attributes: model.Attributes{},
	}

	props := append([]Property(nil), schema.Properties...)
	SortProperties(props)

	excluded := map[string]bool{}
	for _, prop := range props {
		res.Model.values[prop.Name] = formatDefault(prop.Default)

		tag := strings.TrimSpace(prop.Extension)
		switch tag {
		case "":
			continue
		case "-":
			excluded[prop.Name] = true
			continue
		}
		field, ok := model.ParseField(tag)
		if !ok {
			return Resolution{}, fmt.Errorf("openapi: schema %q property %q: unknown %s value %q", schema.Name, prop.Name, ExtensionKey, tag)
		}
		if other, taken := res.Attributes[field]; taken {
			return Resolution{}, fmt.Errorf("openapi: schema %q binds %s to both %q and %q", schema.Name, field, other, prop.Name)
		}
		res.Attributes[field] = prop.Name
	}

	tagged := make(map[string]bool, len(res.Attributes))
	for _, attr := range res.Attributes {
		tagged[attr] = true
	}
	for _, prop := range props {
		if excluded[prop.Name] || tagged[prop.Name] || strings.TrimSpace(prop.Extension) != "" {
			continue
		}
		field, ok := model.ParseField(prop.Name)
		if !ok {
			continue
		}
		if _, taken := res.Attributes[field]; taken {
			continue
		}
		res.Attributes[field] = prop.Name
	}

	var missing []string
	for _, field := range []model.Field{model.FieldAddress, model.FieldLatitude, model.FieldLongitude} {
		if _, ok := res.Attributes[field]; !ok {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return Resolution{}, fmt.Errorf("openapi: schema %q does not bind %s", schema.Name, strings.Join(missing, ", "))
	}
	return res, nil
}

// Resolve parses doc and binds the component schema called name.
func Resolve(ctx context.Context, parser Parser, doc Document, name string) (Resolution, error) {
	if parser == nil {
		return Resolution{}, errors.New("openapi: parser is required")
	}
	schemas, err := parser.Schemas(ctx, doc)
	if err != nil {
		return Resolution{}, err
	}
	schema, ok := schemas[name]
	if !ok {
		return Resolution{}, fmt.Errorf("openapi: schema %q not found in %s (have %s)", name, doc.Location(), strings.Join(schemaNames(schemas), ", "))
	}
	return Bind(schema, "")
}

func schemaNames(schemas map[string]Schema) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
