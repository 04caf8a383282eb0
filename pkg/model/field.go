package model

import "strings"

// Field names one logical entry of the location record.
type Field string

const (
	FieldAddress         Field = "address"
	FieldName            Field = "name"
	FieldStreetNumber    Field = "streetNumber"
	FieldRoute           Field = "route"
	FieldLocality        Field = "locality"
	FieldAdminAreaLevel2 Field = "adminAreaLevel2"
	FieldAdminAreaLevel1 Field = "adminAreaLevel1"
	FieldCountry         Field = "country"
	FieldPostalCode      Field = "postalCode"
	FieldPlusCode        Field = "plusCode"
	FieldLatitude        Field = "latitude"
	FieldLongitude       Field = "longitude"
)

var auxiliaryFields = []Field{
	FieldName,
	FieldStreetNumber,
	FieldRoute,
	FieldLocality,
	FieldAdminAreaLevel2,
	FieldAdminAreaLevel1,
	FieldCountry,
	FieldPostalCode,
	FieldPlusCode,
	FieldLatitude,
	FieldLongitude,
}

var componentFields = []Field{
	FieldStreetNumber,
	FieldRoute,
	FieldLocality,
	FieldAdminAreaLevel2,
	FieldAdminAreaLevel1,
	FieldCountry,
	FieldPostalCode,
	FieldPlusCode,
}

// AuxiliaryFields returns every field rendered as a hidden input, in canonical
// order.
func AuxiliaryFields() []Field {
	return append([]Field(nil), auxiliaryFields...)
}

// ComponentFields returns the fields populated from address components.
func ComponentFields() []Field {
	return append([]Field(nil), componentFields...)
}

// AllFields returns the address field followed by AuxiliaryFields.
func AllFields() []Field {
	return append([]Field{FieldAddress}, auxiliaryFields...)
}

// ParseField resolves a field from its name. Matching ignores case, dashes and
// underscores so "street_number" and "street-number" both map to
// FieldStreetNumber.
func ParseField(raw string) (Field, bool) {
	key := fieldKey(raw)
	if key == "" {
		return "", false
	}
	for _, field := range AllFields() {
		if fieldKey(string(field)) == key {
			return field, true
		}
	}
	switch key {
	case "lat":
		return FieldLatitude, true
	case "lng", "lon":
		return FieldLongitude, true
	case "postcode", "zip", "zipcode":
		return FieldPostalCode, true
	case "administrativearealevel1":
		return FieldAdminAreaLevel1, true
	case "administrativearealevel2":
		return FieldAdminAreaLevel2, true
	}
	return "", false
}

func fieldKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if r == '-' || r == '_' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Attributes maps logical fields to model attribute names.
type Attributes map[Field]string

// Clone returns a copy with blank entries removed.
func (a Attributes) Clone() Attributes {
	if len(a) == 0 {
		return Attributes{}
	}
	out := make(Attributes, len(a))
	for field, attr := range a {
		if trimmed := strings.TrimSpace(attr); trimmed != "" {
			out[field] = trimmed
		}
	}
	return out
}

// DefaultAttributes maps every field to an attribute of the same name.
func DefaultAttributes() Attributes {
	out := make(Attributes, len(auxiliaryFields)+1)
	for _, field := range AllFields() {
		out[field] = string(field)
	}
	return out
}
