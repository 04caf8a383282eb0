package openapi

import (
	"errors"
	"sort"
)

// Source identifies where an OpenAPI document originated so loaders can read
// files, fs.FS entries or URLs.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document wraps the raw OpenAPI payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Schema is a component schema reduced to what attribute discovery needs.
type Schema struct {
	Name        string
	Title       string
	Description string
	Properties  []Property
}

// Property is one top-level property of a component schema.
type Property struct {
	Name        string
	Type        string
	Format      string
	Description string
	Default     any
	// Extension holds the x-maplocation value, if any.
	Extension string
}

// Property returns the property named name.
func (s Schema) Property(name string) (Property, bool) {
	for _, prop := range s.Properties {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// SortProperties orders properties by name.
func SortProperties(props []Property) {
	sort.Slice(props, func(i, j int) bool {
		return props[i].Name < props[j].Name
	})
}
