package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-maplocation/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Schemas converts the component schemas of doc into wrappers keyed by name.
func (p *Parser) Schemas(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: parser: validate: %w", err)
		}
	}

	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: parser: document has no component schemas")
	}

	out := make(map[string]pkgopenapi.Schema, len(spec.Components.Schemas))
	for name, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		out[name] = convertSchema(name, ref.Value)
	}
	return out, nil
}

func convertSchema(name string, src *openapi3.Schema) pkgopenapi.Schema {
	schema := pkgopenapi.Schema{
		Name:        name,
		Title:       src.Title,
		Description: src.Description,
	}

	properties := collectProperties(src, map[*openapi3.Schema]bool{})
	for propName, ref := range properties {
		prop := pkgopenapi.Property{Name: propName}
		if ref != nil && ref.Value != nil {
			value := ref.Value
			prop.Type = firstSchemaType(value.Type)
			prop.Format = value.Format
			prop.Description = value.Description
			prop.Default = value.Default
			prop.Extension = extensionString(value.Extensions[pkgopenapi.ExtensionKey])
		}
		schema.Properties = append(schema.Properties, prop)
	}
	pkgopenapi.SortProperties(schema.Properties)
	return schema
}

// collectProperties merges direct properties with those of allOf members.
// Direct properties win.
func collectProperties(src *openapi3.Schema, seen map[*openapi3.Schema]bool) openapi3.Schemas {
	out := openapi3.Schemas{}
	if src == nil || seen[src] {
		return out
	}
	seen[src] = true
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		for name, prop := range collectProperties(member.Value, seen) {
			out[name] = prop
		}
	}
	for name, prop := range src.Properties {
		out[name] = prop
	}
	return out
}

func extensionString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.RawMessage:
		return rawString(v)
	case []byte:
		return rawString(v)
	case bool:
		if !v {
			return "-"
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func rawString(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return extensionString(b)
	}
	return strings.TrimSpace(string(raw))
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
