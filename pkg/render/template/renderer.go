package template

import "io"

// TemplateRenderer is the seam the binder renders markup through.
// RenderTemplate takes a template name; RenderString takes inline content.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
