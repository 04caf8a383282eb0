package openapi

import "context"

// Parser extracts component schemas from a document, keyed by name.
type Parser interface {
	Schemas(ctx context.Context, doc Document) (map[string]Schema, error)
}

// ParserOptions toggles parser behaviour.
type ParserOptions struct {
	// Validate runs the kin-openapi document validation before extraction.
	Validate bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles document validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{Validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
