package maplocation

import (
	internalLoader "github.com/goliatone/go-maplocation/internal/openapi/loader"
	internalParser "github.com/goliatone/go-maplocation/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-maplocation/pkg/openapi"
)

// NewLoader constructs an OpenAPI loader. File sources are always enabled;
// fs.FS and URL sources follow the options.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs an OpenAPI parser backed by kin-openapi.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}
