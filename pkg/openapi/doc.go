// Package openapi resolves location widget bindings from OpenAPI 3 component
// schemas. Properties tagged with the x-maplocation extension, or named after
// a location field, become model attributes. The kin-openapi backed loader and
// parser live under internal/openapi.
package openapi
