// Package place holds the provider-neutral values exchanged between geocoding
// providers and the location selector: coordinates, bounding boxes, address
// components, and the selected place itself.
//
// Values are plain structs. A Place is consumed once by the selector to write
// the bound form fields and is never retained.
package place
