// Package selector implements the location selector behind the map widget.
//
// A Selector owns the state of one widget instance: the current marker and
// the interaction sequence. Host adapters feed it the three input pathways
// (autocomplete, map click, marker drag) and it writes the resulting address
// components and coordinates into the bound form inputs through the Form
// interface. The browser runtime under pkg/runtime/assets follows the same
// rules against the Google Maps JS API; this package is used by the CLI, the
// server-side submission fallback, and tests.
package selector
