// Package model describes the location record edited by the widget and the
// binding between its logical fields and a caller-supplied form model.
//
// A Model exposes a form name and attribute values. Bind resolves every
// configured attribute to a DOM input id (`<formname>-<attribute>`) and input
// name (`FormName[attribute]`), producing an ordered, immutable Bindings value
// that both the server-side binder and the selector consume. Binding failures
// (unknown attributes, duplicate ids, missing required fields) are returned as
// *BindingError so callers can tell misconfiguration apart from runtime
// failures.
package model
