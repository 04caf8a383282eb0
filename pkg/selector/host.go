package selector

import (
	"context"

	"github.com/goliatone/go-maplocation/pkg/place"
)

// Form reads and writes bound inputs by selector.
type Form interface {
	Value(selector string) string
	SetValue(selector, value string)
	TriggerChange(selector string)
}

// Map is the map view the selector drives.
type Map interface {
	SetCenter(at place.LatLng)
	SetZoom(zoom int)
	FitBounds(bounds place.Bounds)
}

// DragEndFunc receives the position a marker was dropped at.
type DragEndFunc func(ctx context.Context, at place.LatLng)

// Marker is one visual marker on the map.
type Marker interface {
	Position() place.LatLng
	OnDragEnd(fn DragEndFunc)
	// Remove takes the marker off the map and detaches every listener.
	Remove()
}

// MarkerFactory creates markers on the map.
type MarkerFactory interface {
	NewMarker(at place.LatLng, draggable bool) Marker
}
