package selector

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/place"
)

// MemoryForm is an in-memory Form keyed by selector.
type MemoryForm struct {
	mu      sync.Mutex
	values  map[string]string
	changes []string
}

var _ Form = (*MemoryForm)(nil)

// NewMemoryForm creates a form seeded with values keyed by selector.
func NewMemoryForm(values map[string]string) *MemoryForm {
	form := &MemoryForm{values: make(map[string]string, len(values))}
	for selector, value := range values {
		form.values[selector] = value
	}
	return form
}

// NewMemoryFormFromBindings seeds a form with the rendered binding values.
func NewMemoryFormFromBindings(bindings model.Bindings) *MemoryForm {
	form := &MemoryForm{values: make(map[string]string, len(bindings))}
	for _, binding := range bindings {
		form.values[binding.Selector()] = binding.Value
	}
	return form
}

func (f *MemoryForm) Value(selector string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[selector]
}

func (f *MemoryForm) SetValue(selector, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[selector] = value
}

func (f *MemoryForm) TriggerChange(selector string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, selector)
}

// Values returns a copy of every stored value.
func (f *MemoryForm) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for selector, value := range f.values {
		out[selector] = value
	}
	return out
}

// FieldValues maps the stored values back to fields using the config
// selectors. Blank values are omitted.
func (f *MemoryForm) FieldValues(cfg Config) map[model.Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[model.Field]string, len(cfg.Selectors))
	for field, selector := range cfg.Selectors {
		if value := f.values[selector]; value != "" {
			out[field] = value
		}
	}
	return out
}

// Changes returns the selectors that received change notifications, in order.
func (f *MemoryForm) Changes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.changes...)
}

// ChangedSelectors returns the distinct selectors that changed, sorted.
func (f *MemoryForm) ChangedSelectors() []string {
	seen := map[string]struct{}{}
	for _, selector := range f.Changes() {
		seen[selector] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for selector := range seen {
		out = append(out, selector)
	}
	sort.Strings(out)
	return out
}

// RecordingMap records the calls made against the map view.
type RecordingMap struct {
	mu      sync.Mutex
	center  place.LatLng
	zoom    int
	fitted  []place.Bounds
	centers int
}

var _ Map = (*RecordingMap)(nil)

func (m *RecordingMap) SetCenter(at place.LatLng) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = at
	m.centers++
}

func (m *RecordingMap) SetZoom(zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = zoom
}

func (m *RecordingMap) FitBounds(bounds place.Bounds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fitted = append(m.fitted, bounds)
}

// Center returns the last center set.
func (m *RecordingMap) Center() place.LatLng {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center
}

// Zoom returns the last zoom set.
func (m *RecordingMap) Zoom() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoom
}

// Fitted returns every bounds passed to FitBounds.
func (m *RecordingMap) Fitted() []place.Bounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]place.Bounds(nil), m.fitted...)
}

// RecordingMarkers is a MarkerFactory that keeps every marker it created.
type RecordingMarkers struct {
	mu      sync.Mutex
	created []*RecordingMarker
}

var _ MarkerFactory = (*RecordingMarkers)(nil)

func (r *RecordingMarkers) NewMarker(at place.LatLng, draggable bool) Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	marker := &RecordingMarker{position: at, draggable: draggable}
	r.created = append(r.created, marker)
	return marker
}

// Created returns every marker ever created, in order.
func (r *RecordingMarkers) Created() []*RecordingMarker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordingMarker(nil), r.created...)
}

// Active returns the markers that have not been removed.
func (r *RecordingMarkers) Active() []*RecordingMarker {
	var out []*RecordingMarker
	for _, marker := range r.Created() {
		if !marker.Removed() {
			out = append(out, marker)
		}
	}
	return out
}

// RecordingMarker is an in-memory marker.
type RecordingMarker struct {
	mu        sync.Mutex
	position  place.LatLng
	draggable bool
	removed   bool
	listeners []DragEndFunc
}

var _ Marker = (*RecordingMarker)(nil)

func (m *RecordingMarker) Position() place.LatLng {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *RecordingMarker) OnDragEnd(fn DragEndFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *RecordingMarker) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = true
	m.listeners = nil
}

// Draggable reports whether the marker was created draggable.
func (m *RecordingMarker) Draggable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draggable
}

// Removed reports whether Remove was called.
func (m *RecordingMarker) Removed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed
}

// Listeners returns the number of attached drag listeners.
func (m *RecordingMarker) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// Drag moves the marker to at and fires the drag-end listeners. Removed
// markers ignore drags.
func (m *RecordingMarker) Drag(ctx context.Context, at place.LatLng) {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return
	}
	m.position = at
	listeners := append([]DragEndFunc(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, at)
	}
}
