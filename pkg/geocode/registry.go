package geocode

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores geocoders by name so binaries can pick a provider from
// configuration.
type Registry struct {
	mu        sync.RWMutex
	geocoders map[string]Geocoder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{geocoders: make(map[string]Geocoder)}
}

// Register adds a geocoder under name. Duplicate names return an error.
func (r *Registry) Register(name string, geocoder Geocoder) error {
	if geocoder == nil {
		return fmt.Errorf("geocode: geocoder is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("geocode: geocoder name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.geocoders[name]; exists {
		return fmt.Errorf("geocode: geocoder %q already registered", name)
	}
	r.geocoders[name] = geocoder
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, geocoder Geocoder) {
	if err := r.Register(name, geocoder); err != nil {
		panic(err)
	}
}

// Get retrieves a geocoder by name.
func (r *Registry) Get(name string) (Geocoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	geocoder, ok := r.geocoders[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("geocode: geocoder %q not found", name)
	}
	return geocoder, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.geocoders))
	for name := range r.geocoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
