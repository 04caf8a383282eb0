package geocode

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-maplocation/pkg/place"
)

// coordPrecision quantizes reverse lookups (0.0001 degrees, about 11 m).
const coordPrecision = 1e-4

type reverseKey struct {
	Provider string
	LatQ     int32
	LngQ     int32
}

type forwardKey struct {
	Provider string
	Query    string
}

type cacheEntry struct {
	Places []place.Place
	Expiry time.Time
}

// CachedGeocoder memoizes another Geocoder. Hits and misses (empty results)
// keep separate TTLs; errors are never cached.
type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	reverse map[reverseKey]cacheEntry
	forward map[forwardKey]cacheEntry
}

var _ Geocoder = (*CachedGeocoder)(nil)

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		now:     time.Now,
		reverse: make(map[reverseKey]cacheEntry),
		forward: make(map[forwardKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

// Unwrap returns the decorated geocoder.
func (c *CachedGeocoder) Unwrap() Geocoder {
	return c.coder
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) ([]place.Place, error) {
	key := forwardKey{Provider: c.coder.Name(), Query: normalizeQuery(query)}

	c.mu.RLock()
	entry, ok := c.forward[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.Expiry) {
		return clonePlaces(entry.Places), nil
	}

	places, err := c.coder.Geocode(ctx, query)
	if err != nil {
		return places, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.forward[key] = cacheEntry{Places: clonePlaces(places), Expiry: c.now().Add(c.ttl(places))}
	return places, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, at place.LatLng) ([]place.Place, error) {
	key := reverseKey{
		Provider: c.coder.Name(),
		LatQ:     quantizeCoord(at.Lat),
		LngQ:     quantizeCoord(at.Lng),
	}

	c.mu.RLock()
	entry, ok := c.reverse[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.Expiry) {
		return clonePlaces(entry.Places), nil
	}

	places, err := c.coder.Reverse(ctx, at)
	if err != nil {
		return places, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reverse[key] = cacheEntry{Places: clonePlaces(places), Expiry: c.now().Add(c.ttl(places))}
	return places, nil
}

// Autocomplete forwards to the wrapped geocoder when it supports suggestions.
// Suggestions are session-scoped and never cached.
func (c *CachedGeocoder) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Suggestion, error) {
	ac, ok := c.coder.(Autocompleter)
	if !ok {
		return nil, ErrUnsupported
	}
	return ac.Autocomplete(ctx, req)
}

// PlaceDetails forwards to the wrapped geocoder when it supports suggestions.
func (c *CachedGeocoder) PlaceDetails(ctx context.Context, placeID, sessionToken string) (place.Place, error) {
	ac, ok := c.coder.(Autocompleter)
	if !ok {
		return place.Place{}, ErrUnsupported
	}
	return ac.PlaceDetails(ctx, placeID, sessionToken)
}

// Purge drops expired entries and returns how many were removed.
func (c *CachedGeocoder) Purge() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.reverse {
		if !now.Before(entry.Expiry) {
			delete(c.reverse, key)
			removed++
		}
	}
	for key, entry := range c.forward {
		if !now.Before(entry.Expiry) {
			delete(c.forward, key)
			removed++
		}
	}
	return removed
}

func (c *CachedGeocoder) ttl(places []place.Place) time.Duration {
	if len(places) == 0 {
		return c.ttlMiss
	}
	return c.ttlHit
}

func quantizeCoord(val float64) int32 {
	return int32(math.Round(val / coordPrecision))
}

func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func clonePlaces(in []place.Place) []place.Place {
	if in == nil {
		return nil
	}
	return append([]place.Place(nil), in...)
}

// SupportsAutocomplete reports whether g can serve suggestions, looking
// through caching decorators.
func SupportsAutocomplete(g Geocoder) bool {
	for g != nil {
		if cached, ok := g.(*CachedGeocoder); ok {
			g = cached.Unwrap()
			continue
		}
		_, ok := g.(Autocompleter)
		return ok
	}
	return false
}
