package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-maplocation/pkg/geocode"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

// ResolveSubmission geocodes the submitted address when both coordinates are
// missing and fills the bound fields through a headless selector before
// validating. The address itself is kept as submitted. Without a geocoder it
// behaves like ValidateSubmission.
func ResolveSubmission(ctx context.Context, bindings model.Bindings, values map[model.Field]string, geocoder geocode.Geocoder, opts Options) (Result, error) {
	address := strings.TrimSpace(values[model.FieldAddress])
	lat := strings.TrimSpace(values[model.FieldLatitude])
	lng := strings.TrimSpace(values[model.FieldLongitude])
	if geocoder == nil || address == "" || lat != "" || lng != "" {
		return ValidateSubmission(bindings, values, opts), nil
	}

	cfg := selector.DefaultConfig(bindings.Selectors())
	seed := make(map[string]string, len(values))
	for field, value := range values {
		if sel := cfg.Selector(field); sel != "" {
			seed[sel] = value
		}
	}
	form := selector.NewMemoryForm(seed)

	sel, err := selector.New(cfg, form, selector.WithGeocoder(geocoder))
	if err != nil {
		return Result{}, fmt.Errorf("validation: resolve submission: %w", err)
	}
	if _, err := sel.GeocodeAddress(ctx, address); err != nil && !errors.Is(err, geocode.ErrNotFound) {
		return Result{}, fmt.Errorf("validation: resolve address: %w", err)
	}

	resolved := form.FieldValues(cfg)
	for field, value := range values {
		if _, ok := resolved[field]; !ok {
			resolved[field] = value
		}
	}
	return ValidateSubmission(bindings, resolved, opts), nil
}
