package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-maplocation/pkg/binder"
	"github.com/goliatone/go-maplocation/pkg/model"
	"github.com/goliatone/go-maplocation/pkg/render"
	"github.com/goliatone/go-maplocation/pkg/selector"
)

// Issue is one validation failure tied to a bound field.
type Issue struct {
	Field   model.Field `json:"field,omitempty"`
	Input   string      `json:"input,omitempty"`
	Message string      `json:"message"`
}

// Result captures the outcome of validating a submitted location.
type Result struct {
	Valid    bool           `json:"valid"`
	Location model.Location `json:"location"`
	Issues   []Issue        `json:"issues,omitempty"`
}

// Errors groups issue messages by field, ready for render.RenderOptions.
func (r Result) Errors() map[model.Field][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[model.Field][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = render.MergeFormErrors(out[issue.Field], issue.Message)
	}
	return out
}

// Options configures submission validation.
type Options struct {
	// AddressNotFound is the untranslated message for an address without
	// coordinates. Defaults to selector.DefaultAddressNotFound.
	AddressNotFound string
	Translator      render.Translator
	Locale          string
	// RequireAddress reports an empty address as an issue.
	RequireAddress bool
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func locationValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		mustRegister(v, "latitude_range", func(fl validator.FieldLevel) bool {
			lat := fl.Field().Float()
			return lat >= -90 && lat <= 90
		})
		mustRegister(v, "longitude_range", func(fl validator.FieldLevel) bool {
			lng := fl.Field().Float()
			return lng >= -180 && lng <= 180
		})
		validate = v
	})
	return validate
}

// mustRegister panics when tag cannot be registered, so a broken range rule
// never degrades into a silently skipped check.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// ValidateSubmission checks submitted values the way the browser validation
// hook does: an address with neither coordinate set is rejected with the
// "address not found" message. Coordinates must parse, come as a pair and lie
// within range.
func ValidateSubmission(bindings model.Bindings, values map[model.Field]string, opts Options) Result {
	result := Result{Valid: true}
	issue := func(field model.Field, message string) {
		binding, _ := bindings.Lookup(field)
		result.Issues = append(result.Issues, Issue{Field: field, Input: binding.InputName, Message: message})
	}

	address := strings.TrimSpace(values[model.FieldAddress])
	lat := strings.TrimSpace(values[model.FieldLatitude])
	lng := strings.TrimSpace(values[model.FieldLongitude])

	switch {
	case address == "" && opts.RequireAddress:
		issue(model.FieldAddress, "address is required")
	case address != "" && lat == "" && lng == "":
		issue(model.FieldAddress, addressNotFound(opts))
	}

	parsed := make(map[model.Field]string, len(values))
	for field, value := range values {
		parsed[field] = value
	}
	for _, field := range []model.Field{model.FieldLatitude, model.FieldLongitude} {
		raw := strings.TrimSpace(values[field])
		if raw == "" {
			continue
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			issue(field, "must be a number")
			delete(parsed, field)
		}
	}
	if (lat == "") != (lng == "") {
		missing := model.FieldLatitude
		if lng == "" {
			missing = model.FieldLongitude
		}
		issue(missing, "latitude and longitude must be set together")
	}

	loc, err := model.LocationFromValues(parsed)
	if err == nil {
		result.Location = loc
		for _, fieldErr := range structIssues(locationValidator().Struct(loc)) {
			issue(fieldErr.field, fieldErr.message)
		}
	}

	result.Valid = len(result.Issues) == 0
	return result
}

// ValidateForm reads the bound inputs out of a url.Values shaped payload and
// validates them.
func ValidateForm(bindings model.Bindings, form map[string][]string, opts Options) Result {
	return ValidateSubmission(bindings, bindings.ValuesFromForm(form), opts)
}

type fieldIssue struct {
	field   model.Field
	message string
}

var structFields = map[string]model.Field{
	"Latitude":  model.FieldLatitude,
	"Longitude": model.FieldLongitude,
}

func structIssues(err error) []fieldIssue {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldIssue{{field: model.FieldAddress, message: err.Error()}}
	}
	out := make([]fieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		field, ok := structFields[fe.StructField()]
		if !ok {
			field, _ = model.ParseField(fe.StructField())
		}
		out = append(out, fieldIssue{field: field, message: tagMessage(fe)})
	}
	return out
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "latitude_range":
		return "latitude must be between -90 and 90"
	case "longitude_range":
		return "longitude must be between -180 and 180"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func addressNotFound(opts Options) string {
	fallback := strings.TrimSpace(opts.AddressNotFound)
	if fallback == "" {
		fallback = selector.DefaultAddressNotFound
	}
	return render.Translate(opts.Translator, opts.Locale, binder.AddressNotFoundKey, fallback, nil)
}
