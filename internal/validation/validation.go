// Package validation turns struct-tag validation into field-keyed error
// maps that forms can show next to each input.
package validation

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/TWRT/taskflow-client/internal/models"
)

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Error joins the field messages in a stable order.
func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the JSON tag name function
// and the custom "timestamp" and "notblank" rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "timestamp", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseTimestamp(fl.Field().String())
			return ok
		})
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates v and returns nil when it is valid.
func Struct(v any) (FieldErrors, error) {
	err := Validator().Struct(v)
	if err == nil {
		return nil, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, fmt.Errorf("validate %T: %w", v, err)
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := topLevelField(fe.Namespace())
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe)
	}
	return out, nil
}

// topLevelField strips the struct name and any slice index so that errors
// on task_statuses[2] are reported against task_statuses.
func topLevelField(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	field := parts[0]
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return field
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		if fe.Kind() == reflect.Slice {
			return "at least one value is required"
		}
		return "is required"
	case "min":
		return "at least " + fe.Param() + " value(s) required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "timestamp":
		return "must be a date (YYYY-MM-DD) or RFC3339 timestamp"
	case "unique":
		return "values must be unique"
	case "gt":
		return "is required"
	default:
		return "is invalid"
	}
}
