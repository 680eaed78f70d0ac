// Package validation checks form input before it leaves the device, using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for the recipebook forms.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// notblank rejects whitespace-only strings, which "required" lets through.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{v: v}
}

// fieldChecker is implemented by inputs with rules struct tags cannot express.
type fieldChecker interface {
	CheckFields() map[string]string
}

// Validate validates a struct and returns a domain validation error whose
// details map each offending field to a message.
func (v *Validator) Validate(s any) error {
	fieldErrors := map[string]string{}

	if err := v.v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		for _, e := range validationErrs {
			field := fieldPath(e)
			if _, seen := fieldErrors[field]; !seen {
				fieldErrors[field] = friendlyMessage(e)
			}
		}
	}

	if c, ok := s.(fieldChecker); ok {
		for field, msg := range c.CheckFields() {
			if _, seen := fieldErrors[field]; !seen {
				fieldErrors[field] = msg
			}
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return newError(fieldErrors)
}

// newError builds the domain error for a set of field problems.
func newError(fieldErrors map[string]string) error {
	fields := make([]string, 0, len(fieldErrors))
	for f := range fieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return domainerrors.ValidationWithDetails("invalid "+strings.Join(fields, ", "), fieldErrors)
}

// fieldPath returns the namespaced field without the root struct name,
// e.g. "ingredients[2]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

//nolint:gocyclo // Switch covering validation tags is intentionally exhaustive.
func friendlyMessage(e validator.FieldError) string {
	collection := e.Kind() == reflect.Slice || e.Kind() == reflect.Array
	switch e.Tag() {
	case "required", "notblank":
		if collection {
			return "must not be empty"
		}
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if collection {
			return fmt.Sprintf("must contain at least %s entries", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if collection {
			return fmt.Sprintf("must contain at most %s entries", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "eqfield":
		return "must match " + lowerFirst(e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
