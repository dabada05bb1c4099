// Package validation wraps go-playground/validator with JSON field names and
// human readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// FieldError is the first failing field of a struct, named by its JSON path.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s and returns its first failure as a *FieldError.
func Struct(s any) error {
	return translate(validate.Struct(s))
}

// Var validates a single value against tag.
func Var(v any, tag string) error {
	return translate(validate.Var(v, tag))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) && len(valErrs) > 0 {
		ve := valErrs[0]
		return &FieldError{Field: fieldPath(ve), Message: formatValidationError(ve)}
	}
	return err
}

// fieldPath drops the struct name from the namespace, leaving the JSON path.
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "max":
		if ve.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", ve.Param())
		}
		return fmt.Sprintf("must be at most %s characters", ve.Param())
	case "min":
		if ve.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", ve.Param())
		}
		return fmt.Sprintf("must be at least %s characters", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "http_url", "url":
		return "must be an absolute http(s) URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
