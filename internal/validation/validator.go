package validation

import (
	"fmt"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/larkerlabs/storefront-orderflow/internal/apierr"
)

// New returns a configured validator. JSON tag names are used in error
// output so field keys match what the client actually sent.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Check runs struct validation and converts failures into a field-keyed
// apierr.Validation error. Returns nil for valid input, never panics.
func Check(v *validatorv10.Validate, in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			fields[fe.Field()] = messageFor(fe)
		}
	} else {
		fields["request"] = err.Error()
	}
	return apierr.Validation(fields)
}

func messageFor(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
