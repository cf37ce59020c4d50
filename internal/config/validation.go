package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Tag-based rules live on the
// declaration types in types.go.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateDeclaration runs struct validation and renders field errors into
// one message per offending field.
func validateDeclaration(decl any) error {
	err := validate.Struct(decl)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var messages []string
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

// describeFieldError renders a single validator field error.
func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %q is required", field)
	case "required_unless":
		return fmt.Sprintf("field %q is required for present sources", field)
	case "url":
		return fmt.Sprintf("field %q must be a valid URL, got %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("field %q must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("field %q failed %s validation", field, fe.Tag())
	}
}
