package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all endpoint wrappers; go-playground caches struct
// metadata so a single instance is the cheap option.
var validate = validator.New()

// checkInput validates an outbound payload before it leaves the process.
// Failures become KindValidation errors with one detail entry per field, the
// same shape a backend 422 produces, so callers handle both identically.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return unknownError(err)
	}

	details := make(map[string]any, len(ve))
	for _, fe := range ve {
		details[strings.ToLower(fe.Field())] = fieldError(fe)
	}
	return &Error{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "invalid data",
		Details: details,
	}
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain only digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
