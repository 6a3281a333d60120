// Package validation contains the logic for validating request data.
//
// It uses the `validator` library to enforce rules (like required
// fields or length limits) defined in struct tags, and extracts
// validation failures into messages the client can understand.
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pr-poehali-dev/cloud-test-site/internal/errs"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
//
// Typical pattern: define a request struct with validator tags
// (`validate:"required,max=255"`) and implement Validate() by calling
// validation.Struct on yourself.
type Validatable interface {
	Validate() error
}

var validate = validator.New()

// Struct runs validator-tag validation over v.
func Struct(v any) error {
	return validate.Struct(v)
}

// ParseAndValidate decodes a raw JSON body into payload and validates it.
//
// The invocation contract delivers the request body as a string (absent
// bodies arrive as "{}"), so this is the event-native counterpart of a
// router's bind step. payload must be a pointer.
//
// Failures come back as *errs.HTTPError with status 400:
//   - malformed JSON     -> "Invalid JSON body"
//   - tag validation     -> first field failure as the wire message,
//     with all field errors attached for logging
func ParseAndValidate(body string, payload Validatable) error {
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}

	if err := json.Unmarshal([]byte(body), payload); err != nil {
		return errs.NewBadRequestError("Invalid JSON body")
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, fieldErrors...)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

// extractValidationError converts validator.ValidationErrors into
// field-level messages and a single wire message built from the first
// failure, e.g. "title must not exceed 255 characters".
func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		var msg string

		switch fieldErr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if fieldErr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fieldErr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fieldErr.Param())
			}

		case "max":
			if fieldErr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fieldErr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fieldErr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fieldErr.Param())

		default:
			if fieldErr.Param() != "" {
				msg = fmt.Sprintf("failed %s:%s", fieldErr.Tag(), fieldErr.Param())
			} else {
				msg = fmt.Sprintf("failed %s", fieldErr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	message := "Validation failed"
	if len(fieldErrors) > 0 {
		message = capitalize(fieldErrors[0].Field) + " " + fieldErrors[0].Error
	}

	return message, fieldErrors
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
