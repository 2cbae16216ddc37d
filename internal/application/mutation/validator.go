package mutation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks schema structs and turns failures into per-field messages.
//
// Schema fields carry a `form` tag naming the submitted field and an optional
// `msg` tag. `msg` is either a single message used for every rule, or a list
// of rule=message pairs separated by ";".
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator configured for form schemas
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use form tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Check validates a pointer to a schema struct
func (v *Validator) Check(schema interface{}) FieldErrors {
	errs := FieldErrors{}
	err := v.validate.Struct(schema)
	if err == nil {
		return errs
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs.Add("form", "Invalid form submission")
		return errs
	}

	t := reflect.TypeOf(schema)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for _, fe := range validationErrors {
		field, _ := t.FieldByName(fe.StructField())
		errs.Add(fe.Field(), messageFor(fe, field.Tag.Get("msg")))
	}
	return errs
}

// messageFor picks the message declared in the msg tag, falling back to a
// generic description of the failed rule
func messageFor(fe validator.FieldError, msgTag string) string {
	if msgTag != "" {
		if !strings.Contains(msgTag, "=") {
			return msgTag
		}
		for _, pair := range strings.Split(msgTag, ";") {
			tag, message, ok := strings.Cut(pair, "=")
			if ok && strings.TrimSpace(tag) == fe.Tag() {
				return strings.TrimSpace(message)
			}
		}
	}
	return defaultMessage(fe)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "datetime":
		return "Must match the format " + fe.Param()
	default:
		return "Invalid value"
	}
}
