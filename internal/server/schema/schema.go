// Package schema validates and decodes the requests accepted by the command
// and query handlers. Failures are reported as *ValidationError with one
// Issue per offending field; nothing here panics on malformed input.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Issue is a single field-scoped validation failure. Field uses the JSON
// path of the value ("fields[0].label"); it is empty for document-level
// problems such as malformed JSON.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		if i.Field == "" {
			parts = append(parts, i.Message)
			continue
		}
		parts = append(parts, i.Field+": "+i.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Invalid builds a ValidationError with a single issue.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Field: field, Message: message}}}
}

// crossChecker is implemented by requests with rules spanning several fields.
type crossChecker interface {
	crossCheck() []Issue
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("id", isID)
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return v
}

// isID accepts the canonical 36-character UUID form only.
func isID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Validate checks v (a pointer to a request struct) against its tags and
// cross-field rules.
func Validate(v any) error {
	var issues []Issue

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{Issues: []Issue{{Message: err.Error()}}}
		}
		for _, fe := range verrs {
			issues = append(issues, Issue{Field: fieldPath(fe), Message: message(fe)})
		}
	}

	if c, ok := v.(crossChecker); ok {
		issues = append(issues, c.crossCheck()...)
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Decode unmarshals JSON data into dst and validates the result.
func Decode(data []byte, dst any) error {
	if err := Unmarshal(data, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// Unmarshal decodes JSON data into dst without validating it. Shape
// mismatches are reported as *ValidationError. An empty body decodes as {}.
func Unmarshal(data []byte, dst any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Invalid(typeErr.Field, fmt.Sprintf("must be %s", describeKind(typeErr.Type)))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Invalid("", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}

	return Invalid("", err.Error())
}

func describeKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a " + t.Kind().String()
	}
}

// fieldPath strips the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "id":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		return sizeMessage("at least", fe)
	case "max":
		return sizeMessage("at most", fe)
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

func sizeMessage(bound string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", bound, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", bound, fe.Param())
	default:
		return fmt.Sprintf("must be %s %s", bound, fe.Param())
	}
}
