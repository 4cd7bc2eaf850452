// Package validation is the single source of truth for shape and
// constraint checking of payloads crossing the API boundary. It
// produces either a typed payload or an *Error listing every violated
// field, so handlers can map validation failures to 400 responses and
// keep every other failure kind separate.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error enumerates validation failures per field (json field name →
// human-readable message).
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newError() *Error {
	return &Error{Fields: make(map[string]string)}
}

func (e *Error) add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *Error) has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *Error) orNil() *Error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

// newValidator builds a validator that reports fields by their json
// names, so messages match what the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct runs constraint checks on a payload struct and returns nil or
// an *Error with one message per violated field.
func Struct(payload interface{}) *Error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	verr := newError()
	for _, fe := range err.(validator.ValidationErrors) {
		verr.add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
