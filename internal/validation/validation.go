// Package validation provides field-keyed input validation errors for the API.
// Every invalid input surfaces as a map of field name to human-readable
// reasons, never as a single opaque error string.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the reasons it was rejected.
type Errors map[string][]string

// Error implements the error interface.
func (e Errors) Error() string {
	var b strings.Builder

	b.WriteString("validation failed:")

	for field, reasons := range e {
		b.WriteString(" " + field + ": " + strings.Join(reasons, ", ") + ";")
	}

	return b.String()
}

// Add records a reason for a field.
func (e Errors) Add(field, reason string) {
	e[field] = append(e[field], reason)
}

// Empty reports whether no field was rejected.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Collect translates validator.v10 struct errors into field-keyed reasons,
// using the struct tag name lowered to its json-ish form.
func Collect(err error, out Errors) {
	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns this concrete type
	if !ok {
		out.Add("detail", err.Error())
		return
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			out.Add(field, "This field is required")
		case "max":
			out.Add(field, "Must be at most "+fe.Param()+" characters")
		case "min":
			out.Add(field, "Must be at least "+fe.Param()+" characters")
		default:
			out.Add(field, "Invalid value")
		}
	}
}
