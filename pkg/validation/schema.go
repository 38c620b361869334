// Package validation checks form records against their schema and reports
// every violation at once, one message per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/neurostream/intake/pkg/models"
)

var personName = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names so errors line up with form inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personName.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsRole(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Errors maps a field name to a single human-readable message
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field of r and returns nil when r is valid
func Validate(r models.Record) Errors {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on programmer error (non-struct record)
		panic(err)
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(r.Kind(), fe.Field(), fe.Tag())
	}
	return out
}

func message(kind models.Kind, field, tag string) string {
	if msg, ok := messages[kind][field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
