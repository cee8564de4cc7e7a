// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Messages shown for field problems
const (
	MsgRequired      = "This field is required."
	MsgInvalidNumber = "A valid number is required."
	MsgInvalidInt    = "A valid integer is required."
	MsgInvalidJSON   = "Value must be valid JSON."
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// rgbColor accepts #rgb and #rrggbb, without the alpha forms hexcolor allows
var rgbColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Errors collects every field problem of one submission.
// The zero value is ready to use.
type Errors struct {
	fields map[string][]string
}

// Add records a message for field
func (e *Errors) Add(field, message string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	e.fields[field] = append(e.fields[field], message)
}

// Has reports whether field already has a message
func (e *Errors) Has(field string) bool {
	return len(e.fields[field]) > 0
}

// Empty reports whether no problems were recorded
func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

// Fields returns the messages keyed by field name
func (e *Errors) Fields() map[string][]string {
	return e.fields
}

// First returns the first message for field, or ""
func (e *Errors) First(field string) string {
	if e == nil || len(e.fields[field]) == 0 {
		return ""
	}
	return e.fields[field][0]
}

// Err returns e as an error, or nil when no problems were recorded
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.fields[name], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// get returns the shared validator, using json tag names as field names
func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		validate.RegisterValidation("rgbcolor", func(fl validator.FieldLevel) bool {
			return rgbColor.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates s and adds one message per failing field to errs.
// Fields that already carry a message (usually a parse failure) are skipped
// so each field reports its most specific problem.
func Struct(s any, errs *Errors) {
	err := get().Struct(s)
	if err == nil {
		return
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("non_field_errors", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		if errs.Has(fe.Field()) {
			continue
		}
		errs.Add(fe.Field(), translate(fe))
	}
}

// Var validates a single value against tag
func Var(value any, tag string) bool {
	return get().Var(value, tag) == nil
}

func translate(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "hexcolor", "rgbcolor":
		return "Enter a valid hex color."
	case "gte", "min":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte", "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation.", fe.Tag())
	}
}
