// Package validation wraps go-playground/validator with the catalog's enum
// tags and readable field messages.
//
// Registered tags:
//   - location: madinah, makkah or aziziya
//   - proximity: adjacent, near, mid or far
//   - camp: premium or muaisim
//   - occupancy: any, quad, triple or double
//
// Field names in messages use the json tag of the field, or its koanf tag
// for configuration structs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error collects every failed rule of one struct.
type Error struct {
	Fields []FieldError
}

// Error joins the field messages.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Messages(), "; ")
}

// Messages returns one message per failed rule.
func (e *Error) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

// Get returns the singleton validator.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "koanf"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})

		mustRegister("location", func(fl validator.FieldLevel) bool {
			return catalog.Location(fl.Field().String()).Valid()
		})
		mustRegister("proximity", func(fl validator.FieldLevel) bool {
			return catalog.Proximity(fl.Field().String()).Rank() >= 0
		})
		mustRegister("camp", func(fl validator.FieldLevel) bool {
			return catalog.CampTier(fl.Field().String()).Valid()
		})
		mustRegister("occupancy", func(fl validator.FieldLevel) bool {
			return catalog.Occupancy(fl.Field().String()).Valid()
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validator: %v", tag, err))
	}
}

// Struct validates s. It returns nil or an *Error.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: translate(fe),
		})
	}
	return out
}

var messages = map[string]string{
	"required":  "%s is required",
	"location":  "%s must be one of madinah, makkah, aziziya",
	"proximity": "%s must be one of adjacent, near, mid, far",
	"camp":      "%s must be one of premium, muaisim",
	"occupancy": "%s must be one of any, quad, triple, double",
	"datetime":  "%s must be a date in YYYY-MM-DD format",
	"url":       "%s must be a valid URL",
}

var messagesWithParam = map[string]string{
	"gt":    "%s must be greater than %s",
	"gte":   "%s must be greater than or equal to %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"oneof": "%s must be one of: %s",
}

var collectionMessages = map[string]string{
	"min": "%s must have at least %s entries",
	"max": "%s must have at most %s entries",
}

func translate(fe validator.FieldError) string {
	field := fieldPath(fe)
	tag := fe.Tag()

	// Or-tags such as "location|eq=any" report the whole expression.
	if i := strings.IndexByte(tag, '|'); i > 0 {
		tag = tag[:i]
	}

	if tmpl, ok := messages[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if tmpl, ok := collectionMessages[tag]; ok {
			return fmt.Sprintf(tmpl, field, fe.Param())
		}
	}
	if tmpl, ok := messagesWithParam[tag]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
