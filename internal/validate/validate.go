// Package validate runs the `validate:` struct tags shared by the ledgers and
// reports the first failure as an *Error naming the JSON field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid matches every validation failure.
var ErrInvalid = errors.New("invalid input")

var (
	ErrNotPositive = errors.New("must be greater than zero")
	ErrBadDate     = errors.New("must be a YYYY-MM-DD date")
	ErrBadMonth    = errors.New("must be a YYYY-MM month")
	ErrOutOfRange  = errors.New("out of range")
	ErrRequired    = errors.New("is required")
	ErrNotAllowed  = errors.New("not an allowed value")
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Error reports which field failed. It matches ErrInvalid and its cause with errors.Is.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrInvalid, e.Err}
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return f.Name
		}

		return name
	})

	return val
}

// Struct checks the `validate:` tags of s, reporting fields by their JSON name.
func Struct(s any) error {
	return translate("", v.Struct(s))
}

// Var checks a single value against a tag expression such as "gt=0".
func Var(field string, value any, tag string) error {
	return translate(field, v.Var(value, tag))
}

func translate(field string, err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	if field == "" {
		field = fe.Field()
	}

	return &Error{Field: field, Err: cause(fe)}
}

func cause(fe validator.FieldError) error {
	switch fe.Tag() {
	case "gt":
		if fe.Param() == "0" {
			return ErrNotPositive
		}

		return fmt.Errorf("%w: must be greater than %s", ErrOutOfRange, fe.Param())
	case "datetime":
		if fe.Param() == MonthLayout {
			return ErrBadMonth
		}

		return ErrBadDate
	case "min", "max", "gte", "lte":
		return fmt.Errorf("%w: %v fails %s=%s", ErrOutOfRange, fe.Value(), fe.Tag(), fe.Param())
	case "required":
		return ErrRequired
	case "oneof":
		return fmt.Errorf("%w: must be one of %s", ErrNotAllowed, strings.ReplaceAll(fe.Param(), " ", ", "))
	}

	return fmt.Errorf("failed %q check", fe.Tag())
}

// Month checks a YYYY-MM month key.
func Month(field, s string) error {
	return Var(field, s, "datetime="+MonthLayout)
}
