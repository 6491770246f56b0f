// Package validation runs field-level rules and collects their failures into
// results that factories can return to calling services.
package validation

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/multierr"

	"hrkernel/domain/shared"
	"hrkernel/pkg/result"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Value   any    `json:"-"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap makes errors.Is(err, shared.ErrValidation) hold for every field error.
func (e *FieldError) Unwrap() error {
	return shared.ErrValidation
}

// FieldValidator is a named predicate over one field value.
type FieldValidator[T any] struct {
	Field   string
	Code    string
	Message string
	Check   func(T) bool
}

// Validate returns nil when value passes.
func (v FieldValidator[T]) Validate(value T) *FieldError {
	if v.Check(value) {
		return nil
	}
	return &FieldError{Field: v.Field, Message: v.Message, Code: v.Code, Value: value}
}

// ValidateField runs validators in order and returns the first failure, or nil.
func ValidateField[T any](value T, validators ...FieldValidator[T]) *FieldError {
	for _, v := range validators {
		if err := v.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Common validators
// ============================================================================

const (
	CodeRequired = "REQUIRED"
	CodeTooShort = "TOO_SHORT"
	CodeTooLong  = "TOO_LONG"
	CodePattern  = "INVALID_FORMAT"
	CodeRange    = "OUT_OF_RANGE"
	CodeOneOf    = "NOT_ALLOWED"
	CodeInvalid  = "INVALID"
)

func Custom[T any](field, code, message string, check func(T) bool) FieldValidator[T] {
	return FieldValidator[T]{Field: field, Code: code, Message: message, Check: check}
}

// Required rejects blank strings.
func Required(field string) FieldValidator[string] {
	return Custom(field, CodeRequired, "is required", func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
}

// MinLength counts runes, not bytes.
func MinLength(field string, n int) FieldValidator[string] {
	return Custom(field, CodeTooShort, fmt.Sprintf("must be at least %d characters", n), func(s string) bool {
		return utf8.RuneCountInString(s) >= n
	})
}

func MaxLength(field string, n int) FieldValidator[string] {
	return Custom(field, CodeTooLong, fmt.Sprintf("must be at most %d characters", n), func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	})
}

func Pattern(field string, re *regexp.Regexp, message string) FieldValidator[string] {
	return Custom(field, CodePattern, message, re.MatchString)
}

// Between is inclusive on both ends.
func Between[T cmp.Ordered](field string, lo, hi T) FieldValidator[T] {
	return Custom(field, CodeRange, fmt.Sprintf("must be between %v and %v", lo, hi), func(v T) bool {
		return v >= lo && v <= hi
	})
}

func Min[T cmp.Ordered](field string, lo T) FieldValidator[T] {
	return Custom(field, CodeRange, fmt.Sprintf("must be at least %v", lo), func(v T) bool {
		return v >= lo
	})
}

func OneOf[T comparable](field string, allowed ...T) FieldValidator[T] {
	return Custom(field, CodeOneOf, fmt.Sprintf("must be one of %v", allowed), func(v T) bool {
		return slices.Contains(allowed, v)
	})
}

// ============================================================================
// Collecting validator
// ============================================================================

// Validator collects field errors across many fields. The zero value is ready to use.
type Validator struct {
	errs []*FieldError
}

func New() *Validator {
	return &Validator{}
}

// Check records err unless it is nil.
func (v *Validator) Check(err *FieldError) *Validator {
	if err != nil {
		v.errs = append(v.errs, err)
	}
	return v
}

// Field runs ValidateField and records the first failure.
func Field[T any](v *Validator, value T, validators ...FieldValidator[T]) *Validator {
	return v.Check(ValidateField(value, validators...))
}

// Add records an error returned by a value-object constructor. Domain validation errors
// keep their field; anything else is recorded under field.
func (v *Validator) Add(field string, err error) *Validator {
	if err == nil {
		return v
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return v.Check(fe)
	}
	fe = &FieldError{Field: field, Message: err.Error(), Code: CodeInvalid}
	if de, ok := shared.AsDomainError(err); ok {
		if de.Field != "" && field == "" {
			fe.Field = de.Field
		}
		fe.Message = de.Message
		fe.Code = de.Code
		fe.Value = de.Value
	}
	return v.Check(fe)
}

// Merge records every field error carried by err (as produced by Err or ValidateStruct).
func (v *Validator) Merge(err error) *Validator {
	for _, fe := range FieldErrors(err) {
		v.Check(fe)
	}
	return v
}

func (v *Validator) Valid() bool { return len(v.errs) == 0 }

// Has reports whether field, or a field nested under it, already failed.
func (v *Validator) Has(field string) bool {
	return slices.ContainsFunc(v.errs, func(fe *FieldError) bool {
		return fe.Field == field || strings.HasPrefix(fe.Field, field+".")
	})
}

// Errors returns a copy of the collected errors in insertion order.
func (v *Validator) Errors() []*FieldError {
	return slices.Clone(v.errs)
}

// Err combines every collected error, or returns nil when there are none.
func (v *Validator) Err() error {
	var err error
	for _, fe := range v.errs {
		err = multierr.Append(err, fe)
	}
	return err
}

// Result fails with every collected error, or succeeds with build's value.
// build only runs when validation passed.
func Result[T any](v *Validator, build func() (T, error)) result.Result[T] {
	if err := v.Err(); err != nil {
		return result.Failure[T](err)
	}
	return result.Try(build)
}

// FieldErrors extracts the field errors carried by err.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	for _, e := range multierr.Errors(err) {
		var fe *FieldError
		if errors.As(e, &fe) {
			out = append(out, fe)
		}
	}
	return out
}
