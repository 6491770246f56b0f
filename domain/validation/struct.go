package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func engine() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return toJSONFieldName(f.Name)
			}
			return name
		})
		if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			panic(fmt.Sprintf("validation: register notblank: %v", err))
		}
		structValidator = v
	})
	return structValidator
}

// ValidateStruct checks the `validate` tags of s and returns every failure as
// combined field errors, or nil.
func ValidateStruct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	v := New()
	for _, e := range verrs {
		v.Check(&FieldError{
			Field:   fieldPath(e),
			Message: messageFor(e),
			Code:    codeFor(e.Tag()),
			Value:   e.Value(),
		})
	}
	return v.Err()
}

// fieldPath drops the root struct name from the namespace, so nested fields
// read "address.street".
func fieldPath(e validator.FieldError) string {
	if _, path, ok := strings.Cut(e.Namespace(), "."); ok {
		return path
	}
	return e.Field()
}

func toJSONFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func codeFor(tag string) string {
	switch tag {
	case "required", "notblank":
		return CodeRequired
	case "min", "gte", "gt":
		return CodeTooShort
	case "max", "lte", "lt":
		return CodeTooLong
	case "oneof":
		return CodeOneOf
	case "email", "uuid4", "len", "numeric", "alpha", "iso4217":
		return CodePattern
	default:
		return CodeInvalid
	}
}

func messageFor(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid4":
		return "must be a valid UUID"
	case "len":
		if isString {
			return fmt.Sprintf("must be exactly %s characters", e.Param())
		}
		return fmt.Sprintf("must have length %s", e.Param())
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}
