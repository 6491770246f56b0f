package validation

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrkernel/domain/shared"
)

var digits = regexp.MustCompile(`^\d+$`)

func TestValidateFieldReturnsFirstFailure(t *testing.T) {
	rules := []FieldValidator[string]{
		Required("cpf"),
		Pattern("cpf", digits, "must contain only digits"),
		MinLength("cpf", 11),
	}

	tests := []struct {
		name  string
		value string
		code  string
	}{
		{"blank", "  ", CodeRequired},
		{"letters", "abc", CodePattern},
		{"short", "123", CodeTooShort},
		{"ok", "52998224725", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.value, rules...)
			if tt.code == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, "cpf", err.Field)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.value, err.Value)
		})
	}
}

func TestOrderedValidators(t *testing.T) {
	assert.Nil(t, ValidateField(5, Between("level", 1, 10)))
	assert.NotNil(t, ValidateField(11, Between("level", 1, 10)))
	assert.NotNil(t, ValidateField(-1.5, Min("salary", 0.0)))
	assert.Nil(t, ValidateField("ENG", OneOf("department", "ENG", "OPS")))
	assert.Equal(t, CodeOneOf, ValidateField("HR", OneOf("department", "ENG", "OPS")).Code)
	assert.Nil(t, ValidateField("ção", MaxLength("name", 3)))
}

func TestValidatorCollectsEveryField(t *testing.T) {
	v := New()
	Field(v, "", Required("name"))
	Field(v, "x", MinLength("email", 3))
	Field(v, "ENG", OneOf("department", "ENG"))
	v.Add("cpf", shared.NewValidationError("employee", "cpf", "111", "invalid CPF"))
	v.Add("salary", errors.New("salary parse failed"))
	v.Add("ignored", nil)

	require.False(t, v.Valid())
	errs := v.Errors()
	require.Len(t, errs, 4)
	assert.Equal(t, []string{"name", "email", "cpf", "salary"}, []string{errs[0].Field, errs[1].Field, errs[2].Field, errs[3].Field})
	assert.Equal(t, shared.CodeValidation, errs[2].Code)
	assert.Equal(t, CodeInvalid, errs[3].Code)

	err := v.Err()
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, "name: is required; email: must be at least 3 characters; cpf: invalid CPF; salary: salary parse failed", err.Error())
	assert.Len(t, FieldErrors(err), 4)
}

func TestResult(t *testing.T) {
	t.Run("failure skips build", func(t *testing.T) {
		called := false
		v := New().Check(Required("name").Validate(""))
		r := Result(v, func() (string, error) {
			called = true
			return "x", nil
		})
		assert.True(t, r.IsFailure())
		assert.False(t, called)
		assert.Len(t, FieldErrors(r.Err()), 1)
	})

	t.Run("success runs build", func(t *testing.T) {
		r := Result(New(), func() (int, error) { return 7, nil })
		require.True(t, r.IsSuccess())
		assert.Equal(t, 7, r.Value())
	})

	t.Run("build error becomes failure", func(t *testing.T) {
		boom := errors.New("boom")
		r := Result(New(), func() (int, error) { return 0, boom })
		assert.ErrorIs(t, r.Err(), boom)
	})
}

type hireRequest struct {
	Name       string `json:"name" validate:"notblank,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"oneof=ENG OPS HR"`
	Salary     int64  `json:"salaryCents" validate:"gte=0"`
	Note       string `json:"-"`
	Level      int    `validate:"max=10"`
}

func TestStructEngineRegistersCustomTags(t *testing.T) {
	require.NotPanics(t, func() { engine() })
	assert.Same(t, engine(), engine())

	type titled struct {
		Title string `json:"title" validate:"notblank"`
	}
	assert.NoError(t, ValidateStruct(titled{Title: "Lead"}))
	err := ValidateStruct(titled{Title: " \t "})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "title")
}

func TestValidateStruct(t *testing.T) {
	ok := hireRequest{Name: "Ana", Email: "ana@example.com", Department: "ENG", Salary: 100}
	assert.NoError(t, ValidateStruct(ok))

	bad := hireRequest{Name: "  ", Email: "nope", Department: "SALES", Salary: -1, Level: 11}
	err := ValidateStruct(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)

	byField := map[string]*FieldError{}
	for _, fe := range FieldErrors(err) {
		byField[fe.Field] = fe
	}
	require.Len(t, byField, 5)
	assert.Equal(t, CodeRequired, byField["name"].Code)
	assert.Equal(t, "must be a valid email address", byField["email"].Message)
	assert.Equal(t, CodeOneOf, byField["department"].Code)
	assert.Equal(t, "must be greater than or equal to 0", byField["salaryCents"].Message)
	assert.Equal(t, "must be at most 10", byField["level"].Message)

	v := New().Merge(err)
	assert.Len(t, v.Errors(), 5)
}
