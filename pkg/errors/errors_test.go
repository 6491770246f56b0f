package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"hrkernel/domain/shared"
	"hrkernel/domain/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDomainError_ByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
	}{
		{"validation", shared.NewValidationError("employee", "email", "x", "invalid email"), CodeValidation, http.StatusBadRequest},
		{"not found", shared.NewNotFoundError("employee", "e-1"), CodeEntityNotFound, http.StatusNotFound},
		{"business rule", shared.NewBusinessRuleViolationError("employee", "cpf_unique", "CPF taken"), CodeBusinessRule, http.StatusUnprocessableEntity},
		{"not allowed", shared.NewOperationNotAllowedError("employee", "transfer", "employee is terminated"), CodeOperationNotAllowed, http.StatusUnprocessableEntity},
		{"concurrency", shared.NewConcurrencyError("employee", "e-1", 1, 2), CodeConcurrency, http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("load: %w", shared.ErrNotFound), CodeEntityNotFound, http.StatusNotFound},
		{"unknown", stderrors.New("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapDomainError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatusCode())
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestMapDomainError_KeepsEveryFieldError(t *testing.T) {
	v := validation.New()
	v.Check(&validation.FieldError{Field: "email", Message: "is required", Code: validation.CodeRequired})
	v.Check(&validation.FieldError{Field: "cpf", Message: "CPF check digits do not match", Code: validation.CodeInvalid})

	appErr := MapDomainError(v.Err())
	assert.Equal(t, CodeValidation, appErr.Code)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "email", appErr.Fields[0].Field)
	assert.Equal(t, "cpf", appErr.Fields[1].Field)

	data, err := json.Marshal(appErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"code": "VALIDATION_ERROR",
		"message": "validation failed",
		"fields": [
			{"field": "email", "message": "is required", "code": "REQUIRED"},
			{"field": "cpf", "message": "CPF check digits do not match", "code": "INVALID"}
		]
	}`, string(data))
}

func TestMapDomainError_SingleFieldAndDetails(t *testing.T) {
	appErr := MapDomainError(shared.NewValidationError("employee", "department", "r&d", "bad code"))
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "department", appErr.Fields[0].Field)

	appErr = MapDomainError(shared.NewBusinessRuleViolationError("employee", "salary_positive", "salary must be positive"))
	assert.Equal(t, "salary_positive", appErr.Details["rule"])
	assert.Empty(t, appErr.Fields)
}

func TestMapDomainError_PassThrough(t *testing.T) {
	assert.Nil(t, MapDomainError(nil))

	original := Conflict("already exists")
	assert.Same(t, original, MapDomainError(fmt.Errorf("wrapped: %w", original)))
	assert.True(t, Is(fmt.Errorf("wrapped: %w", original), CodeConflict))
	assert.False(t, Is(stderrors.New("x"), CodeConflict))
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(stderrors.New("boom"))
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "INTERNAL_ERROR: internal server error (boom)", appErr.Error())

	nf := NotFound("employee not found")
	assert.Same(t, nf, AsAppError(nf))
	assert.Equal(t, "NOT_FOUND: employee not found", nf.Error())
}
