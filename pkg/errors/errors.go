package errors

import (
	"errors"
	"fmt"
	"net/http"

	"hrkernel/domain/shared"
	"hrkernel/domain/validation"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// 领域错误码，与 shared.DomainError.Code 一一对应
	CodeBusinessRule        ErrorCode = shared.CodeBusinessRuleViolation
	CodeEntityNotFound      ErrorCode = shared.CodeEntityNotFound
	CodeOperationNotAllowed ErrorCode = shared.CodeOperationNotAllowed
	CodeConcurrency         ErrorCode = shared.CodeConcurrency
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode               `json:"code"`
	Message string                  `json:"message"`
	Fields  []*validation.FieldError `json:"fields,omitempty"`
	Details map[string]any          `json:"details,omitempty"`
	Err     error                   `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeEntityNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrency:
		return http.StatusConflict
	case CodeBusinessRule, CodeOperationNotAllowed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 常用错误构造函数

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// 如果不是 AppError，包装为内部错误
	return Wrap(err, CodeInternal, "internal server error")
}

// MapDomainError 将领域错误映射为应用错误
// 按错误种类（errors.Is）而不是错误文本匹配；字段错误集合整体保留。
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	// 已经是 AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// 工厂方法收集的多个字段错误
	if fields := validation.FieldErrors(err); len(fields) > 0 {
		return &AppError{Code: CodeValidation, Message: "validation failed", Fields: fields, Err: err}
	}

	if de, ok := shared.AsDomainError(err); ok {
		out := &AppError{Code: ErrorCode(de.Code), Message: de.Message, Details: de.Details, Err: err}
		if de.Field != "" {
			out.Fields = []*validation.FieldError{{Field: de.Field, Message: de.Message, Code: validation.CodeInvalid}}
		}
		return out
	}

	switch {
	case errors.Is(err, shared.ErrValidation):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeEntityNotFound, err.Error())
	case errors.Is(err, shared.ErrConcurrency):
		return Wrap(err, CodeConcurrency, err.Error())
	case errors.Is(err, shared.ErrBusinessRule):
		return Wrap(err, CodeBusinessRule, err.Error())
	case errors.Is(err, shared.ErrOperationNotAllowed):
		return Wrap(err, CodeOperationNotAllowed, err.Error())
	}
	return Wrap(err, CodeInternal, "internal error")
}
