/*
Package shared - 领域内核共享错误定义

设计原则:
1. 哨兵错误(sentinel errors)标识错误种类，用于 errors.Is() 判断
2. DomainError 携带稳定的机器可读 Code 与可选的结构化 Details
3. DomainError 在创建时捕获堆栈，延迟到打印时格式化
4. 领域错误不包含 HTTP 状态码等传输层概念（映射见 pkg/errors）
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrValidation 字段级校验失败
	ErrValidation = errors.New("validation failed")

	// ErrBusinessRule 跨字段或生命周期不变量被破坏
	ErrBusinessRule = errors.New("business rule violated")

	// ErrNotFound 实体未找到
	ErrNotFound = errors.New("not found")

	// ErrOperationNotAllowed 当前状态下不允许该操作
	ErrOperationNotAllowed = errors.New("operation not allowed")

	// ErrConcurrency 乐观锁版本冲突
	ErrConcurrency = errors.New("concurrency conflict")
)

// Stable error codes exposed to the boundary layer.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeBusinessRuleViolation = "BUSINESS_RULE_VIOLATION"
	CodeEntityNotFound        = "ENTITY_NOT_FOUND"
	CodeOperationNotAllowed   = "OPERATION_NOT_ALLOWED"
	CodeConcurrency           = "CONCURRENCY_CONFLICT"
)

// ============================================================================
// 领域错误结构体 (Domain Error)
// ============================================================================

// DomainError 领域错误 - 携带错误码、业务上下文和堆栈
type DomainError struct {
	// Kind 底层哨兵错误，用于 errors.Is() 判断
	Kind error

	// Code 稳定的机器可读错误码
	Code string

	// Message 人类可读的错误描述
	Message string

	// Entity 发生错误的实体名称（如 "employee"）
	Entity string

	// Field 可选：校验失败的字段名
	Field string

	// Value 可选：校验失败的取值
	Value any

	// Details 可选：结构化补充信息
	Details map[string]any

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

// Stack 按需格式化堆栈
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// WithDetail returns a copy of e with key set in Details.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// ============================================================================
// 堆栈捕获辅助函数
// ============================================================================

// CaptureStack 捕获当前调用栈
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧，过滤 runtime 内部帧，最多返回 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// 领域错误构造函数
// ============================================================================

// NewValidationError 字段校验失败，携带字段名与非法取值
func NewValidationError(entity, field string, value any, reason string) error {
	return &DomainError{
		Kind:    ErrValidation,
		Code:    CodeValidation,
		Entity:  entity,
		Field:   field,
		Value:   value,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewBusinessRuleViolationError 业务规则被破坏
func NewBusinessRuleViolationError(entity, rule, message string) error {
	return &DomainError{
		Kind:    ErrBusinessRule,
		Code:    CodeBusinessRuleViolation,
		Entity:  entity,
		Message: message,
		Details: map[string]any{"rule": rule},
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError 实体未找到
func NewNotFoundError(entity string, id any) error {
	return &DomainError{
		Kind:    ErrNotFound,
		Code:    CodeEntityNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%s not found: %v", entity, id),
		Details: map[string]any{"id": id},
		stack:   CaptureStack(3),
	}
}

// NewOperationNotAllowedError 当前状态下操作被拒绝
func NewOperationNotAllowedError(entity, operation, reason string) error {
	return &DomainError{
		Kind:    ErrOperationNotAllowed,
		Code:    CodeOperationNotAllowed,
		Entity:  entity,
		Message: fmt.Sprintf("cannot %s %s: %s", operation, entity, reason),
		Details: map[string]any{"operation": operation},
		stack:   CaptureStack(3),
	}
}

// NewConcurrencyError 乐观锁冲突：期望版本与当前版本不一致
func NewConcurrencyError(entity string, id any, expected, actual int64) error {
	return &DomainError{
		Kind:    ErrConcurrency,
		Code:    CodeConcurrency,
		Entity:  entity,
		Message: fmt.Sprintf("%s %v was modified concurrently: expected version %d, found %d", entity, id, expected, actual),
		Details: map[string]any{"id": id, "expectedVersion": expected, "actualVersion": actual},
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// 查询辅助函数
// ============================================================================

// AsDomainError extracts the first DomainError in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code string) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

// Stacker 可提供堆栈的错误接口
type Stacker interface {
	Stack() []string
}
