package shared

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID 实体标识值对象
// 包装一个原始值（字符串、数字或 UUID），不可变，按值比较。
// 不变量：永不为空；UUID 形式必须是 RFC-4122 v4。
type ID[T comparable] struct {
	value T
}

// NewID wraps value, rejecting the zero value and blank strings.
func NewID[T comparable](value T) (ID[T], error) {
	var zero T
	if value == zero {
		return ID[T]{}, NewValidationError("id", "id", value, "id cannot be empty")
	}
	if s, ok := any(value).(string); ok && strings.TrimSpace(s) == "" {
		return ID[T]{}, NewValidationError("id", "id", value, "id cannot be blank")
	}
	return ID[T]{value: value}, nil
}

// NewUUID generates a random (v4) UUID identifier.
func NewUUID() ID[string] {
	return ID[string]{value: uuid.NewString()}
}

// ParseUUID accepts only the canonical 36-character RFC-4122 version 4 form.
func ParseUUID(s string) (ID[string], error) {
	if len(s) != 36 {
		return ID[string]{}, NewValidationError("id", "id", s, "id must be a canonical UUID")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID[string]{}, NewValidationError("id", "id", s, fmt.Sprintf("id is not a UUID: %v", err))
	}
	if u.Version() != 4 || u.Variant() != uuid.RFC4122 {
		return ID[string]{}, NewValidationError("id", "id", s, "id must be an RFC-4122 version 4 UUID")
	}
	return ID[string]{value: u.String()}, nil
}

func (id ID[T]) Value() T { return id.value }

// IsZero reports whether id was never initialized through a constructor.
func (id ID[T]) IsZero() bool {
	var zero T
	return id.value == zero
}

func (id ID[T]) String() string { return fmt.Sprint(id.value) }

func (id ID[T]) TypeName() string       { return "ID" }
func (id ID[T]) PrimitiveValues() []any { return []any{id.value} }

func (id ID[T]) Equals(other ValueObject) bool { return Equal(id, other) }
func (id ID[T]) HashCode() int32                { return HashCode(id) }

// Clone returns a copy; ID holds no reference fields.
func (id ID[T]) Clone() ID[T] { return id }

func (id ID[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

var _ ValueObject = ID[string]{}
