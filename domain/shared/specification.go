package shared

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Specification defines the interface for domain specifications
// A specification encapsulates a reusable business rule as a pure predicate.
// DDD principle: Specifications are domain objects that express business constraints,
// evaluated in memory here and translated to query predicates by persistence adapters.
type Specification[T any] interface {
	// IsSatisfiedBy checks if a candidate satisfies the specification
	IsSatisfiedBy(candidate T) bool

	// String renders the rule as a fully parenthesized boolean expression
	String() string
}

// ============================================================================
// Composite Specifications
// ============================================================================

// AndSpecification represents the logical AND of two specifications
type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec AndSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return spec.Left.IsSatisfiedBy(candidate) && spec.Right.IsSatisfiedBy(candidate)
}

func (spec AndSpecification[T]) String() string {
	return "(" + spec.Left.String() + " AND " + spec.Right.String() + ")"
}

// And creates a new AndSpecification; operands are never modified
func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

// OrSpecification represents the logical OR of two specifications
type OrSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec OrSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return spec.Left.IsSatisfiedBy(candidate) || spec.Right.IsSatisfiedBy(candidate)
}

func (spec OrSpecification[T]) String() string {
	return "(" + spec.Left.String() + " OR " + spec.Right.String() + ")"
}

// Or creates a new OrSpecification
func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

// NotSpecification represents the logical NOT of a specification
type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (spec NotSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return !spec.Spec.IsSatisfiedBy(candidate)
}

func (spec NotSpecification[T]) String() string {
	return "(NOT " + spec.Spec.String() + ")"
}

// Not creates a new NotSpecification
func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}

// ConstantSpecification always answers the same way.
type ConstantSpecification[T any] struct {
	Satisfied bool
}

func (spec ConstantSpecification[T]) IsSatisfiedBy(T) bool { return spec.Satisfied }

func (spec ConstantSpecification[T]) String() string {
	if spec.Satisfied {
		return "TRUE"
	}
	return "FALSE"
}

func True[T any]() Specification[T]  { return ConstantSpecification[T]{Satisfied: true} }
func False[T any]() Specification[T] { return ConstantSpecification[T]{Satisfied: false} }

// ============================================================================
// Leaf Specifications
// ============================================================================

// Operator is a comparison used by PropertySpecification.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpContains       Operator = "CONTAINS"
	OpStartsWith     Operator = "STARTS_WITH"
)

// PropertySpecification compares one property of the candidate with a fixed value.
// Values that cannot be ordered never satisfy an ordering operator.
type PropertySpecification[T any] struct {
	Name     string
	Operator Operator
	Value    any
	Accessor func(T) any
}

func Property[T any](name string, accessor func(T) any, op Operator, value any) Specification[T] {
	return PropertySpecification[T]{Name: name, Operator: op, Value: value, Accessor: accessor}
}

func (spec PropertySpecification[T]) IsSatisfiedBy(candidate T) bool {
	actual := spec.Accessor(candidate)
	switch spec.Operator {
	case OpEqual:
		return valuesEqual(actual, spec.Value)
	case OpNotEqual:
		return !valuesEqual(actual, spec.Value)
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		c, ok := compareOrdered(actual, spec.Value)
		if !ok {
			return false
		}
		switch spec.Operator {
		case OpGreaterThan:
			return c > 0
		case OpGreaterOrEqual:
			return c >= 0
		case OpLessThan:
			return c < 0
		default:
			return c <= 0
		}
	case OpContains:
		return contains(actual, spec.Value)
	case OpStartsWith:
		s, ok1 := asString(actual)
		prefix, ok2 := asString(spec.Value)
		return ok1 && ok2 && strings.HasPrefix(s, prefix)
	default:
		return false
	}
}

func (spec PropertySpecification[T]) String() string {
	return fmt.Sprintf("%s %s %s", spec.Name, spec.Operator, renderValue(spec.Value))
}

// InSpecification is satisfied when the property equals one of Values.
type InSpecification[T any] struct {
	Name     string
	Values   []any
	Accessor func(T) any
}

func In[T any](name string, accessor func(T) any, values ...any) Specification[T] {
	return InSpecification[T]{Name: name, Values: append([]any(nil), values...), Accessor: accessor}
}

func (spec InSpecification[T]) IsSatisfiedBy(candidate T) bool {
	actual := spec.Accessor(candidate)
	for _, v := range spec.Values {
		if valuesEqual(actual, v) {
			return true
		}
	}
	return false
}

func (spec InSpecification[T]) String() string {
	rendered := make([]string, len(spec.Values))
	for i, v := range spec.Values {
		rendered[i] = renderValue(v)
	}
	return fmt.Sprintf("%s IN (%s)", spec.Name, strings.Join(rendered, ", "))
}

// DateRangeSpecification checks an inclusive time window. A zero From or To leaves that end open.
type DateRangeSpecification[T any] struct {
	Name     string
	From     time.Time
	To       time.Time
	Accessor func(T) time.Time
}

func DateRange[T any](name string, accessor func(T) time.Time, from, to time.Time) Specification[T] {
	return DateRangeSpecification[T]{Name: name, From: from, To: to, Accessor: accessor}
}

func (spec DateRangeSpecification[T]) IsSatisfiedBy(candidate T) bool {
	at := spec.Accessor(candidate)
	if !spec.From.IsZero() && at.Before(spec.From) {
		return false
	}
	if !spec.To.IsZero() && at.After(spec.To) {
		return false
	}
	return true
}

func (spec DateRangeSpecification[T]) String() string {
	switch {
	case spec.From.IsZero() && spec.To.IsZero():
		return "TRUE"
	case spec.From.IsZero():
		return fmt.Sprintf("%s <= %s", spec.Name, spec.To.Format(time.RFC3339))
	case spec.To.IsZero():
		return fmt.Sprintf("%s >= %s", spec.Name, spec.From.Format(time.RFC3339))
	default:
		return fmt.Sprintf("%s BETWEEN %s AND %s", spec.Name, spec.From.Format(time.RFC3339), spec.To.Format(time.RFC3339))
	}
}

// PredicateSpecification wraps a named custom rule.
type PredicateSpecification[T any] struct {
	Name string
	Fn   func(T) bool
}

func Predicate[T any](name string, fn func(T) bool) Specification[T] {
	return PredicateSpecification[T]{Name: name, Fn: fn}
}

func (spec PredicateSpecification[T]) IsSatisfiedBy(candidate T) bool { return spec.Fn(candidate) }
func (spec PredicateSpecification[T]) String() string                  { return spec.Name }

// Filter returns the items satisfying spec, preserving order.
func Filter[T any](items []T, spec Specification[T]) []T {
	var out []T
	for _, item := range items {
		if spec.IsSatisfiedBy(item) {
			out = append(out, item)
		}
	}
	return out
}

// ============================================================================
// comparison helpers
// ============================================================================

func valuesEqual(a, b any) bool {
	if av, ok := a.(ValueObject); ok {
		bv, ok := b.(ValueObject)
		return ok && Equal(av, bv)
	}
	return structuralEqual(a, b, 0)
}

func compareOrdered(a, b any) (int, bool) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}

	ra, rb := indirect(reflect.ValueOf(a)), indirect(reflect.ValueOf(b))
	if !ra.IsValid() || !rb.IsValid() {
		return 0, false
	}
	switch {
	case isNumber(ra) && isNumber(rb):
		return compareNumbers(ra, rb), true
	case ra.Kind() == reflect.String && rb.Kind() == reflect.String:
		return strings.Compare(ra.String(), rb.String()), true
	}
	return 0, false
}

// compareNumbers orders integers exactly; floats fall back to float64 ordering.
func compareNumbers(a, b reflect.Value) int {
	switch {
	case numbersEqual(a, b):
		return 0
	case isInt(a) && isInt(b):
		return cmp.Compare(a.Int(), b.Int())
	case isUint(a) && isUint(b):
		return cmp.Compare(a.Uint(), b.Uint())
	case isInt(a) && isUint(b):
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())
	case isUint(a) && isInt(b):
		if b.Int() < 0 {
			return 1
		}
		return cmp.Compare(a.Uint(), uint64(b.Int()))
	}
	if toFloat(a) < toFloat(b) {
		return -1
	}
	return 1
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func contains(haystack, needle any) bool {
	if s, ok := asString(haystack); ok {
		sub, ok := asString(needle)
		return ok && strings.Contains(s, sub)
	}
	rv := indirect(reflect.ValueOf(haystack))
	if !rv.IsValid() || !isList(rv) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if valuesEqual(rv.Index(i).Interface(), needle) {
			return true
		}
	}
	return false
}

func asString(v any) (string, bool) {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	rv := indirect(reflect.ValueOf(v))
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + val + "'"
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return "'" + val.String() + "'"
	default:
		if reflect.ValueOf(v).Kind() == reflect.String {
			return "'" + fmt.Sprint(val) + "'"
		}
		return fmt.Sprint(val)
	}
}
