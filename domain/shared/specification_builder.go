package shared

import "time"

// SpecificationBuilder accumulates leaf specifications and reduces them into one composite.
// Reduction is strictly left to right: a, b, c become ((a AND b) AND c). Callers that need
// mixed precedence nest the result of one builder into another with With.
type SpecificationBuilder[T any] struct {
	specs []Specification[T]
}

func NewSpecificationBuilder[T any]() *SpecificationBuilder[T] {
	return &SpecificationBuilder[T]{}
}

func (b *SpecificationBuilder[T]) With(spec Specification[T]) *SpecificationBuilder[T] {
	b.specs = append(b.specs, spec)
	return b
}

func (b *SpecificationBuilder[T]) Property(name string, accessor func(T) any, op Operator, value any) *SpecificationBuilder[T] {
	return b.With(Property(name, accessor, op, value))
}

func (b *SpecificationBuilder[T]) In(name string, accessor func(T) any, values ...any) *SpecificationBuilder[T] {
	return b.With(In(name, accessor, values...))
}

func (b *SpecificationBuilder[T]) DateRange(name string, accessor func(T) time.Time, from, to time.Time) *SpecificationBuilder[T] {
	return b.With(DateRange(name, accessor, from, to))
}

func (b *SpecificationBuilder[T]) Predicate(name string, fn func(T) bool) *SpecificationBuilder[T] {
	return b.With(Predicate(name, fn))
}

// Build reduces the accumulated specifications with AND. An empty builder yields True.
func (b *SpecificationBuilder[T]) Build() Specification[T] {
	return b.reduce(And[T])
}

// BuildOr reduces the accumulated specifications with OR. An empty builder yields True.
func (b *SpecificationBuilder[T]) BuildOr() Specification[T] {
	return b.reduce(Or[T])
}

func (b *SpecificationBuilder[T]) reduce(combine func(left, right Specification[T]) Specification[T]) Specification[T] {
	if len(b.specs) == 0 {
		return True[T]()
	}
	spec := b.specs[0]
	for _, next := range b.specs[1:] {
		spec = combine(spec, next)
	}
	return spec
}
