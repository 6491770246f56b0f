// Package specification turns domain specification trees into gorm conditions.
package specification

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"hrkernel/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUntranslatable marks a rule that can only be evaluated in memory.
var ErrUntranslatable = errors.New("specification cannot be translated to SQL")

// ColumnKind says how a property is stored.
type ColumnKind int

const (
	// Value columns hold the property itself.
	Value ColumnKind = iota
	// Presence columns are nullable; the boolean property is true when the column is set.
	Presence
)

// Column maps a property name to a table column.
type Column struct {
	Name string
	Kind ColumnKind
}

// constant is a condition that does not depend on the row.
type constant bool

const (
	alwaysTrue  constant = true
	alwaysFalse constant = false
)

func (c constant) Build(builder clause.Builder) {
	if c {
		builder.WriteString("1 = 1")
		return
	}
	builder.WriteString("1 = 0")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Translator converts domain specifications to GORM conditions
type Translator[T any] struct {
	columns map[string]Column
}

func NewTranslator[T any](columns map[string]Column) *Translator[T] {
	return &Translator[T]{columns: columns}
}

// Translate converts the whole tree or fails with ErrUntranslatable.
func (t *Translator[T]) Translate(spec shared.Specification[T]) (clause.Expression, error) {
	if spec == nil {
		return alwaysTrue, nil
	}

	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		return clause.AndConditions{Exprs: []clause.Expression{left, right}}, nil
	case shared.OrSpecification[T]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		return clause.OrConditions{Exprs: []clause.Expression{left, right}}, nil
	case shared.NotSpecification[T]:
		inner, err := t.Translate(s.Spec)
		if err != nil {
			return nil, err
		}
		if c, ok := inner.(constant); ok {
			return !c, nil
		}
		return clause.NotConditions{Exprs: []clause.Expression{inner}}, nil
	case shared.ConstantSpecification[T]:
		if s.Satisfied {
			return alwaysTrue, nil
		}
		return alwaysFalse, nil
	case shared.PropertySpecification[T]:
		return t.property(s)
	case shared.InSpecification[T]:
		return t.in(s)
	case shared.DateRangeSpecification[T]:
		return t.dateRange(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUntranslatable, spec)
	}
}

// Narrow translates the conjuncts it can and drops the rest, so the condition
// selects a superset of the matches. Callers re-check rows with IsSatisfiedBy.
func (t *Translator[T]) Narrow(spec shared.Specification[T]) clause.Expression {
	if and, ok := spec.(shared.AndSpecification[T]); ok {
		left, right := t.Narrow(and.Left), t.Narrow(and.Right)
		switch {
		case left == alwaysTrue:
			return right
		case right == alwaysTrue:
			return left
		}
		return clause.AndConditions{Exprs: []clause.Expression{left, right}}
	}
	expr, err := t.Translate(spec)
	if err != nil {
		return alwaysTrue
	}
	return expr
}

// Scope applies Narrow as a query scope.
func (t *Translator[T]) Scope(spec shared.Specification[T]) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(t.Narrow(spec))
	}
}

func (t *Translator[T]) pair(left, right shared.Specification[T]) (clause.Expression, clause.Expression, error) {
	l, err := t.Translate(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := t.Translate(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (t *Translator[T]) column(name string) (Column, error) {
	col, ok := t.columns[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: no column for property %q", ErrUntranslatable, name)
	}
	return col, nil
}

func (t *Translator[T]) property(s shared.PropertySpecification[T]) (clause.Expression, error) {
	col, err := t.column(s.Name)
	if err != nil {
		return nil, err
	}
	value, ok := scalar(s.Value)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported value %T for %s", ErrUntranslatable, s.Value, s.Name)
	}
	target := clause.Column{Name: col.Name}

	if col.Kind == Presence {
		set, isBool := value.(bool)
		if !isBool || (s.Operator != shared.OpEqual && s.Operator != shared.OpNotEqual) {
			return nil, fmt.Errorf("%w: %s only supports boolean equality", ErrUntranslatable, s.Name)
		}
		if s.Operator == shared.OpNotEqual {
			set = !set
		}
		if set {
			return clause.Neq{Column: target, Value: nil}, nil
		}
		return clause.Eq{Column: target, Value: nil}, nil
	}

	switch s.Operator {
	case shared.OpEqual:
		return clause.Eq{Column: target, Value: value}, nil
	case shared.OpNotEqual:
		return clause.Neq{Column: target, Value: value}, nil
	case shared.OpGreaterThan:
		return clause.Gt{Column: target, Value: value}, nil
	case shared.OpGreaterOrEqual:
		return clause.Gte{Column: target, Value: value}, nil
	case shared.OpLessThan:
		return clause.Lt{Column: target, Value: value}, nil
	case shared.OpLessOrEqual:
		return clause.Lte{Column: target, Value: value}, nil
	case shared.OpContains, shared.OpStartsWith:
		text, isString := value.(string)
		if !isString {
			return nil, fmt.Errorf("%w: %s %s needs a string", ErrUntranslatable, s.Name, s.Operator)
		}
		pattern := likeEscaper.Replace(text) + "%"
		if s.Operator == shared.OpContains {
			pattern = "%" + pattern
		}
		return clause.Like{Column: target, Value: pattern}, nil
	default:
		return nil, fmt.Errorf("%w: operator %s", ErrUntranslatable, s.Operator)
	}
}

func (t *Translator[T]) in(s shared.InSpecification[T]) (clause.Expression, error) {
	col, err := t.column(s.Name)
	if err != nil {
		return nil, err
	}
	if col.Kind != Value {
		return nil, fmt.Errorf("%w: IN on %s", ErrUntranslatable, s.Name)
	}
	if len(s.Values) == 0 {
		return alwaysFalse, nil
	}
	values := make([]any, len(s.Values))
	for i, v := range s.Values {
		sv, ok := scalar(v)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported value %T for %s", ErrUntranslatable, v, s.Name)
		}
		values[i] = sv
	}
	return clause.IN{Column: clause.Column{Name: col.Name}, Values: values}, nil
}

func (t *Translator[T]) dateRange(s shared.DateRangeSpecification[T]) (clause.Expression, error) {
	col, err := t.column(s.Name)
	if err != nil {
		return nil, err
	}
	target := clause.Column{Name: col.Name}
	var exprs []clause.Expression
	if !s.From.IsZero() {
		exprs = append(exprs, clause.Gte{Column: target, Value: s.From})
	}
	if !s.To.IsZero() {
		exprs = append(exprs, clause.Lte{Column: target, Value: s.To})
	}
	switch len(exprs) {
	case 0:
		return alwaysTrue, nil
	case 1:
		return exprs[0], nil
	default:
		return clause.AndConditions{Exprs: exprs}, nil
	}
}

// scalar reduces v to a driver-friendly value. Named string, integer and bool
// types lose their names; anything else is rejected.
func scalar(v any) (any, bool) {
	if at, ok := v.(time.Time); ok {
		return at, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return nil, false
	}
}
