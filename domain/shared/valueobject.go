package shared

import (
	"math"
	"reflect"
	"time"
	"unicode/utf16"
)

// ValueObject 值对象契约
// 值对象没有标识，不可变，通过组成值判断相等性。
// 实现者只需声明 TypeName 与 PrimitiveValues，相等性与哈希由 Equal / HashCode 统一推导，
// 具体类型不应手写比较逻辑。
type ValueObject interface {
	// TypeName 显式的类型标识，用于“同一具体类型”判断
	TypeName() string

	// PrimitiveValues 有序的组成值列表，可以嵌套切片、映射和其他值对象
	PrimitiveValues() []any
}

// MaxStructuralDepth bounds the structural walk. Value objects are assumed acyclic; past this
// depth Equal reports false and HashCode stops descending.
const MaxStructuralDepth = 32

var timeType = reflect.TypeOf(time.Time{})

// Equal compares two value objects structurally.
// It is false when either side is nil or their TypeName differs.
func Equal(a, b ValueObject) bool {
	if isNilValue(a) || isNilValue(b) {
		return false
	}
	if a.TypeName() != b.TypeName() {
		return false
	}
	return structuralEqual(a.PrimitiveValues(), b.PrimitiveValues(), 0)
}

// HashCode folds a 32-bit rolling hash over the component list.
// Equal(a, b) implies HashCode(a) == HashCode(b).
func HashCode(v ValueObject) int32 {
	if isNilValue(v) {
		return 0
	}
	return structuralHash(v, 0)
}

func structuralEqual(x, y any, depth int) bool {
	if depth > MaxStructuralDepth {
		return false
	}

	xNil, yNil := isNilValue(x), isNilValue(y)
	if xNil || yNil {
		return xNil && yNil
	}

	if xv, ok := x.(ValueObject); ok {
		yv, ok := y.(ValueObject)
		if !ok || xv.TypeName() != yv.TypeName() {
			return false
		}
		return structuralEqual(xv.PrimitiveValues(), yv.PrimitiveValues(), depth+1)
	}
	if _, ok := y.(ValueObject); ok {
		return false
	}

	rx, ry := indirect(reflect.ValueOf(x)), indirect(reflect.ValueOf(y))

	switch {
	case rx.Type() == timeType || ry.Type() == timeType:
		return rx.Type() == ry.Type() && rx.Interface().(time.Time).Equal(ry.Interface().(time.Time))
	case isNumber(rx) || isNumber(ry):
		return isNumber(rx) && isNumber(ry) && numbersEqual(rx, ry)
	case rx.Kind() == reflect.String:
		return ry.Kind() == reflect.String && rx.String() == ry.String()
	case rx.Kind() == reflect.Bool:
		return ry.Kind() == reflect.Bool && rx.Bool() == ry.Bool()
	case isList(rx):
		if !isList(ry) || rx.Len() != ry.Len() {
			return false
		}
		for i := 0; i < rx.Len(); i++ {
			if !structuralEqual(rx.Index(i).Interface(), ry.Index(i).Interface(), depth+1) {
				return false
			}
		}
		return true
	case rx.Kind() == reflect.Map:
		if ry.Kind() != reflect.Map || rx.Len() != ry.Len() || rx.Type().Key() != ry.Type().Key() {
			return false
		}
		iter := rx.MapRange()
		for iter.Next() {
			other := ry.MapIndex(iter.Key())
			if !other.IsValid() || !structuralEqual(iter.Value().Interface(), other.Interface(), depth+1) {
				return false
			}
		}
		return true
	default:
		return rx.Type() == ry.Type() && reflect.DeepEqual(rx.Interface(), ry.Interface())
	}
}

func structuralHash(x any, depth int) int32 {
	if depth > MaxStructuralDepth || isNilValue(x) {
		return 0
	}

	if v, ok := x.(ValueObject); ok {
		h := hashString(v.TypeName())
		for _, c := range v.PrimitiveValues() {
			h = 31*h + structuralHash(c, depth+1)
		}
		return h
	}

	rv := indirect(reflect.ValueOf(x))
	switch {
	case rv.Type() == timeType:
		return hashInt64(rv.Interface().(time.Time).UnixNano())
	case isNumber(rv):
		return hashNumber(rv)
	case rv.Kind() == reflect.String:
		return hashString(rv.String())
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			return 1
		}
		return 0
	case isList(rv):
		var h int32 = 1
		for i := 0; i < rv.Len(); i++ {
			h = 31*h + structuralHash(rv.Index(i).Interface(), depth+1)
		}
		return h
	case rv.Kind() == reflect.Map:
		// entry hashes are summed so iteration order does not matter
		var h int32
		iter := rv.MapRange()
		for iter.Next() {
			h += 31*structuralHash(iter.Key().Interface(), depth+1) ^ structuralHash(iter.Value().Interface(), depth+1)
		}
		return h
	case rv.Kind() == reflect.Struct:
		return hashString(rv.Type().String())
	default:
		return 0
	}
}

// hashString folds over UTF-16 code units.
func hashString(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}

func hashInt64(n int64) int32 {
	return int32(n ^ (n >> 32))
}

func hashNumber(v reflect.Value) int32 {
	switch {
	case isInt(v):
		return hashInt64(v.Int())
	case isUint(v):
		return hashInt64(int64(v.Uint()))
	}
	f := v.Float()
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0
	case f >= 0 && f < math.Exp2(64):
		return hashInt64(int64(uint64(f)))
	case f < 0 && f >= -math.Exp2(63):
		return hashInt64(int64(f))
	default:
		u := math.Float64bits(f)
		return hashInt64(int64(u))
	}
}

func numbersEqual(a, b reflect.Value) bool {
	switch {
	case isInt(a) && isInt(b):
		return a.Int() == b.Int()
	case isUint(a) && isUint(b):
		return a.Uint() == b.Uint()
	case isInt(a) && isUint(b):
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	case isUint(a) && isInt(b):
		return b.Int() >= 0 && uint64(b.Int()) == a.Uint()
	case isFloat(a) && isFloat(b):
		return a.Float() == b.Float()
	case isFloat(a):
		return floatEqualsInteger(a.Float(), b)
	default:
		return floatEqualsInteger(b.Float(), a)
	}
}

// floatEqualsInteger is exact: 2^53+1 never equals float64(2^53).
func floatEqualsInteger(f float64, n reflect.Value) bool {
	if f != math.Trunc(f) {
		return false
	}
	if isInt(n) {
		if f < -math.Exp2(63) || f >= math.Exp2(63) {
			return false
		}
		return int64(f) == n.Int()
	}
	if f < 0 || f >= math.Exp2(64) {
		return false
	}
	return uint64(f) == n.Uint()
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || isFloat(v)
}

func isList(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
