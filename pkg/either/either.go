// Package either provides Either[L, R]. It is right-biased: Map and FlatMap act on Right.
package either

import (
	"fmt"

	"hrkernel/pkg/result"
)

type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

func Left[L, R any](value L) Either[L, R] {
	return Either[L, R]{left: value}
}

func Right[L, R any](value R) Either[L, R] {
	return Either[L, R]{right: value, isRight: true}
}

func (e Either[L, R]) IsLeft() bool  { return !e.isRight }
func (e Either[L, R]) IsRight() bool { return e.isRight }

// LeftValue panics when e is a Right.
func (e Either[L, R]) LeftValue() L {
	if e.isRight {
		panic("either: LeftValue called on a Right")
	}
	return e.left
}

// RightValue panics when e is a Left.
func (e Either[L, R]) RightValue() R {
	if !e.isRight {
		panic("either: RightValue called on a Left")
	}
	return e.right
}

// GetOrElse returns the Right value or def.
func (e Either[L, R]) GetOrElse(def R) R {
	if !e.isRight {
		return def
	}
	return e.right
}

// Swap exchanges the arms.
func (e Either[L, R]) Swap() Either[R, L] {
	if e.isRight {
		return Left[R, L](e.right)
	}
	return Right[R, L](e.left)
}

func (e Either[L, R]) String() string {
	if e.isRight {
		return fmt.Sprintf("Right(%v)", e.right)
	}
	return fmt.Sprintf("Left(%v)", e.left)
}

// Map applies fn to a Right value. A panic raised by fn becomes a Left carrying a
// *result.PanicError when L can hold one (error or any); otherwise it propagates.
func Map[L, R, U any](e Either[L, R], fn func(R) U) (out Either[L, U]) {
	if !e.isRight {
		return Left[L, U](e.left)
	}
	defer func() {
		if p := recover(); p != nil {
			left, ok := any(&result.PanicError{Value: p}).(L)
			if !ok {
				panic(p)
			}
			out = Left[L, U](left)
		}
	}()
	return Right[L](fn(e.right))
}

func MapLeft[L, R, U any](e Either[L, R], fn func(L) U) Either[U, R] {
	if e.isRight {
		return Right[U](e.right)
	}
	return Left[U, R](fn(e.left))
}

func FlatMap[L, R, U any](e Either[L, R], fn func(R) Either[L, U]) Either[L, U] {
	if !e.isRight {
		return Left[L, U](e.left)
	}
	return fn(e.right)
}

// Fold collapses both arms into one value.
func Fold[L, R, U any](e Either[L, R], onLeft func(L) U, onRight func(R) U) U {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}
