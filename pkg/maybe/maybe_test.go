package maybe

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manager struct{ name string }

func TestSomeAssertsPresence(t *testing.T) {
	var nilManager *manager
	var nilSlice []string
	var nilErr error

	assert.Panics(t, func() { Some(nilManager) })
	assert.Panics(t, func() { Some(nilSlice) })
	assert.Panics(t, func() { Some(nilErr) })
	assert.NotPanics(t, func() { Some(0) })
	assert.NotPanics(t, func() { Some("") })
}

func TestFromNullable(t *testing.T) {
	var nilManager *manager
	assert.True(t, FromNullable(nilManager).IsNone())

	boss := &manager{name: "Ana"}
	m := FromNullable(boss)
	require.True(t, m.IsSome())
	assert.Same(t, boss, m.Value())

	assert.True(t, FromPtr[int](nil).IsNone())
	n := 3
	assert.Equal(t, 3, FromPtr(&n).Value())
}

func TestAccessors(t *testing.T) {
	assert.Panics(t, func() { None[int]().Value() })
	assert.Equal(t, 4, None[int]().GetOrElse(4))
	assert.Equal(t, 1, Some(1).GetOrElse(4))
	assert.Equal(t, 8, None[int]().GetOrElseGet(func() int { return 8 }))
	assert.Equal(t, 2, None[int]().OrElse(Some(2)).Value())
	assert.Equal(t, 1, Some(1).OrElse(Some(2)).Value())
	assert.Nil(t, None[int]().Ptr())
	assert.Equal(t, 5, *Some(5).Ptr())
	assert.Equal(t, "Some(5)", Some(5).String())
	assert.Equal(t, "None", None[int]().String())
}

func TestMapAndFlatMap(t *testing.T) {
	upper := Map(Some("hr"), strings.ToUpper)
	assert.Equal(t, "HR", upper.Value())
	assert.True(t, Map(None[string](), strings.ToUpper).IsNone())

	toNil := Map(Some(1), func(int) *manager { return nil })
	assert.True(t, toNil.IsNone())

	var failed Maybe[int]
	require.NotPanics(t, func() {
		failed = Map(Some(1), func(int) int { panic("boom") })
	})
	assert.True(t, failed.IsNone())

	half := func(x int) Maybe[int] {
		if x%2 != 0 {
			return None[int]()
		}
		return Some(x / 2)
	}
	assert.Equal(t, 2, FlatMap(Some(4), half).Value())
	assert.True(t, FlatMap(Some(3), half).IsNone())
	assert.True(t, FlatMap(None[int](), half).IsNone())
}

func TestFilterAndToResult(t *testing.T) {
	positive := func(x int) bool { return x > 0 }
	assert.True(t, Some(3).Filter(positive).IsSome())
	assert.True(t, Some(-3).Filter(positive).IsNone())

	errMissing := errors.New("manager missing")
	assert.ErrorIs(t, None[int]().ToResult(errMissing).Err(), errMissing)
	assert.Equal(t, 3, Some(3).ToResult(errMissing).Value())
}
