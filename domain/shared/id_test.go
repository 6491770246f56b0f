package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	_, err := NewID("")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewID("   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewID(0)
	assert.ErrorIs(t, err, ErrValidation)

	id, err := NewID(int64(42))
	require.NoError(t, err)
	assert.Equal(t, "42", id.String())
	assert.False(t, id.IsZero())
}

func TestUUIDs(t *testing.T) {
	generated := NewUUID()
	parsed, err := ParseUUID(generated.Value())
	require.NoError(t, err)
	assert.True(t, generated.Equals(parsed))
	assert.Equal(t, generated.HashCode(), parsed.HashCode())

	tests := []struct {
		name  string
		input string
	}{
		{"not a uuid", "hello"},
		{"version 1", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"braced form", "{6ba7b810-9dad-41d1-80b4-00c04fd430c8}"},
		{"bad variant", "6ba7b810-9dad-41d1-c0b4-00c04fd430c8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUUID(tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err = ParseUUID("6ba7b810-9dad-41d1-80b4-00c04fd430c8")
	assert.NoError(t, err)
}

func TestIDEqualityAcrossTypes(t *testing.T) {
	a, _ := NewID("7")
	b, _ := NewID(7)
	// both are IDs but their components differ in kind
	assert.False(t, a.Equals(b))
	assert.False(t, a.Equals(MustMoney(7, "BRL")))
}

func TestIDClone(t *testing.T) {
	id := NewUUID()
	clone := id.Clone()
	assert.True(t, id.Equals(clone))
	assert.Equal(t, id.HashCode(), clone.HashCode())
	assert.Equal(t, id.Value(), clone.Value())
}

func TestIDMarshalJSON(t *testing.T) {
	id, _ := NewID("emp-1")
	out, err := json.Marshal(struct {
		ID ID[string] `json:"id"`
	}{id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"emp-1"}`, string(out))
}
