package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hrkernel/domain/employee"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T) employee.Snapshot {
	t.Helper()
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	e, err := employee.Hire(employee.HireInput{
		FirstName:   "Ana",
		LastName:    "Souza",
		Email:       "ana@example.com",
		CPF:         "529.982.247-25",
		Department:  "eng",
		SalaryCents: 1_250_000,
		Currency:    "BRL",
		HireDate:    time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC),
		Address: &employee.AddressInput{
			Street: "Av. Paulista", Number: "1000", City: "São Paulo",
			State: "SP", PostalCode: "01310-100", Tags: []string{"home"},
		},
	}, "hr", func() time.Time { return at }).Get()
	require.NoError(t, err)
	return e.Snapshot()
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	rows, err := NewStore(filepath.Join(t.TempDir(), "absent.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "employees.json")
	store := NewStore(path)
	want := []employee.Snapshot{snapshot(t)}

	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Save(nil))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestStore_RejectsForeignDocuments(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o644))
	_, err := NewStore(garbage).Load()
	assert.ErrorContains(t, err, "decode store")

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version": 2, "employees": []}`), 0o644))
	_, err = NewStore(future).Load()
	assert.ErrorContains(t, err, "format version 2")
}
