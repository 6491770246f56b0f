// Package jsonfile keeps employee snapshots in a single JSON document so the in-memory
// repository can survive between command-line invocations.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"hrkernel/domain/employee"
)

// formatVersion is bumped whenever the document layout changes incompatibly.
const formatVersion = 1

type document struct {
	Version   int                 `json:"version"`
	Employees []employee.Snapshot `json:"employees"`
}

// Store 快照文件存储
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the stored snapshots. A missing file is an empty store.
func (s *Store) Load() ([]employee.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("store %s has format version %d, want %d", s.path, doc.Version, formatVersion)
	}
	return doc.Employees, nil
}

// Save replaces the file atomically: a reader sees either the old or the new document.
func (s *Store) Save(rows []employee.Snapshot) error {
	if rows == nil {
		rows = []employee.Snapshot{}
	}
	data, err := json.MarshalIndent(document{Version: formatVersion, Employees: rows}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store %s: %w", s.path, err)
	}
	return nil
}
