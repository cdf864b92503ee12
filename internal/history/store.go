// Package history remembers the workspaces and files the user opened.
//
// The list lives in a single JSON file under the rpgedit data root. It is a
// convenience for "open recent" menus; losing it never affects documents.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/danieljhkim/rpgedit/internal/fsops"
)

// MaxEntries caps the remembered list.
const MaxEntries = 10

// Kind tells what was opened.
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindFile      Kind = "file"
)

// Entry is one remembered open.
type Entry struct {
	Kind     Kind      `json:"kind"`
	Path     string    `json:"path"`
	OpenedAt time.Time `json:"openedAt"`
}

// file is the on-disk schema.
type file struct {
	Entries []Entry `json:"entries"`
}

// Recorder is the write side used by the open flows.
type Recorder interface {
	Record(kind Kind, path string, at time.Time) error
}

// Store implements Recorder on top of a JSON file.
type Store struct {
	mu   sync.Mutex
	fs   fsops.FS
	path string
}

// NewStore creates a Store persisting to path.
func NewStore(fs fsops.FS, path string) *Store {
	return &Store{fs: fs, path: path}
}

// List returns remembered entries, newest first. A missing file is an
// empty list.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Entries, nil
}

// Record moves path to the front of the list, dropping the oldest entries
// past MaxEntries.
func (s *Store) Record(kind Kind, path string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(f.Entries)+1)
	entries = append(entries, Entry{Kind: kind, Path: path, OpenedAt: at})
	for _, e := range f.Entries {
		if e.Kind == kind && e.Path == path {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	f.Entries = entries

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func (s *Store) load() (*file, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &file{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return &f, nil
}
