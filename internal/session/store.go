// Package session persists the active session id between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const slotFile = "session"

// Store is a durable single-slot store for the session id. It is the
// terminal analogue of a browser's localStorage entry: one well-known
// key, no expiry, no versioning.
type Store struct {
	path string
}

// NewStore creates a Store rooted at dir, creating dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, slotFile)}, nil
}

// Save writes id to the slot, overwriting any previous value. Saving an
// empty id is a no-op: the controller never intentionally persists
// "no session", so an empty value must not clobber a stored one.
func (s *Store) Save(id string) error {
	if id == "" {
		return nil
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load returns the stored session id and whether one was present.
func (s *Store) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read session file: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// Clear removes the slot. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
