// Package stack persists the staged work orders between the staging step and
// the push step. The whole stack is written as a single JSON snapshot; there
// are no partial writes.
package stack

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mbetts/wosync/internal/domain"
)

// ErrCorrupt marks a snapshot that could not be decoded. The bad file is
// preserved with a .corrupt suffix before the error is returned.
var ErrCorrupt = errors.New("corrupt stack snapshot")

// Store reads and writes the stack snapshot file.
type Store struct {
	path string
}

// NewStore creates a Store over the given snapshot path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file is an empty stack, not an error.
func (s *Store) Load() (domain.Stack, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.Stack{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading stack %s: %w", s.path, err)
	}

	var stack domain.Stack
	if err := json.Unmarshal(data, &stack); err != nil {
		backup := s.path + ".corrupt"
		_ = os.Rename(s.path, backup)
		return nil, fmt.Errorf("%w: %s (backed up to %s): %v", ErrCorrupt, s.path, backup, err)
	}
	return stack, nil
}

// Save atomically replaces the snapshot with the given stack.
func (s *Store) Save(stack domain.Stack) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating stack directory: %w", err)
	}

	data, err := json.MarshalIndent(stack, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling stack: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing stack temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming stack temp file: %w", err)
	}
	return nil
}

// Upsert replaces any stacked order with the same number wholesale, or
// appends when the number is new, then saves. Re-staging never merges.
func (s *Store) Upsert(order *domain.StackedWorkOrder) error {
	stack, err := s.Load()
	if err != nil {
		return err
	}

	replaced := false
	for i, wo := range stack {
		if wo.Number == order.Number {
			stack[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		stack = append(stack, order)
	}
	return s.Save(stack)
}

// Remove drops the stacked order with the given number, if present.
func (s *Store) Remove(number string) error {
	stack, err := s.Load()
	if err != nil {
		return err
	}
	out := stack[:0]
	for _, wo := range stack {
		if wo.Number != number {
			out = append(out, wo)
		}
	}
	return s.Save(out)
}

// Clear removes the snapshot entirely.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing stack: %w", err)
	}
	return nil
}
