package rowstore

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrIndexOutOfRange = errors.New("row index out of range")
	ErrUnknownField    = errors.New("unknown row field")
)

// Store is an ordered sequence of rows addressed by position. Every mutation
// builds a new sequence and swaps it in, so snapshots stay stable.
type Store struct {
	mu   sync.RWMutex
	rows []Row
}

// NewStore creates a store holding a copy of rows
func NewStore(rows ...Row) *Store {
	return &Store{rows: cloneRows(rows)}
}

// NewBlankStore creates a store with a single blank row
func NewBlankStore() *Store {
	return NewStore(BlankRow())
}

// Snapshot returns a copy of the current rows
func (s *Store) Snapshot() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.rows)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Get returns a copy of the row at index
func (s *Store) Get(index int) (Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.rows) {
		return Row{}, fmt.Errorf("%w: %d (rows: %d)", ErrIndexOutOfRange, index, len(s.rows))
	}
	return s.rows[index].clone(), nil
}

// Append adds row to the end of the sequence
func (s *Store) Append(row Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Row, len(s.rows), len(s.rows)+1)
	copy(next, s.rows)
	s.rows = append(next, row.clone())
}

// SetField replaces one field of the row at index. On error nothing changes.
func (s *Store) SetField(index int, field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrIndexOutOfRange, index, len(s.rows))
	}

	updated := s.rows[index].clone()
	if err := updated.set(field, value); err != nil {
		return fmt.Errorf("%w: %q", err, field)
	}

	next := make([]Row, len(s.rows))
	copy(next, s.rows)
	next[index] = updated
	s.rows = next
	return nil
}

// ReplaceAll swaps in a copy of rows
func (s *Store) ReplaceAll(rows []Row) {
	next := cloneRows(rows)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = next
}

// Reset leaves exactly one blank row
func (s *Store) Reset() {
	s.ReplaceAll([]Row{BlankRow()})
}
