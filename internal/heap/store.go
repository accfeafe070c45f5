package heap

import "sync"

// Store holds the rows of exactly one table in insertion order.
//
// mu only guards the membership slice; it is held for the slice operation
// itself and never while a row's values are read or written.
type Store struct {
	mu   sync.Mutex
	rows []*Row
}

func NewStore(rows ...*Row) *Store {
	return &Store{rows: rows}
}

// Insert appends r.
func (s *Store) Insert(r *Row) {
	s.mu.Lock()
	s.rows = append(s.rows, r)
	s.mu.Unlock()
}

// Rows returns a snapshot of current membership. The rows themselves are
// shared: value changes made after the call are still visible through them.
func (s *Store) Rows() []*Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Scan calls fn for every row in a membership snapshot, stopping at the first error.
func (s *Store) Scan(fn func(r *Row) error) error {
	for _, r := range s.Rows() {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// DeleteMany removes every given row by identity and returns how many were
// actually removed. Rows that are not members are ignored.
func (s *Store) DeleteMany(rows []*Row) int {
	if len(rows) == 0 {
		return 0
	}
	drop := make(map[*Row]struct{}, len(rows))
	for _, r := range rows {
		drop[r] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	removed := 0
	for _, r := range s.rows {
		if _, ok := drop[r]; ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	// clear the tail so dropped rows can be collected
	for i := len(kept); i < len(s.rows); i++ {
		s.rows[i] = nil
	}
	s.rows = kept
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
