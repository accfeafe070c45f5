package heap

import (
	locking "github.com/tuannm99/novalite/internal/lock"
)

// Row is one record: positional values plus its own reader/writer latch.
// The latch is a runtime attribute only; it is never persisted and every
// materialized row starts with a fresh one.
type Row struct {
	latch  locking.RWLatch
	values []any
}

// NewRow takes ownership of values.
func NewRow(values []any) *Row {
	return &Row{values: values}
}

// WithRead runs fn with the live values under the shared latch.
// fn must not retain or modify the slice.
func (r *Row) WithRead(fn func(values []any) error) error {
	return r.latch.WithRead(func() error { return fn(r.values) })
}

// WithWrite runs fn with the live values under the exclusive latch.
// fn may overwrite elements in place.
func (r *Row) WithWrite(fn func(values []any) error) error {
	return r.latch.WithWrite(func() error { return fn(r.values) })
}

// Values returns a copy of the row's values taken under the shared latch.
func (r *Row) Values() []any {
	var out []any
	_ = r.WithRead(func(values []any) error {
		out = make([]any, len(values))
		copy(out, values)
		return nil
	})
	return out
}

func (r *Row) Len() int {
	n := 0
	_ = r.WithRead(func(values []any) error {
		n = len(values)
		return nil
	})
	return n
}

// PadTo grows the row to n values with trailing nulls under the exclusive
// latch. A row already that long is left alone.
func (r *Row) PadTo(n int) {
	_ = r.latch.WithWrite(func() error {
		if len(r.values) < n {
			r.values = append(r.values, make([]any, n-len(r.values))...)
		}
		return nil
	})
}
