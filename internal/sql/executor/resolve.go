package executor

import (
	"fmt"
	"strings"

	"github.com/tuannm99/novalite/internal/record"
)

// segment is one table's slice of a (possibly joined) row.
type segment struct {
	table  string
	schema *record.Schema
	offset int
}

// lookup resolves name inside this segment only. A qualifier, if present,
// must name this segment's table.
func (s segment) lookup(name string) (int, error) {
	if q, col, ok := strings.Cut(name, "."); ok {
		if !strings.EqualFold(q, s.table) {
			return -1, fmt.Errorf("%w: %q does not belong to table %q", record.ErrColumnNotFound, name, s.table)
		}
		name = col
	}
	return s.schema.Index(name)
}

// resolver maps column references onto positions of the rows flowing
// through the pipeline: left columns first, then right columns.
type resolver struct {
	left  segment
	right *segment
}

func newResolver(left *record.Schema, right *record.Schema) resolver {
	r := resolver{left: segment{table: left.TableName, schema: left}}
	if right != nil {
		r.right = &segment{table: right.TableName, schema: right, offset: left.NumCols()}
	}
	return r
}

func (r resolver) width() int {
	n := r.left.schema.NumCols()
	if r.right != nil {
		n += r.right.schema.NumCols()
	}
	return n
}

// resolve returns the row position and column definition for a possibly
// qualified column name. Unqualified names try the left table, then the right.
func (r resolver) resolve(name string) (int, record.Column, error) {
	if q, col, ok := strings.Cut(name, "."); ok {
		inLeft := strings.EqualFold(q, r.left.table)
		inRight := r.right != nil && strings.EqualFold(q, r.right.table)
		switch {
		case inLeft && inRight:
			return -1, record.Column{}, fmt.Errorf("%w: %q matches both sides of the join", ErrAmbiguousColumn, name)
		case inLeft:
			return r.at(r.left, col)
		case inRight:
			return r.at(*r.right, col)
		default:
			return -1, record.Column{}, fmt.Errorf("%w: unknown table qualifier in %q", record.ErrColumnNotFound, name)
		}
	}

	if pos, col, err := r.at(r.left, name); err == nil {
		return pos, col, nil
	}
	if r.right != nil {
		if pos, col, err := r.at(*r.right, name); err == nil {
			return pos, col, nil
		}
	}
	return -1, record.Column{}, fmt.Errorf("%w: %q", record.ErrColumnNotFound, name)
}

func (r resolver) at(s segment, name string) (int, record.Column, error) {
	pos, err := s.schema.Index(name)
	if err != nil {
		return -1, record.Column{}, err
	}
	return s.offset + pos, s.schema.Cols[pos], nil
}

// columns names the output columns: plain for a single table, qualified after a join.
func (r resolver) columns() []string {
	if r.right == nil {
		return r.left.schema.Names()
	}
	out := make([]string, 0, r.width())
	for _, s := range []segment{r.left, *r.right} {
		for _, c := range s.schema.Cols {
			out = append(out, s.table+"."+c.Name)
		}
	}
	return out
}
