package executor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tuannm99/novalite/internal/catalog"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

// ---- scan ----

// scanValues copies every row's values, each under that row's read latch,
// fitted to the width of the schema the command resolved against. Rows
// written under an older or newer schema are padded with nulls or cut.
func scanValues(t *catalog.Table, schema *record.Schema) [][]any {
	width := schema.NumCols()
	rows := t.Rows.Rows()
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		v := r.Values()
		if len(v) < width {
			v = append(v, make([]any, width-len(v))...)
		}
		out = append(out, v[:width])
	}
	return out
}

// ---- join ----

// joinKeys finds the key positions inside each side. The ON clause may name
// the right table's column first.
func joinKeys(r resolver, j *planner.JoinSpec) (int, int, error) {
	li, lerr := r.left.lookup(j.LeftColumn)
	ri, rerr := r.right.lookup(j.RightColumn)
	if lerr == nil && rerr == nil {
		return li, ri, nil
	}
	if li2, err := r.left.lookup(j.RightColumn); err == nil {
		if ri2, err := r.right.lookup(j.LeftColumn); err == nil {
			return li2, ri2, nil
		}
	}
	if lerr != nil {
		return -1, -1, lerr
	}
	return -1, -1, rerr
}

func keysEqual(a, b any) bool {
	return a != nil && a == b
}

func concat(left, right []any) []any {
	out := make([]any, 0, len(left)+len(right))
	out = append(out, left...)
	return append(out, right...)
}

// join combines left and right rows on left[li] == right[ri]. Null keys never match.
func join(kind planner.JoinType, left, right [][]any, li, ri, leftWidth, rightWidth int) ([][]any, error) {
	var out [][]any
	switch planner.JoinType(strings.ToUpper(string(kind))) {
	case planner.JoinInner:
		for _, l := range left {
			for _, r := range right {
				if keysEqual(l[li], r[ri]) {
					out = append(out, concat(l, r))
				}
			}
		}
	case planner.JoinLeft:
		nulls := make([]any, rightWidth)
		for _, l := range left {
			matched := false
			for _, r := range right {
				if keysEqual(l[li], r[ri]) {
					out = append(out, concat(l, r))
					matched = true
				}
			}
			if !matched {
				out = append(out, concat(l, nulls))
			}
		}
	case planner.JoinRight:
		nulls := make([]any, leftWidth)
		for _, r := range right {
			matched := false
			for _, l := range left {
				if keysEqual(l[li], r[ri]) {
					out = append(out, concat(l, r))
					matched = true
				}
			}
			if !matched {
				out = append(out, concat(nulls, r))
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedJoin, kind)
	}
	return out, nil
}

// ---- filter ----

// matcher is a compiled WHERE clause.
type matcher func(values []any) bool

func matchAll([]any) bool { return true }

// compileWhere resolves the column and parses the literal once.
// Equality parses the literal as the column's type; comparing with NULL never matches.
func compileWhere(r resolver, w *planner.Predicate) (matcher, error) {
	if w == nil {
		return matchAll, nil
	}
	pos, col, err := r.resolve(w.Column)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case planner.OpIsNull:
		return func(values []any) bool { return valueAt(values, pos) == nil }, nil
	case planner.OpIsNotNull:
		return func(values []any) bool { return valueAt(values, pos) != nil }, nil
	case planner.OpEq:
		want, err := record.ParseLiteral(col, w.Literal)
		if err != nil {
			return nil, err
		}
		return func(values []any) bool { return record.Equal(valueAt(values, pos), want) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown WHERE operator %v", planner.ErrInvalidPlan, w.Op)
	}
}

// valueAt treats a position past the end of a short row as null.
func valueAt(values []any, pos int) any {
	if pos < len(values) {
		return values[pos]
	}
	return nil
}

func filter(rows [][]any, m matcher) [][]any {
	out := make([][]any, 0, len(rows))
	for _, v := range rows {
		if m(v) {
			out = append(out, v)
		}
	}
	return out
}

// ---- order ----

// orderRows stable-sorts by one column. Nulls are least, so they lead in
// ascending order and trail in descending order.
func orderRows(rows [][]any, pos int, desc bool) error {
	var cmpErr error
	slices.SortStableFunc(rows, func(a, b []any) int {
		if cmpErr != nil {
			return 0
		}
		c, err := record.Compare(a[pos], b[pos])
		if err != nil {
			cmpErr = err
			return 0
		}
		if desc {
			return -c
		}
		return c
	})
	return cmpErr
}

// ---- paginate ----

// paginate applies OFFSET, then LIMIT.
func paginate(rows [][]any, offset, limit *int) [][]any {
	if offset != nil && *offset > 0 {
		if *offset >= len(rows) {
			return [][]any{}
		}
		rows = rows[*offset:]
	}
	if limit != nil && *limit >= 0 && *limit < len(rows) {
		rows = rows[:*limit]
	}
	return rows
}
