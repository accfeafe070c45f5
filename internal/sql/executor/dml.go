package executor

import (
	"fmt"

	"github.com/tuannm99/novalite/internal/heap"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

// Every mutation below happens in memory first and is then flushed as a
// full snapshot. A persistence error is returned even though the in-memory
// change already took effect.

func (e *Executor) execInsert(p *planner.InsertPlan) (*Result, error) {
	tbl, err := e.catalog.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	values, err := parseInsertValues(tbl.Schema(), p.Values)
	if err != nil {
		return nil, err
	}

	row := heap.NewRow(values)
	_ = row.WithWrite(func([]any) error {
		tbl.Rows.Insert(row)
		return nil
	})

	if err := e.catalog.Persist(tbl); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: 1}, nil
}

func parseInsertValues(schema *record.Schema, raw []string) ([]any, error) {
	if len(raw) != schema.NumCols() {
		return nil, fmt.Errorf("%w: table %q has %d columns, got %d values",
			ErrArityMismatch, schema.TableName, schema.NumCols(), len(raw))
	}
	out := make([]any, len(raw))
	for i, lit := range raw {
		v, err := record.ParseLiteral(schema.Cols[i], lit)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Executor) execUpdate(p *planner.UpdatePlan) (*Result, error) {
	tbl, err := e.catalog.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	res := newResolver(tbl.Schema(), nil)
	pos, col, err := res.resolve(p.Column)
	if err != nil {
		return nil, err
	}
	newValue, err := record.ParseLiteral(col, p.Value)
	if err != nil {
		return nil, err
	}
	match, err := compileWhere(res, p.Where)
	if err != nil {
		return nil, err
	}

	var affected int64
	for _, r := range tbl.Rows.Rows() {
		_ = r.WithWrite(func(values []any) error {
			if pos < len(values) && match(values) {
				values[pos] = newValue
				affected++
			}
			return nil
		})
	}

	if err := e.catalog.Persist(tbl); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: affected}, nil
}

func (e *Executor) execDelete(p *planner.DeletePlan) (*Result, error) {
	tbl, err := e.catalog.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	match, err := compileWhere(newResolver(tbl.Schema(), nil), p.Where)
	if err != nil {
		return nil, err
	}

	var doomed []*heap.Row
	for _, r := range tbl.Rows.Rows() {
		_ = r.WithRead(func(values []any) error {
			if match(values) {
				doomed = append(doomed, r)
			}
			return nil
		})
	}
	removed := tbl.Rows.DeleteMany(doomed)

	if err := e.catalog.Persist(tbl); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: int64(removed)}, nil
}
