package executor

import (
	"github.com/tuannm99/novalite/internal/catalog"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

// execSelect runs scan -> join -> filter -> order -> paginate.
//
// Each base row is copied under its read latch during the scan. Joined rows
// are fresh concatenations and carry no latch, so a joined result is not a
// consistent cut across both tables.
func (e *Executor) execSelect(p *planner.SelectPlan) (*Result, error) {
	left, err := e.catalog.Table(p.TableName)
	if err != nil {
		return nil, err
	}

	var right *catalog.Table
	if p.Join != nil {
		if right, err = e.catalog.Table(p.Join.Table); err != nil {
			return nil, err
		}
	}

	// each schema is loaded once so every stage sees the same columns
	leftSchema := left.Schema()
	var rightSchema *record.Schema
	if right != nil {
		rightSchema = right.Schema()
	}
	res := newResolver(leftSchema, rightSchema)

	// compile everything that can fail on names before touching rows
	where, err := compileWhere(res, p.Where)
	if err != nil {
		return nil, err
	}
	orderPos := -1
	if p.OrderBy != nil {
		if orderPos, _, err = res.resolve(p.OrderBy.Column); err != nil {
			return nil, err
		}
	}

	rows := scanValues(left, leftSchema)
	if right != nil {
		li, ri, err := joinKeys(res, p.Join)
		if err != nil {
			return nil, err
		}
		rows, err = join(p.Join.Type, rows, scanValues(right, rightSchema), li, ri,
			leftSchema.NumCols(), rightSchema.NumCols())
		if err != nil {
			return nil, err
		}
	}

	rows = filter(rows, where)

	if orderPos >= 0 {
		if err := orderRows(rows, orderPos, p.OrderBy.Desc); err != nil {
			return nil, err
		}
	}

	rows = paginate(rows, p.Offset, p.Limit)

	return &Result{
		Columns: res.columns(),
		Rows:    rows,
	}, nil
}
