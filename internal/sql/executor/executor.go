package executor

import (
	"fmt"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/tuannm99/novalite/internal/catalog"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

// Stats are cumulative execution counters.
type Stats struct {
	Commands     uint64
	Failures     uint64
	RowsAffected uint64
	RowsReturned uint64
}

// Executor runs plans against a catalog. It is safe for concurrent use;
// isolation is only what the per-row latches provide.
type Executor struct {
	catalog *catalog.Catalog

	commands atomic.Uint64
	failures atomic.Uint64
	affected atomic.Uint64
	returned atomic.Uint64
}

func NewExecutor(c *catalog.Catalog) *Executor {
	return &Executor{catalog: c}
}

func (e *Executor) Catalog() *catalog.Catalog { return e.catalog }

func (e *Executor) Stats() Stats {
	return Stats{
		Commands:     e.commands.Load(),
		Failures:     e.failures.Load(),
		RowsAffected: e.affected.Load(),
		RowsReturned: e.returned.Load(),
	}
}

// Exec validates and runs one plan. On failure no partial result is returned.
func (e *Executor) Exec(p planner.Plan) (*Result, error) {
	e.commands.Inc()

	res, err := e.exec(p)
	if err != nil {
		e.failures.Inc()
		slog.Debug("executor: command failed", "plan", fmt.Sprintf("%T", p), "err", err)
		return nil, err
	}

	e.affected.Add(uint64(res.AffectedRows))
	e.returned.Add(uint64(len(res.Rows)))
	slog.Debug("executor: command done", "plan", fmt.Sprintf("%T", p), "affected", res.AffectedRows, "rows", len(res.Rows))
	return res, nil
}

func (e *Executor) exec(p planner.Plan) (*Result, error) {
	if err := planner.Validate(p); err != nil {
		return nil, err
	}

	switch plan := p.(type) {
	case *planner.CreateTablePlan:
		return e.execCreateTable(plan)
	case *planner.AlterTablePlan:
		return e.execAlterTable(plan)
	case *planner.InsertPlan:
		return e.execInsert(plan)
	case *planner.SelectPlan:
		return e.execSelect(plan)
	case *planner.UpdatePlan:
		return e.execUpdate(plan)
	case *planner.DeletePlan:
		return e.execDelete(plan)
	default:
		return nil, fmt.Errorf("executor: unsupported plan type %T", p)
	}
}

func (e *Executor) execCreateTable(p *planner.CreateTablePlan) (*Result, error) {
	if _, err := e.catalog.CreateTable(p.TableName, p.Columns); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: 0}, nil
}

func (e *Executor) execAlterTable(p *planner.AlterTablePlan) (*Result, error) {
	if err := e.catalog.AddColumn(p.TableName, p.Column); err != nil {
		return nil, err
	}
	return &Result{AffectedRows: 0}, nil
}
