package catalog

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/tuannm99/novalite/internal/heap"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/storage"
)

// Table is the unit of persistence: a name, its schema and its rows.
//
// A published schema is never modified. AddColumn publishes a new copy, so a
// command that loaded the schema keeps a consistent view of it and stored
// rows may be shorter or longer than that view.
type Table struct {
	Name string
	Rows *heap.Store

	schema  atomic.Pointer[record.Schema]
	alterMu sync.Mutex
}

func newTable(schema *record.Schema) *Table {
	t := &Table{
		Name: schema.TableName,
		Rows: heap.NewStore(),
	}
	t.schema.Store(schema)
	return t
}

// Schema returns the current schema. Callers must not modify it.
func (t *Table) Schema() *record.Schema { return t.schema.Load() }

// AddColumn publishes a copy of the schema with col appended, then pads
// every row to the new width. Concurrent AddColumn calls on one table are
// serialized.
func (t *Table) AddColumn(col record.Column) error {
	t.alterMu.Lock()
	defer t.alterMu.Unlock()

	next := t.Schema().Clone()
	if err := next.AddColumn(col); err != nil {
		return err
	}
	t.schema.Store(next)

	width := next.NumCols()
	for _, r := range t.Rows.Rows() {
		r.PadTo(width)
	}
	return nil
}

// Snapshot copies the schema and every row's values, each row read under its
// read latch. Rows are fitted to the schema width: missing trailing values
// become nulls.
func (t *Table) Snapshot() *storage.Snapshot {
	schema := t.Schema()
	cols := make([]record.Column, len(schema.Cols))
	copy(cols, schema.Cols)

	rows := t.Rows.Rows()
	snap := &storage.Snapshot{
		Name:    t.Name,
		Columns: cols,
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		snap.Rows = append(snap.Rows, fitWidth(r.Values(), len(cols)))
	}
	return snap
}

// fitWidth pads v with nulls or cuts it to exactly n values.
func fitWidth(v []any, n int) []any {
	if len(v) < n {
		return append(v, make([]any, n-len(v))...)
	}
	return v[:n]
}

// tableFromSnapshot materializes a live table; every row gets a fresh latch.
func tableFromSnapshot(snap *storage.Snapshot) (*Table, error) {
	if err := record.ValidateIdent(snap.Name); err != nil {
		return nil, err
	}
	schema, err := record.NewSchema(snap.Name, snap.Columns)
	if err != nil {
		return nil, err
	}
	t := newTable(schema)
	for _, values := range snap.Rows {
		t.Rows.Insert(heap.NewRow(values))
	}
	return t, nil
}
