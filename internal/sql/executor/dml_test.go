package executor

import (
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novalite/internal/catalog"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

func TestUpdate_OnlyMatchingRows(t *testing.T) {
	e, store := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.UpdatePlan{TableName: "users", Column: "age", Value: "36", Where: planner.Eq("id", "3")})
	require.Equal(t, int64(1), res.AffectedRows)

	all := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Equal(t, []any{int64(30), int64(25), int64(36)}, column(all.Rows, 2))

	snap, err := store.Load("users")
	require.NoError(t, err)
	require.Equal(t, int64(36), snap.Rows[2][2])
}

// UPDATE uses the same equality as SELECT and DELETE: strings fold case.
func TestUpdate_StringMatchIgnoresCase(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.UpdatePlan{TableName: "users", Column: "age", Value: "31", Where: planner.Eq("name", "alice")})
	require.Equal(t, int64(1), res.AffectedRows)

	res = mustExec(t, e, &planner.SelectPlan{TableName: "users", Where: planner.Eq("name", "Alice")})
	require.Equal(t, [][]any{{int64(1), "Alice", int64(31)}}, res.Rows)
}

func TestSelect_ReportsNoAffectedRows(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Len(t, res.Rows, 3)
	require.Zero(t, res.AffectedRows)
}

func TestUpdate_NoWhereTouchesEveryRow(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.UpdatePlan{TableName: "users", Column: "name", Value: "NULL"})
	require.Equal(t, int64(3), res.AffectedRows)

	all := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Equal(t, []any{nil, nil, nil}, column(all.Rows, 1))
}

func TestUpdate_NoMatch(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.UpdatePlan{TableName: "users", Column: "age", Value: "1", Where: planner.Eq("id", "42")})
	require.Equal(t, int64(0), res.AffectedRows)
}

func TestUpdate_Errors(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Exec(&planner.UpdatePlan{TableName: "users", Column: "email", Value: "x"})
	require.ErrorIs(t, err, record.ErrColumnNotFound)

	_, err = e.Exec(&planner.UpdatePlan{TableName: "users", Column: "age", Value: "old"})
	require.ErrorIs(t, err, record.ErrTypeMismatch)

	_, err = e.Exec(&planner.UpdatePlan{TableName: "users", Column: "age", Value: "1", Where: planner.Eq("nope", "1")})
	require.ErrorIs(t, err, record.ErrColumnNotFound)

	_, err = e.Exec(&planner.UpdatePlan{TableName: "ghost", Column: "age", Value: "1"})
	require.ErrorIs(t, err, catalog.ErrTableNotFound)

	// failed updates leave data untouched
	all := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Equal(t, []any{int64(30), int64(25), int64(35)}, column(all.Rows, 2))
}

func TestDelete_OnlyMatchingRows(t *testing.T) {
	e, store := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.DeletePlan{TableName: "users", Where: planner.Eq("id", "3")})
	require.Equal(t, int64(1), res.AffectedRows)

	all := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Equal(t, []any{"Alice", "Bob"}, column(all.Rows, 1))

	snap, err := store.Load("users")
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)

	res = mustExec(t, e, &planner.DeletePlan{TableName: "users", Where: planner.Eq("id", "3")})
	require.Equal(t, int64(0), res.AffectedRows)
}

func TestDelete_StringMatchIgnoresCase(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.DeletePlan{TableName: "users", Where: planner.Eq("name", "ALICE")})
	require.Equal(t, int64(1), res.AffectedRows)
}

func TestDelete_NoWhereEmptiesTable(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res := mustExec(t, e, &planner.DeletePlan{TableName: "users"})
	require.Equal(t, int64(3), res.AffectedRows)

	all := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Empty(t, all.Rows)
	require.Equal(t, []string{"id", "name", "age"}, all.Columns)
}

func TestDelete_IsNull(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	insert(t, e, "users", "4", "Dave", "")

	isNull, err := planner.NewPredicate("age", "is", "null")
	require.NoError(t, err)
	res := mustExec(t, e, &planner.DeletePlan{TableName: "users", Where: isNull})
	require.Equal(t, int64(1), res.AffectedRows)
}

// ---- DDL ----

func TestCreateTable_Errors(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	cols := []record.Column{{Name: "id", Type: record.ColInt}}
	_, err := e.Exec(&planner.CreateTablePlan{TableName: "users", Columns: cols})
	require.ErrorIs(t, err, catalog.ErrDuplicateTable)

	_, err = e.Exec(&planner.CreateTablePlan{TableName: "t", Columns: []record.Column{
		{Name: "a", Type: record.ColInt}, {Name: "A", Type: record.ColString},
	}})
	require.ErrorIs(t, err, record.ErrDuplicateColumn)

	_, err = e.Exec(&planner.CreateTablePlan{TableName: "t"})
	require.ErrorIs(t, err, planner.ErrInvalidPlan)

	_, err = e.Exec(nil)
	require.ErrorIs(t, err, planner.ErrInvalidPlan)

	_, err = e.Exec((*planner.SelectPlan)(nil))
	require.ErrorIs(t, err, planner.ErrInvalidPlan)
	_, err = e.Exec((*planner.DeletePlan)(nil))
	require.ErrorIs(t, err, planner.ErrInvalidPlan)
}

func TestAlterTable_AddColumn(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	mustExec(t, e, &planner.AlterTablePlan{TableName: "users", Column: record.Column{Name: "email", Type: record.ColString}})

	all := mustExec(t, e, &planner.SelectPlan{TableName: "users"})
	require.Equal(t, []string{"id", "name", "age", "email"}, all.Columns)
	require.Equal(t, []any{nil, nil, nil}, column(all.Rows, 3))

	_, err := e.Exec(&planner.InsertPlan{TableName: "users", Values: []string{"4", "Dave", "40"}})
	require.ErrorIs(t, err, ErrArityMismatch)
	insert(t, e, "users", "4", "Dave", "40", "dave@example.com")

	mustExec(t, e, &planner.UpdatePlan{TableName: "users", Column: "email", Value: "a@example.com", Where: planner.Eq("id", "1")})
	res := mustExec(t, e, &planner.SelectPlan{TableName: "users", Where: planner.Eq("email", "A@EXAMPLE.COM")})
	require.Equal(t, []any{"Alice"}, column(res.Rows, 1))

	_, err = e.Exec(&planner.AlterTablePlan{TableName: "users", Column: record.Column{Name: "EMAIL", Type: record.ColString}})
	require.ErrorIs(t, err, record.ErrDuplicateColumn)
}

// ---- concurrency ----

func TestConcurrentReadersSeeWholeRows(t *testing.T) {
	e, _ := newTestExecutor(t)
	createTable(t, e, "pairs",
		planner.ColumnDef{Name: "a", Type: "INT"},
		planner.ColumnDef{Name: "b", Type: "INT"},
	)
	insert(t, e, "pairs", "0", "0")
	tbl, err := e.Catalog().Table("pairs")
	require.NoError(t, err)
	row := tbl.Rows.Rows()[0]

	const writes = 500
	var wg conc.WaitGroup
	wg.Go(func() {
		for i := int64(1); i <= writes; i++ {
			_ = row.WithWrite(func(values []any) error {
				values[0] = i
				values[1] = -i
				return nil
			})
		}
	})
	for range 4 {
		wg.Go(func() {
			for range writes {
				res, err := e.Exec(&planner.SelectPlan{TableName: "pairs"})
				if err != nil {
					panic(err)
				}
				a, b := res.Rows[0][0].(int64), res.Rows[0][1].(int64)
				if a != -b {
					panic("torn row read")
				}
			}
		})
	}
	wg.Wait()
}

// Reads keep running while columns are added to the same table.
// Run with -race: the schema must never be modified while it is being read.
func TestConcurrentCommandsDuringAddColumn(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	const alters = 40
	var wg conc.WaitGroup
	wg.Go(func() {
		for i := range alters {
			col := record.Column{Name: "extra" + record.Format(int64(i)), Type: record.ColInt}
			if err := e.Catalog().AddColumn("users", col); err != nil {
				panic(err)
			}
		}
	})
	for range 2 {
		wg.Go(func() {
			for range 200 {
				res, err := e.Exec(&planner.SelectPlan{
					TableName: "users",
					Where:     planner.Eq("id", "1"),
					OrderBy:   &planner.OrderBy{Column: "age"},
				})
				if err != nil {
					panic(err)
				}
				for _, row := range res.Rows {
					if len(row) != len(res.Columns) {
						panic("row width differs from column count")
					}
				}
			}
		})
	}
	wg.Wait()

	tbl, err := e.Catalog().Table("users")
	require.NoError(t, err)
	require.Equal(t, 3+alters, tbl.Schema().NumCols())
	for _, r := range tbl.Rows.Rows() {
		require.Equal(t, 3+alters, r.Len())
	}
}

func TestConcurrentInsertsAllLand(t *testing.T) {
	e, _ := newTestExecutor(t)
	createTable(t, e, "events", planner.ColumnDef{Name: "id", Type: "INT"})

	const workers, each = 8, 25
	var wg conc.WaitGroup
	for w := range workers {
		wg.Go(func() {
			for i := range each {
				_, err := e.Exec(&planner.InsertPlan{TableName: "events", Values: []string{record.Format(int64(w*each + i))}})
				if err != nil {
					panic(err)
				}
			}
		})
	}
	wg.Wait()

	res := mustExec(t, e, &planner.SelectPlan{TableName: "events", OrderBy: &planner.OrderBy{Column: "id"}})
	require.Len(t, res.Rows, workers*each)
	for i, r := range res.Rows {
		require.Equal(t, int64(i), r[0])
	}
}

// ---- stats ----

func TestStats(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, _ = e.Exec(&planner.SelectPlan{TableName: "ghost"})
	mustExec(t, e, &planner.SelectPlan{TableName: "users", Limit: planner.Int(2)})
	mustExec(t, e, &planner.DeletePlan{TableName: "users", Where: planner.Eq("id", "1")})

	// create + 3 inserts + failed select + select + delete
	st := e.Stats()
	require.Equal(t, uint64(7), st.Commands)
	require.Equal(t, uint64(1), st.Failures)
	require.Equal(t, uint64(2), st.RowsReturned)
	// reads return rows but affect none
	require.Equal(t, uint64(3+1), st.RowsAffected)
}
