package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/executor"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

func TestReadBatch(t *testing.T) {
	cmds, err := readBatch(strings.NewReader(`  [{"op":"insert","table":"t","values":["1"]}, {"op":"delete","table":"t"}]`))
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	cmds, err = readBatch(strings.NewReader(`{"op":"select","table":"t","limit":2}`))
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	require.Equal(t, 2, *cmds[0].Limit)

	cmds, err = readBatch(strings.NewReader("  \n"))
	require.NoError(t, err)
	require.Empty(t, cmds)

	_, err = readBatch(strings.NewReader(`[{"op":`))
	require.Error(t, err)
}

func TestCommandToPlan(t *testing.T) {
	p, err := command{
		Op: "SELECT", Table: "users",
		Where:   &whereDoc{Column: "email", Op: "is", Value: "not null"},
		Join:    &joinDoc{Table: "orders", Left: "id", Right: "user_id"},
		OrderBy: &orderDoc{Column: "id", Desc: true},
		Offset:  planner.Int(1),
	}.toPlan()
	require.NoError(t, err)
	require.Equal(t, &planner.SelectPlan{
		TableName: "users",
		Where:     &planner.Predicate{Column: "email", Op: planner.OpIsNotNull},
		Join:      &planner.JoinSpec{Type: planner.JoinInner, Table: "orders", LeftColumn: "id", RightColumn: "user_id"},
		OrderBy:   &planner.OrderBy{Column: "id", Desc: true},
		Offset:    planner.Int(1),
	}, p)

	p, err = command{Op: "alter", Table: "users", Add: &planner.ColumnDef{Name: "score", Type: "float"}}.toPlan()
	require.NoError(t, err)
	require.Equal(t, &planner.AlterTablePlan{TableName: "users", Column: record.Column{Name: "score", Type: record.ColFloat}}, p)

	p, err = command{Op: "update", Table: "users", Set: &setDoc{Column: "name", Value: "x"}, Where: &whereDoc{Column: "id", Value: "1"}}.toPlan()
	require.NoError(t, err)
	require.Equal(t, &planner.UpdatePlan{TableName: "users", Column: "name", Value: "x", Where: planner.Eq("id", "1")}, p)

	_, err = command{Op: "select", Table: "users", Join: &joinDoc{Type: "full", Table: "o", Left: "a", Right: "b"}}.toPlan()
	require.ErrorIs(t, err, executor.ErrUnsupportedJoin)

	for _, bad := range []command{
		{Op: "drop", Table: "users"},
		{Op: "update", Table: "users"},
		{Op: "alter", Table: "users"},
		{Op: "alter", Table: "users", Add: &planner.ColumnDef{Name: "x", Type: "blob"}},
		{Op: "select", Table: "users", Join: &joinDoc{Type: "outer", Table: "o", Left: "a", Right: "b"}},
		{Op: "delete", Table: "users", Where: &whereDoc{Column: "id", Op: "<", Value: "1"}},
	} {
		_, err := bad.toPlan()
		require.Error(t, err, bad.Op)
	}
}
