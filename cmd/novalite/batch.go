package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/executor"
	"github.com/tuannm99/novalite/internal/sql/planner"
)

// command is one entry of a JSON batch. Op selects which fields apply.
type command struct {
	Op      string              `json:"op"`
	Table   string              `json:"table"`
	Columns []planner.ColumnDef `json:"columns,omitempty"`
	Values  []string            `json:"values,omitempty"`
	Where   *whereDoc           `json:"where,omitempty"`
	Join    *joinDoc            `json:"join,omitempty"`
	OrderBy *orderDoc           `json:"order_by,omitempty"`
	Limit   *int                `json:"limit,omitempty"`
	Offset  *int                `json:"offset,omitempty"`
	Set     *setDoc             `json:"set,omitempty"`
	Add     *planner.ColumnDef  `json:"add_column,omitempty"`
}

type whereDoc struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  string `json:"value"`
}

type joinDoc struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

type orderDoc struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

type setDoc struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// result is what exec prints for each command, one JSON object per line.
type result struct {
	Index        int      `json:"index"`
	Op           string   `json:"op"`
	Columns      []string `json:"columns,omitempty"`
	Rows         [][]any  `json:"rows,omitempty"`
	AffectedRows int64    `json:"affected_rows"`
	Error        string   `json:"error,omitempty"`
}

func newResult(i int, op string, res *executor.Result, err error) result {
	out := result{Index: i, Op: op}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Columns = res.Columns
	out.Rows = res.Rows
	out.AffectedRows = res.AffectedRows
	return out
}

// readBatch accepts either a JSON array of commands or a single command object.
func readBatch(r io.Reader) ([]command, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var cmds []command
		if err := json.Unmarshal(data, &cmds); err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}
		return cmds, nil
	}
	var c command
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return []command{c}, nil
}

// toPlan turns a decoded command into an executable plan.
func (c command) toPlan() (planner.Plan, error) {
	where, err := c.predicate()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(c.Op) {
	case "create":
		cols, err := planner.BuildColumns(c.Columns)
		if err != nil {
			return nil, err
		}
		return &planner.CreateTablePlan{TableName: c.Table, Columns: cols}, nil
	case "insert":
		return &planner.InsertPlan{TableName: c.Table, Values: c.Values}, nil
	case "select":
		p := &planner.SelectPlan{TableName: c.Table, Where: where, Limit: c.Limit, Offset: c.Offset}
		if c.Join != nil {
			typ, err := planner.ParseJoinType(c.Join.Type)
			if err != nil {
				return nil, err
			}
			p.Join = &planner.JoinSpec{Type: typ, Table: c.Join.Table, LeftColumn: c.Join.Left, RightColumn: c.Join.Right}
		}
		if c.OrderBy != nil {
			p.OrderBy = &planner.OrderBy{Column: c.OrderBy.Column, Desc: c.OrderBy.Desc}
		}
		return p, nil
	case "update":
		if c.Set == nil {
			return nil, fmt.Errorf("%w: update %q without set", planner.ErrInvalidPlan, c.Table)
		}
		return &planner.UpdatePlan{TableName: c.Table, Column: c.Set.Column, Value: c.Set.Value, Where: where}, nil
	case "delete":
		return &planner.DeletePlan{TableName: c.Table, Where: where}, nil
	case "alter":
		if c.Add == nil {
			return nil, fmt.Errorf("%w: alter %q without add_column", planner.ErrInvalidPlan, c.Table)
		}
		typ, err := record.ParseColumnType(c.Add.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Add.Name, err)
		}
		return &planner.AlterTablePlan{TableName: c.Table, Column: record.Column{Name: c.Add.Name, Type: typ}}, nil
	default:
		return nil, fmt.Errorf("%w: unknown op %q", planner.ErrInvalidPlan, c.Op)
	}
}

func (c command) predicate() (*planner.Predicate, error) {
	if c.Where == nil {
		return nil, nil
	}
	op := c.Where.Op
	if op == "" {
		op = "="
	}
	return planner.NewPredicate(c.Where.Column, op, c.Where.Value)
}
