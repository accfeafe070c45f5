package planner

import (
	"github.com/tuannm99/novalite/internal/record"
)

// Plan is a structured command descriptor. Producers (a parser, the CLI's
// JSON batch reader, tests) build these; the executor runs them.
type Plan interface {
	planNode()
}

// ----- Plan nodes -----

type CreateTablePlan struct {
	TableName string
	Columns   []record.Column
}

func (*CreateTablePlan) planNode() {}

// InsertPlan carries literals in schema order; they are type-checked at execution.
type InsertPlan struct {
	TableName string
	Values    []string
}

func (*InsertPlan) planNode() {}

type SelectPlan struct {
	TableName string
	Where     *Predicate
	Join      *JoinSpec
	OrderBy   *OrderBy
	Limit     *int
	Offset    *int
}

func (*SelectPlan) planNode() {}

// UpdatePlan sets Column to Value on every row matching Where (every row when Where is nil).
type UpdatePlan struct {
	TableName string
	Column    string
	Value     string
	Where     *Predicate
}

func (*UpdatePlan) planNode() {}

type DeletePlan struct {
	TableName string
	Where     *Predicate
}

func (*DeletePlan) planNode() {}

// AlterTablePlan is ALTER TABLE ... ADD COLUMN.
type AlterTablePlan struct {
	TableName string
	Column    record.Column
}

func (*AlterTablePlan) planNode() {}

// ----- clauses -----

type PredicateOp uint8

const (
	OpEq PredicateOp = iota + 1
	OpIsNull
	OpIsNotNull
)

func (op PredicateOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	default:
		return "?"
	}
}

// Predicate is the single WHERE clause: col = literal, col IS NULL or col IS NOT NULL.
// Column may be qualified as table.column.
type Predicate struct {
	Column  string
	Op      PredicateOp
	Literal string
}

type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
)

// JoinSpec joins the plan's table (left) with Table (right) on LeftColumn = RightColumn.
type JoinSpec struct {
	Type        JoinType
	Table       string
	LeftColumn  string
	RightColumn string
}

type OrderBy struct {
	Column string
	Desc   bool
}
