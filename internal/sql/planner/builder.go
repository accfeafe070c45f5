package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tuannm99/novalite/internal/record"
)

var (
	ErrInvalidPlan     = errors.New("planner: invalid plan")
	ErrUnsupportedJoin = errors.New("planner: unsupported join type")
)

// ColumnDef is a column as a command producer spells it.
type ColumnDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// BuildColumns maps column definitions to typed columns.
func BuildColumns(defs []ColumnDef) ([]record.Column, error) {
	cols := make([]record.Column, 0, len(defs))
	for _, d := range defs {
		typ, err := record.ParseColumnType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", d.Name, err)
		}
		cols = append(cols, record.Column{Name: d.Name, Type: typ})
	}
	return cols, nil
}

// Eq builds a col = literal predicate.
func Eq(column, literal string) *Predicate {
	return &Predicate{Column: column, Op: OpEq, Literal: literal}
}

// NewPredicate builds a predicate from an operator keyword ("=" or "IS")
// and its literal. With IS the literal must be NULL or NOT NULL.
func NewPredicate(column, op, literal string) (*Predicate, error) {
	switch strings.ToUpper(strings.TrimSpace(op)) {
	case "=", "==":
		return Eq(column, literal), nil
	case "IS":
		switch strings.Join(strings.Fields(strings.ToUpper(literal)), " ") {
		case "NULL":
			return &Predicate{Column: column, Op: OpIsNull}, nil
		case "NOT NULL":
			return &Predicate{Column: column, Op: OpIsNotNull}, nil
		}
		return nil, fmt.Errorf("%w: IS expects NULL or NOT NULL, got %q", ErrInvalidPlan, literal)
	default:
		return nil, fmt.Errorf("%w: unsupported operator %q", ErrInvalidPlan, op)
	}
}

// ParseJoinType maps a join keyword, in any case, to a JoinType.
// An empty keyword means INNER.
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INNER":
		return JoinInner, nil
	case "LEFT":
		return JoinLeft, nil
	case "RIGHT":
		return JoinRight, nil
	}
	return "", fmt.Errorf("%w: %w %q", ErrInvalidPlan, ErrUnsupportedJoin, s)
}

// Validate checks the shape of a plan before execution. It does not
// consult the catalog.
func Validate(p Plan) error {
	if isNil(p) {
		return fmt.Errorf("%w: nil plan", ErrInvalidPlan)
	}
	switch plan := p.(type) {
	case *CreateTablePlan:
		if plan.TableName == "" {
			return fmt.Errorf("%w: CREATE TABLE without a name", ErrInvalidPlan)
		}
		if len(plan.Columns) == 0 {
			return fmt.Errorf("%w: table %q has no columns", ErrInvalidPlan, plan.TableName)
		}
	case *InsertPlan:
		return requireTable(plan.TableName, "INSERT")
	case *SelectPlan:
		if err := requireTable(plan.TableName, "SELECT"); err != nil {
			return err
		}
		if plan.Limit != nil && *plan.Limit < 0 {
			return fmt.Errorf("%w: negative LIMIT %d", ErrInvalidPlan, *plan.Limit)
		}
		if plan.Offset != nil && *plan.Offset < 0 {
			return fmt.Errorf("%w: negative OFFSET %d", ErrInvalidPlan, *plan.Offset)
		}
		if j := plan.Join; j != nil {
			if j.Table == "" || j.LeftColumn == "" || j.RightColumn == "" {
				return fmt.Errorf("%w: incomplete JOIN on %q", ErrInvalidPlan, plan.TableName)
			}
		}
		if plan.OrderBy != nil && plan.OrderBy.Column == "" {
			return fmt.Errorf("%w: ORDER BY without a column", ErrInvalidPlan)
		}
		return validatePredicate(plan.Where)
	case *UpdatePlan:
		if err := requireTable(plan.TableName, "UPDATE"); err != nil {
			return err
		}
		if plan.Column == "" {
			return fmt.Errorf("%w: UPDATE %q without a target column", ErrInvalidPlan, plan.TableName)
		}
		return validatePredicate(plan.Where)
	case *DeletePlan:
		if err := requireTable(plan.TableName, "DELETE"); err != nil {
			return err
		}
		return validatePredicate(plan.Where)
	case *AlterTablePlan:
		return requireTable(plan.TableName, "ALTER TABLE")
	}
	return nil
}

// isNil reports an untyped nil or a nil pointer to one of the plan types.
func isNil(p Plan) bool {
	switch plan := p.(type) {
	case nil:
		return true
	case *CreateTablePlan:
		return plan == nil
	case *InsertPlan:
		return plan == nil
	case *SelectPlan:
		return plan == nil
	case *UpdatePlan:
		return plan == nil
	case *DeletePlan:
		return plan == nil
	case *AlterTablePlan:
		return plan == nil
	}
	return false
}

func requireTable(name, stmt string) error {
	if name == "" {
		return fmt.Errorf("%w: %s without a table", ErrInvalidPlan, stmt)
	}
	return nil
}

func validatePredicate(w *Predicate) error {
	if w == nil {
		return nil
	}
	if w.Column == "" {
		return fmt.Errorf("%w: WHERE without a column", ErrInvalidPlan)
	}
	switch w.Op {
	case OpEq, OpIsNull, OpIsNotNull:
		return nil
	default:
		return fmt.Errorf("%w: unknown WHERE operator %d", ErrInvalidPlan, w.Op)
	}
}

// Int is a convenience for optional LIMIT/OFFSET fields.
func Int(n int) *int { return &n }
