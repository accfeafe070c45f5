package record

import (
	"fmt"
	"strings"
)

type ColumnType uint8

const (
	ColInt     ColumnType = iota + 1 // int64
	ColFloat                         // float64
	ColBoolean                       // bool
	ColString                        // UTF-8
)

func (t ColumnType) String() string {
	switch t {
	case ColInt:
		return "INT"
	case ColFloat:
		return "FLOAT"
	case ColBoolean:
		return "BOOLEAN"
	case ColString:
		return "STRING"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

func (t ColumnType) Valid() bool { return t >= ColInt && t <= ColString }

// ParseColumnType maps a type keyword to a ColumnType. Matching is case-insensitive.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER":
		return ColInt, nil
	case "FLOAT", "DOUBLE", "REAL":
		return ColFloat, nil
	case "BOOLEAN", "BOOL":
		return ColBoolean, nil
	case "STRING", "TEXT", "VARCHAR":
		return ColString, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is the ordered column list of one table. Column order is the
// positional contract for every row of that table.
//
// The index map is keyed by lower-cased column name and always holds exactly
// one entry per column.
type Schema struct {
	TableName string
	Cols      []Column

	index map[string]int
}

// NewSchema validates the columns and builds the name lookup.
func NewSchema(tableName string, cols []Column) (*Schema, error) {
	s := &Schema{
		TableName: tableName,
		Cols:      make([]Column, 0, len(cols)),
		index:     make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		if err := s.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) NumCols() int { return len(s.Cols) }

// Index returns the position of the named column, case-insensitively.
func (s *Schema) Index(name string) (int, error) {
	pos, ok := s.index[strings.ToLower(name)]
	if !ok {
		return -1, fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, name, s.TableName)
	}
	return pos, nil
}

func (s *Schema) Has(name string) bool {
	_, ok := s.index[strings.ToLower(name)]
	return ok
}

// Column returns the named column definition.
func (s *Schema) Column(name string) (Column, error) {
	pos, err := s.Index(name)
	if err != nil {
		return Column{}, err
	}
	return s.Cols[pos], nil
}

// AddColumn appends c at the end of the schema. Callers owning rows must pad
// every row with a trailing null in the same step.
func (s *Schema) AddColumn(c Column) error {
	if err := ValidateIdent(c.Name); err != nil {
		return err
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: column %q has type %v", ErrUnknownType, c.Name, c.Type)
	}
	key := strings.ToLower(c.Name)
	if _, dup := s.index[key]; dup {
		return fmt.Errorf("%w: %q in table %q", ErrDuplicateColumn, c.Name, s.TableName)
	}
	s.Cols = append(s.Cols, c)
	s.index[key] = len(s.Cols) - 1
	return nil
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.Cols))
	for i, c := range s.Cols {
		out[i] = c.Name
	}
	return out
}

// Clone returns an independent copy of the schema.
func (s *Schema) Clone() *Schema {
	cp, _ := NewSchema(s.TableName, s.Cols)
	return cp
}

// ValidateIdent rejects names that cannot be used as a table or column name.
// Dots are reserved for qualified table.column references.
func ValidateIdent(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "./\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
