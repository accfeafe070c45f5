package record

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Values are carried as any: nil, int64, float64, bool or string.

// IsNullLiteral reports whether lit denotes NULL: empty, blank or "NULL" in any case.
func IsNullLiteral(lit string) bool {
	s := strings.TrimSpace(lit)
	return s == "" || strings.EqualFold(s, "NULL")
}

// ParseLiteral converts a textual literal into a value of the column's type.
func ParseLiteral(col Column, lit string) (any, error) {
	if IsNullLiteral(lit) {
		return nil, nil
	}
	s := strings.TrimSpace(lit)
	switch col.Type {
	case ColInt:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an INT (column %q)", ErrTypeMismatch, lit, col.Name)
		}
		return v, nil
	case ColFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a FLOAT (column %q)", ErrTypeMismatch, lit, col.Name)
		}
		return v, nil
	case ColBoolean:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a BOOLEAN (column %q)", ErrTypeMismatch, lit, col.Name)
		}
		return v, nil
	case ColString:
		// keep the literal as given, only NULL detection trims
		return lit, nil
	default:
		return nil, fmt.Errorf("%w: column %q has type %v", ErrUnknownType, col.Name, col.Type)
	}
}

// CheckValue reports whether v is a legal runtime value for t. nil is legal for every type.
func CheckValue(t ColumnType, v any) bool {
	if v == nil {
		return true
	}
	switch t {
	case ColInt:
		_, ok := v.(int64)
		return ok
	case ColFloat:
		_, ok := v.(float64)
		return ok
	case ColBoolean:
		_, ok := v.(bool)
		return ok
	case ColString:
		_, ok := v.(string)
		return ok
	}
	return false
}

// Equal is the predicate equality rule: nulls never match, strings match
// case-insensitively, everything else compares structurally.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && strings.EqualFold(as, bs)
	}
	return a == b
}

// Compare orders two values of the same runtime type. A null sorts before
// any non-null value. Values of differing types return ErrIncomparable.
func Compare(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}

	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y), nil
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %T vs %T", ErrIncomparable, a, b)
}

// Format renders v the way result sets print it; nil renders as "null".
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
