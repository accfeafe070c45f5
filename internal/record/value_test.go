package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLiteral_Types(t *testing.T) {
	v, err := ParseLiteral(Column{Name: "id", Type: ColInt}, "42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	v, err = ParseLiteral(Column{Name: "score", Type: ColFloat}, "3.5")
	require.NoError(t, err)
	require.Equal(t, 3.5, v)

	v, err = ParseLiteral(Column{Name: "active", Type: ColBoolean}, "TRUE")
	require.NoError(t, err)
	require.Equal(t, true, v)

	v, err = ParseLiteral(Column{Name: "name", Type: ColString}, "Alice")
	require.NoError(t, err)
	require.Equal(t, "Alice", v)
}

func TestParseLiteral_NullForAnyType(t *testing.T) {
	for _, typ := range []ColumnType{ColInt, ColFloat, ColBoolean, ColString} {
		for _, lit := range []string{"", "  ", "NULL", "null", "Null"} {
			v, err := ParseLiteral(Column{Name: "c", Type: typ}, lit)
			require.NoError(t, err)
			require.Nil(t, v, "type %v literal %q", typ, lit)
		}
	}
}

func TestParseLiteral_TypeMismatch(t *testing.T) {
	_, err := ParseLiteral(Column{Name: "id", Type: ColInt}, "abc")
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Contains(t, err.Error(), `"abc"`)
	require.Contains(t, err.Error(), `"id"`)

	_, err = ParseLiteral(Column{Name: "f", Type: ColFloat}, "1.2.3")
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ParseLiteral(Column{Name: "b", Type: ColBoolean}, "maybe")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(int64(3), int64(3)))
	require.False(t, Equal(int64(3), int64(4)))
	require.True(t, Equal("alice", "ALICE"))
	require.False(t, Equal(nil, nil))
	require.False(t, Equal(int64(1), nil))
	require.False(t, Equal(int64(1), 1.0))
}

func TestCompare_NullIsLeast(t *testing.T) {
	c, err := Compare(nil, int64(-100))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Compare("a", nil)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = Compare(nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, c)

	c, err = Compare(false, true)
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestCompare_MixedTypes(t *testing.T) {
	_, err := Compare(int64(1), "1")
	require.ErrorIs(t, err, ErrIncomparable)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "null", Format(nil))
	require.Equal(t, "12", Format(int64(12)))
	require.Equal(t, "1.5", Format(1.5))
	require.Equal(t, "true", Format(true))
	require.Equal(t, "x", Format("x"))
}
