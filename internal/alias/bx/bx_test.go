package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppendLittleEndian checks that the append helpers lay out bytes
// least-significant first.
func TestAppendLittleEndian(t *testing.T) {
	var b []byte
	b = AppendU8(b, 0xAA)
	b = AppendU16(b, 0x1234)
	b = AppendU32(b, 0x01020304)
	b = AppendU64(b, 0x0102030405060708)

	assert.Equal(t, []byte{
		0xAA,
		0x34, 0x12,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}, b)
}

func TestReader_RoundTrip(t *testing.T) {
	var b []byte
	b = AppendU8(b, 7)
	b = AppendU16(b, 513)
	b = AppendU32(b, 70000)
	b = AppendU64(b, 1<<40)
	b = AppendBytes32(b, []byte("hello"))

	r := NewReader(b)
	assert.Equal(t, uint8(7), r.U8())
	assert.Equal(t, uint16(513), r.U16())
	assert.Equal(t, uint32(70000), r.U32())
	assert.Equal(t, uint64(1<<40), r.U64())
	assert.Equal(t, []byte("hello"), r.Bytes32())
	require.NoError(t, r.Err())
	assert.Equal(t, 0, r.Remaining())
}

func TestReader_UnderflowSticks(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})

	assert.Equal(t, uint32(0), r.U32())
	require.ErrorIs(t, r.Err(), ErrShortBuffer)

	// once failed, even a read that would fit returns zero
	assert.Equal(t, uint8(0), r.U8())
	require.ErrorIs(t, r.Err(), ErrShortBuffer)
}

func TestReader_Bytes32LengthPastEnd(t *testing.T) {
	b := AppendU32(nil, 100)
	b = append(b, 'x')

	r := NewReader(b)
	assert.Nil(t, r.Bytes32())
	require.ErrorIs(t, r.Err(), ErrShortBuffer)
}
