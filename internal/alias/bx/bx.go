// stand for bytes helper
package bx

import (
	"encoding/binary"
	"errors"
)

var LE = binary.LittleEndian

// ErrShortBuffer is returned by Reader when a read runs past the end of the buffer.
var ErrShortBuffer = errors.New("bx: buffer underflow")

// --- LE: append ---
func AppendU8(b []byte, v uint8) []byte   { return append(b, v) }
func AppendU16(b []byte, v uint16) []byte { return LE.AppendUint16(b, v) }
func AppendU32(b []byte, v uint32) []byte { return LE.AppendUint32(b, v) }
func AppendU64(b []byte, v uint64) []byte { return LE.AppendUint64(b, v) }

// AppendBytes32 writes a u32 length prefix followed by p.
func AppendBytes32(b []byte, p []byte) []byte {
	b = AppendU32(b, uint32(len(p)))
	return append(b, p...)
}

// --- LE: read ---
func U16(b []byte) uint16 { return LE.Uint16(b) }
func U32(b []byte) uint32 { return LE.Uint32(b) }
func U64(b []byte) uint64 { return LE.Uint64(b) }

// Reader is a forward-only cursor over a byte slice.
// The first failed read sticks: later reads return zero values and Err reports it.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) Err() error     { return r.err }
func (r *Reader) Offset() int    { return r.off }
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = ErrShortBuffer
		return nil
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p
}

func (r *Reader) U8() uint8 {
	p := r.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (r *Reader) U16() uint16 {
	p := r.take(2)
	if p == nil {
		return 0
	}
	return U16(p)
}

func (r *Reader) U32() uint32 {
	p := r.take(4)
	if p == nil {
		return 0
	}
	return U32(p)
}

func (r *Reader) U64() uint64 {
	p := r.take(8)
	if p == nil {
		return 0
	}
	return U64(p)
}

// Bytes returns the next n bytes. The result aliases the underlying buffer.
func (r *Reader) Bytes(n int) []byte { return r.take(n) }

// Bytes32 reads a u32 length prefix and returns that many bytes.
func (r *Reader) Bytes32() []byte {
	n := r.U32()
	if r.err != nil {
		return nil
	}
	if int(n) > r.Remaining() {
		r.err = ErrShortBuffer
		return nil
	}
	return r.take(int(n))
}
