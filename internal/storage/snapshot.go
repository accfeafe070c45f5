package storage

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/tuannm99/novalite/internal/alias/bx"
	"github.com/tuannm99/novalite/internal/record"
)

// Snapshot is the durable image of one table: its full schema and every row's values.
type Snapshot struct {
	Name    string
	Columns []record.Column
	Rows    [][]any
}

// EncodeSnapshot serializes snap.
//
// Layout (little-endian):
//
//	magic "NVLS" | version u16 | flags u16
//	name (u32 len + bytes)
//	ncols u32 | { type u8 | name (u32 len + bytes) } * ncols
//	nrows u32 | { row (u32 len + rowcodec bytes) } * nrows
//	crc32 (IEEE) of everything above
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	out := make([]byte, 0, 64)
	out = append(out, SnapshotMagic...)
	out = bx.AppendU16(out, SnapshotVersion)
	out = bx.AppendU16(out, 0)
	out = bx.AppendBytes32(out, []byte(snap.Name))

	out = bx.AppendU32(out, uint32(len(snap.Columns)))
	for _, c := range snap.Columns {
		out = bx.AppendU8(out, uint8(c.Type))
		out = bx.AppendBytes32(out, []byte(c.Name))
	}

	out = bx.AppendU32(out, uint32(len(snap.Rows)))
	for i, values := range snap.Rows {
		rb, err := EncodeRow(snap.Columns, values)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q row %d: %w", snap.Name, i, err)
		}
		out = bx.AppendBytes32(out, rb)
	}

	return bx.AppendU32(out, crc32.ChecksumIEEE(out)), nil
}

// DecodeSnapshot parses bytes produced by EncodeSnapshot. Every failure wraps ErrCorruptSnapshot.
func DecodeSnapshot(buf []byte) (*Snapshot, error) {
	if len(buf) < len(SnapshotMagic)+4+4 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrCorruptSnapshot, len(buf))
	}
	if string(buf[:len(SnapshotMagic)]) != SnapshotMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	body, footer := buf[:len(buf)-4], buf[len(buf)-4:]
	if got, want := crc32.ChecksumIEEE(body), bx.U32(footer); got != want {
		return nil, fmt.Errorf("%w: checksum %08x != %08x", ErrCorruptSnapshot, got, want)
	}

	r := bx.NewReader(body[len(SnapshotMagic):])
	if v := r.U16(); v != SnapshotVersion {
		return nil, fmt.Errorf("%w: %w %d", ErrCorruptSnapshot, ErrUnsupportedVersion, v)
	}
	_ = r.U16() // flags

	snap := &Snapshot{Name: string(r.Bytes32())}

	ncols := r.U32()
	if r.Err() != nil {
		return nil, corrupt(r.Err())
	}
	// each column takes at least 5 bytes
	if int(ncols) > r.Remaining()/5 {
		return nil, fmt.Errorf("%w: column count %d exceeds payload", ErrCorruptSnapshot, ncols)
	}
	snap.Columns = make([]record.Column, 0, ncols)
	for i := uint32(0); i < ncols; i++ {
		typ := record.ColumnType(r.U8())
		name := string(r.Bytes32())
		if r.Err() != nil {
			return nil, corrupt(r.Err())
		}
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: column %q has unknown type %d", ErrCorruptSnapshot, name, typ)
		}
		snap.Columns = append(snap.Columns, record.Column{Name: name, Type: typ})
	}

	nrows := r.U32()
	if r.Err() != nil {
		return nil, corrupt(r.Err())
	}
	// each row takes at least its 4-byte length prefix
	if int(nrows) > r.Remaining()/4 {
		return nil, fmt.Errorf("%w: row count %d exceeds payload", ErrCorruptSnapshot, nrows)
	}
	snap.Rows = make([][]any, 0, nrows)
	for i := uint32(0); i < nrows; i++ {
		rb := r.Bytes32()
		if r.Err() != nil {
			return nil, corrupt(r.Err())
		}
		values, err := DecodeRow(snap.Columns, rb)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCorruptSnapshot, i, err)
		}
		snap.Rows = append(snap.Rows, values)
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptSnapshot, r.Remaining())
	}
	return snap, nil
}

func corrupt(err error) error {
	if errors.Is(err, ErrCorruptSnapshot) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
}
