package storage

import (
	"fmt"
	"math"

	"github.com/tuannm99/novalite/internal/alias/bx"
	"github.com/tuannm99/novalite/internal/record"
)

// ---- EncodeRow(cols, values) -> []byte ----
// Format:
// [nullmap: ceil(N/8) bytes, bit=1 => NULL]  |  [field0 data?] [field1 data?] ...
// INT/FLOAT: 8 bytes LE, BOOLEAN: 1 byte, STRING: u32 length (LE) + UTF-8 bytes
func EncodeRow(cols []record.Column, values []any) ([]byte, error) {
	nc := len(cols)
	if len(values) != nc {
		return nil, fmt.Errorf("%w: %d values for %d columns", ErrSchemaMismatch, len(values), nc)
	}

	out := make([]byte, (nc+7)/8)
	for i, col := range cols {
		v := values[i]
		if v == nil {
			out[i/8] |= 1 << (uint(i) & 7)
			continue
		}
		if !record.CheckValue(col.Type, v) {
			return nil, fmt.Errorf("%w: column %q (%v) holds %T", ErrSchemaMismatch, col.Name, col.Type, v)
		}

		switch col.Type {
		case record.ColInt:
			out = bx.AppendU64(out, uint64(v.(int64)))
		case record.ColFloat:
			out = bx.AppendU64(out, math.Float64bits(v.(float64)))
		case record.ColBoolean:
			var b uint8
			if v.(bool) {
				b = 1
			}
			out = bx.AppendU8(out, b)
		case record.ColString:
			out = bx.AppendBytes32(out, []byte(v.(string)))
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, col.Type)
		}
	}
	return out, nil
}

// ---- DecodeRow(cols, buf) -> []any ----
func DecodeRow(cols []record.Column, buf []byte) ([]any, error) {
	nc := len(cols)
	r := bx.NewReader(buf)
	nullmap := r.Bytes((nc + 7) / 8)
	if r.Err() != nil {
		return nil, r.Err()
	}

	out := make([]any, nc)
	for i, col := range cols {
		if (nullmap[i/8]>>(uint(i)&7))&1 == 1 {
			continue
		}
		switch col.Type {
		case record.ColInt:
			out[i] = int64(r.U64())
		case record.ColFloat:
			out[i] = math.Float64frombits(r.U64())
		case record.ColBoolean:
			out[i] = r.U8() != 0
		case record.ColString:
			out[i] = string(r.Bytes32())
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, col.Type)
		}
	}
	if r.Err() != nil {
		return nil, r.Err()
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSchemaMismatch, r.Remaining())
	}
	return out, nil
}
