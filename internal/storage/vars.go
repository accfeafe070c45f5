package storage

import "errors"

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

const (
	// DefaultExtension is appended to the table name to form its snapshot file name.
	DefaultExtension = ".tbl"

	SnapshotMagic   = "NVLS"
	SnapshotVersion = uint16(1)
)

var (
	ErrSchemaMismatch     = errors.New("rowcodec: schema/values mismatch")
	ErrUnsupportedType    = errors.New("rowcodec: unsupported type")
	ErrCorruptSnapshot    = errors.New("storage: corrupt snapshot")
	ErrUnsupportedVersion = errors.New("storage: unsupported snapshot version")
	ErrSnapshotNotFound   = errors.New("storage: snapshot not found")
	ErrPersistence        = errors.New("storage: persistence failure")
)
