package record

import "errors"

var (
	ErrColumnNotFound  = errors.New("record: column not found")
	ErrDuplicateColumn = errors.New("record: duplicate column")
	ErrTypeMismatch    = errors.New("record: value does not match column type")
	ErrIncomparable    = errors.New("record: values are not comparable")
	ErrInvalidName     = errors.New("record: invalid identifier")
	ErrUnknownType     = errors.New("record: unknown column type")
)
