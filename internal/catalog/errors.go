package catalog

import "errors"

var (
	ErrTableNotFound  = errors.New("catalog: table not found")
	ErrDuplicateTable = errors.New("catalog: table already exists")
)
