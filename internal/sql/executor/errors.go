package executor

import (
	"errors"

	"github.com/tuannm99/novalite/internal/sql/planner"
)

var (
	ErrArityMismatch   = errors.New("executor: value count does not match column count")
	ErrUnsupportedJoin = planner.ErrUnsupportedJoin
	ErrAmbiguousColumn = errors.New("executor: ambiguous column reference")
)
