// Package novalite is the top-level facade for the novalite engine.
package novalite

import (
	"github.com/tuannm99/novalite/internal"
	"github.com/tuannm99/novalite/internal/catalog"
	"github.com/tuannm99/novalite/internal/engine"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/executor"
	"github.com/tuannm99/novalite/internal/sql/planner"
	"github.com/tuannm99/novalite/internal/storage"
)

type (
	Database = engine.Database
	Config   = internal.Config
	Result   = executor.Result
	Stats    = executor.Stats

	Column     = record.Column
	ColumnType = record.ColumnType
	Schema     = record.Schema

	Plan            = planner.Plan
	ColumnDef       = planner.ColumnDef
	CreateTablePlan = planner.CreateTablePlan
	InsertPlan      = planner.InsertPlan
	SelectPlan      = planner.SelectPlan
	UpdatePlan      = planner.UpdatePlan
	DeletePlan      = planner.DeletePlan
	AlterTablePlan  = planner.AlterTablePlan
	Predicate       = planner.Predicate
	JoinSpec        = planner.JoinSpec
	JoinType        = planner.JoinType
	OrderBy         = planner.OrderBy
)

const (
	Int     = record.ColInt
	Float   = record.ColFloat
	Boolean = record.ColBoolean
	String  = record.ColString

	InnerJoin = planner.JoinInner
	LeftJoin  = planner.JoinLeft
	RightJoin = planner.JoinRight
)

var (
	ErrDatabaseClosed = engine.ErrDatabaseClosed

	ErrTableNotFound  = catalog.ErrTableNotFound
	ErrDuplicateTable = catalog.ErrDuplicateTable

	ErrColumnNotFound  = record.ErrColumnNotFound
	ErrDuplicateColumn = record.ErrDuplicateColumn
	ErrTypeMismatch    = record.ErrTypeMismatch
	ErrIncomparable    = record.ErrIncomparable
	ErrInvalidName     = record.ErrInvalidName

	ErrArityMismatch   = executor.ErrArityMismatch
	ErrUnsupportedJoin = executor.ErrUnsupportedJoin
	ErrAmbiguousColumn = executor.ErrAmbiguousColumn

	ErrInvalidPlan = planner.ErrInvalidPlan

	ErrPersistence        = storage.ErrPersistence
	ErrCorruptSnapshot    = storage.ErrCorruptSnapshot
	ErrUnsupportedVersion = storage.ErrUnsupportedVersion
)

// Open opens the data directory described by cfg.
func Open(cfg *Config) (*Database, error) { return engine.Open(cfg) }

// OpenDir opens dir with the default settings.
func OpenDir(dir string) (*Database, error) {
	cfg, err := internal.LoadConfig("")
	if err != nil {
		return nil, err
	}
	cfg.Storage.Workdir = dir
	return engine.Open(cfg)
}

func LoadConfig(path string) (*Config, error) { return internal.LoadConfig(path) }

// Eq builds a col = literal predicate.
func Eq(column, literal string) *Predicate { return planner.Eq(column, literal) }

// IsNull builds a col IS NULL predicate.
func IsNull(column string) *Predicate {
	return &Predicate{Column: column, Op: planner.OpIsNull}
}

// IsNotNull builds a col IS NOT NULL predicate.
func IsNotNull(column string) *Predicate {
	return &Predicate{Column: column, Op: planner.OpIsNotNull}
}

// Limit is a convenience for SelectPlan.Limit and SelectPlan.Offset.
func Limit(n int) *int { return planner.Int(n) }
