package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/tuannm99/novalite/internal"
	"github.com/tuannm99/novalite/internal/catalog"
	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/executor"
	"github.com/tuannm99/novalite/internal/sql/planner"
	"github.com/tuannm99/novalite/internal/storage"
)

var ErrDatabaseClosed = errors.New("novalite: database is closed")

// Database is one open data directory: its snapshot store, the catalog
// loaded from it and an executor over that catalog.
type Database struct {
	DataDir string

	store   *storage.FileStore
	catalog *catalog.Catalog
	exec    *executor.Executor

	mu     sync.RWMutex
	closed bool
}

// Open opens the data directory named by cfg on the local filesystem.
func Open(cfg *internal.Config) (*Database, error) {
	return OpenFS(afero.NewOsFs(), cfg.Storage.Workdir, cfg.Storage.Extension)
}

// OpenFS creates dir if needed and loads every snapshot in it.
func OpenFS(fsys afero.Fs, dir, ext string) (*Database, error) {
	if err := fsys.MkdirAll(dir, storage.FileMode0755); err != nil {
		return nil, fmt.Errorf("%w: create data dir %s: %w", storage.ErrPersistence, dir, err)
	}

	store := storage.NewFileStore(fsys, dir, ext)
	c, err := catalog.Open(store)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "dir", dir, "tables", len(c.ListTables()))

	return &Database{
		DataDir: dir,
		store:   store,
		catalog: c,
		exec:    executor.NewExecutor(c),
	}, nil
}

func (db *Database) Exec(p planner.Plan) (*executor.Result, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	return db.exec.Exec(p)
}

func (db *Database) Catalog() *catalog.Catalog { return db.catalog }

func (db *Database) Stats() executor.Stats { return db.exec.Stats() }

// ListTables returns the table names, sorted.
func (db *Database) ListTables() []string { return db.catalog.ListTables() }

// DescribeTable returns a copy of the table's current schema.
func (db *Database) DescribeTable(name string) (*record.Schema, error) {
	t, err := db.catalog.Table(name)
	if err != nil {
		return nil, err
	}
	return t.Schema().Clone(), nil
}

// RowCount returns the number of rows currently in the table.
func (db *Database) RowCount(name string) (int, error) {
	t, err := db.catalog.Table(name)
	if err != nil {
		return 0, err
	}
	return t.Rows.Len(), nil
}

// LoadErrors lists the snapshots skipped when the directory was opened.
func (db *Database) LoadErrors() []error { return db.catalog.LoadErrors() }

// Close writes a final snapshot of every table and rejects further commands.
// Closing twice returns ErrDatabaseClosed.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	db.closed = true

	var err error
	for _, name := range db.catalog.ListTables() {
		t, ok := db.catalog.GetTable(name)
		if !ok {
			continue
		}
		err = multierr.Append(err, db.catalog.Persist(t))
	}
	if err != nil {
		slog.Error("database close: flush failed", "dir", db.DataDir, "err", err)
	}
	return err
}
