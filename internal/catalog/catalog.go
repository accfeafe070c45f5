package catalog

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/storage"
)

// Catalog is the live registry of tables. It owns the authoritative
// in-memory Table for every name; the snapshot store only holds bytes.
//
// mu guards the name -> table map. It is not a table lock: structural
// changes to one table (AddColumn, row membership) are not serialized
// against other commands on that same table.
type Catalog struct {
	store storage.SnapshotStore

	mu     sync.RWMutex
	tables map[string]*Table

	loadErr error
}

// New returns an empty catalog backed by store without reading it.
func New(store storage.SnapshotStore) *Catalog {
	return &Catalog{
		store:  store,
		tables: make(map[string]*Table),
	}
}

// Open builds a catalog and registers every snapshot found in store.
// Snapshots that fail to decode are logged and skipped; only a failure to
// list the store is returned.
func Open(store storage.SnapshotStore) (*Catalog, error) {
	c := New(store)
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

type loadResult struct {
	file string
	snap *storage.Snapshot
	err  error
}

func (c *Catalog) load() error {
	files, err := c.store.Files()
	if err != nil {
		return err
	}

	p := pool.NewWithResults[loadResult]().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for _, file := range files {
		p.Go(func() loadResult {
			snap, err := c.store.LoadFile(file)
			return loadResult{file: file, snap: snap, err: err}
		})
	}
	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, res := range results {
		if res.err != nil {
			c.skip(res.file, res.err)
			continue
		}
		t, err := tableFromSnapshot(res.snap)
		if err != nil {
			c.skip(res.file, err)
			continue
		}
		if _, dup := c.tables[t.Name]; dup {
			c.skip(res.file, fmt.Errorf("%w: %q", ErrDuplicateTable, t.Name))
			continue
		}
		c.tables[t.Name] = t
	}
	slog.Info("catalog loaded", "tables", len(c.tables), "skipped", len(multierr.Errors(c.loadErr)))
	return nil
}

func (c *Catalog) skip(file string, err error) {
	slog.Warn("catalog: skipping snapshot", "file", file, "err", err)
	c.loadErr = multierr.Append(c.loadErr, fmt.Errorf("%s: %w", file, err))
}

// LoadErrors returns the per-file failures from startup.
func (c *Catalog) LoadErrors() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return multierr.Errors(c.loadErr)
}

// CreateTable registers a new empty table and persists it. Names are
// matched exactly. If persisting fails the table stays registered and the
// error wraps storage.ErrPersistence.
func (c *Catalog) CreateTable(name string, cols []record.Column) (*Table, error) {
	if err := record.ValidateIdent(name); err != nil {
		return nil, err
	}
	schema, err := record.NewSchema(name, cols)
	if err != nil {
		return nil, err
	}
	t := newTable(schema)

	c.mu.Lock()
	if _, exists := c.tables[name]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTable, name)
	}
	c.tables[name] = t
	c.mu.Unlock()

	if err := c.Persist(t); err != nil {
		return t, err
	}
	slog.Debug("catalog: table created", "table", name, "columns", schema.NumCols())
	return t, nil
}

// GetTable returns the live table registered under name.
func (c *Catalog) GetTable(name string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	return t, ok
}

// Table is GetTable with a typed error for a missing name.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.GetTable(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// ListTables returns the registered names, sorted.
func (c *Catalog) ListTables() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// AddColumn appends col to the table's schema, pads every existing row with
// a trailing null, persists, and replaces the registered table with one
// reloaded from the snapshot just written. A failed reload is logged and the
// current in-memory table is kept.
func (c *Catalog) AddColumn(tableName string, col record.Column) error {
	t, err := c.Table(tableName)
	if err != nil {
		return err
	}
	if err := t.AddColumn(col); err != nil {
		return err
	}

	if err := c.Persist(t); err != nil {
		return err
	}

	snap, err := c.store.Load(tableName)
	if err == nil {
		var reloaded *Table
		if reloaded, err = tableFromSnapshot(snap); err == nil {
			c.mu.Lock()
			c.tables[tableName] = reloaded
			c.mu.Unlock()
			return nil
		}
	}
	slog.Error("catalog: reload after alter failed, keeping in-memory table", "table", tableName, "err", err)
	return nil
}

// Persist writes the table's full snapshot.
func (c *Catalog) Persist(t *Table) error {
	return c.store.Save(t.Snapshot())
}
