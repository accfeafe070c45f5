package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// SnapshotStore persists one snapshot per table name.
type SnapshotStore interface {
	Save(snap *Snapshot) error
	Load(name string) (*Snapshot, error)
	LoadFile(file string) (*Snapshot, error)
	Files() ([]string, error)
}

var _ SnapshotStore = (*FileStore)(nil)

// FileStore keeps snapshots as <Dir>/<table><Ext> on an afero filesystem.
// Writes truncate in place; a reader racing a writer may see a partial file.
type FileStore struct {
	FS  afero.Fs
	Dir string
	Ext string
}

// NewFileStore returns a store rooted at dir. An empty ext uses DefaultExtension.
func NewFileStore(fsys afero.Fs, dir, ext string) *FileStore {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &FileStore{FS: fsys, Dir: dir, Ext: ext}
}

// NewOSFileStore is a FileStore on the local filesystem.
func NewOSFileStore(dir string) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir, DefaultExtension)
}

func (s *FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name+s.Ext)
}

// Save encodes snap and overwrites its file.
func (s *FileStore) Save(snap *Snapshot) (err error) {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrPersistence, snap.Name, err)
	}

	if err := s.FS.MkdirAll(s.Dir, FileMode0755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", ErrPersistence, s.Dir, err)
	}

	path := s.Path(snap.Name)
	f, err := s.FS.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrPersistence, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: close %s: %w", ErrPersistence, path, cerr))
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, path, err)
	}
	return nil
}

// Load reads the snapshot of the named table.
func (s *FileStore) Load(name string) (*Snapshot, error) {
	return s.LoadFile(name + s.Ext)
}

// LoadFile reads a snapshot by its file name inside Dir.
func (s *FileStore) LoadFile(file string) (*Snapshot, error) {
	path := filepath.Join(s.Dir, file)
	f, err := s.FS.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrPersistence, path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrPersistence, path, err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Files lists snapshot file names in Dir, sorted. A missing Dir yields no files.
func (s *FileStore) Files() ([]string, error) {
	entries, err := afero.ReadDir(s.FS, s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %w", ErrPersistence, s.Dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.Ext) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
