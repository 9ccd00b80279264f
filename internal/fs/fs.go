// Package fs is the simulator's in-memory file system: a directory tree of
// sized files opened through reference-counted descriptors. Unlink follows
// POSIX semantics: removing a directory entry detaches it, but descriptors
// already open keep the file object alive until closed.
package fs

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// FileSystem is the root of an in-memory directory tree.
type FileSystem struct {
	root *Directory
}

// NewFileSystem returns a file system with an empty root directory.
func NewFileSystem() *FileSystem {
	return &FileSystem{root: newDirectory("/")}
}

// Root returns the root directory.
func (fsys *FileSystem) Root() *Directory { return fsys.root }

// Resolve walks an absolute slash-separated path to a directory.
func (fsys *FileSystem) Resolve(path string) (*Directory, error) {
	dir := fsys.root
	for _, name := range splitPath(path) {
		raw, ok := dir.entries.Get(name)
		if !ok {
			return nil, fmt.Errorf("resolve %q: %q: %w", path, name, ErrNotFound)
		}
		sub, ok := raw.(*Directory)
		if !ok {
			return nil, fmt.Errorf("resolve %q: %q: %w", path, name, ErrNotDirectory)
		}
		dir = sub
	}
	return dir, nil
}

// MkdirAll creates every missing directory along an absolute path and
// returns the final one. Existing directories are reused.
func (fsys *FileSystem) MkdirAll(path string) (*Directory, error) {
	dir := fsys.root
	for _, name := range splitPath(path) {
		raw, ok := dir.entries.Get(name)
		if !ok {
			sub := newDirectory(name)
			dir.entries.Put(name, sub)
			dir = sub
			continue
		}
		sub, ok := raw.(*Directory)
		if !ok {
			return nil, fmt.Errorf("mkdir %q: %q: %w", path, name, ErrNotDirectory)
		}
		dir = sub
	}
	return dir, nil
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Directory is one node of the tree holding named files and subdirectories.
type Directory struct {
	name    string
	entries *treemap.Map // name -> *File | *Directory
}

func newDirectory(name string) *Directory {
	return &Directory{name: name, entries: treemap.NewWithStringComparator()}
}

// Name returns the directory's entry name.
func (d *Directory) Name() string { return d.name }

// Lookup returns the named file, or nil if the entry is absent or is a
// subdirectory.
func (d *Directory) Lookup(name string) *File {
	raw, ok := d.entries.Get(name)
	if !ok {
		return nil
	}
	f, _ := raw.(*File)
	return f
}

// NewFile creates a file of the given size under this directory.
func (d *Directory) NewFile(name string, size int64) (*File, error) {
	if _, dup := d.entries.Get(name); dup {
		return nil, fmt.Errorf("create %q: %w", name, ErrExists)
	}
	f := &File{name: name, size: size}
	d.entries.Put(name, f)
	return f, nil
}

// Remove detaches the named entry. Open descriptors on a removed file stay
// valid until closed.
func (d *Directory) Remove(name string) error {
	raw, ok := d.entries.Get(name)
	if !ok {
		return fmt.Errorf("remove %q: %w", name, ErrNotFound)
	}
	if f, isFile := raw.(*File); isFile {
		f.unlinked = true
	}
	d.entries.Remove(name)
	return nil
}

// Len returns the number of entries.
func (d *Directory) Len() int { return d.entries.Size() }

// Names returns the entry names in sorted order.
func (d *Directory) Names() []string {
	names := make([]string, 0, d.entries.Size())
	it := d.entries.Iterator()
	for it.Next() {
		names = append(names, it.Key().(string))
	}
	return names
}
