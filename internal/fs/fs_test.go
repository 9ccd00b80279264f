package fs

import (
	"errors"
	"reflect"
	"testing"
)

func TestMkdirAllAndResolve(t *testing.T) {
	fsys := NewFileSystem()

	dir, err := fsys.MkdirAll("/swap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := fsys.Resolve("/swap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != dir {
		t.Fatalf("resolve returned a different directory")
	}

	// MkdirAll reuses existing directories.
	again, err := fsys.MkdirAll("/swap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != dir {
		t.Fatalf("mkdirall must reuse the existing directory")
	}
}

func TestResolve_MissingPath_Fails(t *testing.T) {
	fsys := NewFileSystem()

	_, err := fsys.Resolve("/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectory_NewFileLookupRemove(t *testing.T) {
	fsys := NewFileSystem()
	dir, _ := fsys.MkdirAll("/swap")

	f, err := dir.NewFile("0", 65536)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Size() != 65536 {
		t.Fatalf("expected size 65536, got %d", f.Size())
	}
	if dir.Lookup("0") != f {
		t.Fatalf("lookup must return the created file")
	}
	if dir.Lookup("1") != nil {
		t.Fatalf("lookup of absent entry must be nil")
	}

	if _, err := dir.NewFile("0", 1); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	if err := dir.Remove("0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Lookup("0") != nil {
		t.Fatalf("removed entry must not resolve")
	}
	if err := dir.Remove("0"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectory_Names_Sorted(t *testing.T) {
	fsys := NewFileSystem()
	dir, _ := fsys.MkdirAll("/swap")
	dir.NewFile("2", 1)
	dir.NewFile("0", 1)
	dir.NewFile("1", 1)

	want := []string{"0", "1", "2"}
	if got := dir.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names mismatch: got %v want %v", got, want)
	}
	if dir.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", dir.Len())
	}
}

// listOwner records descriptor deregistrations, standing in for a task.
type listOwner struct {
	removed []*OpenFileDescriptor
}

func (o *listOwner) RemoveOpenFile(d *OpenFileDescriptor) {
	o.removed = append(o.removed, d)
}

func TestOpenClose_RefcountAndSelfDeregistration(t *testing.T) {
	fsys := NewFileSystem()
	dir, _ := fsys.MkdirAll("/swap")
	f, _ := dir.NewFile("0", 64)

	owner := &listOwner{}
	d1 := f.Open(owner)
	d2 := f.Open(owner)

	if f.Refs() != 2 {
		t.Fatalf("expected 2 refs, got %d", f.Refs())
	}
	if d1.Handle() == d2.Handle() {
		t.Fatalf("descriptors must have distinct handles")
	}

	if err := d1.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Refs() != 1 {
		t.Fatalf("expected 1 ref after close, got %d", f.Refs())
	}
	if len(owner.removed) != 1 || owner.removed[0] != d1 {
		t.Fatalf("close must deregister the descriptor from its owner")
	}
	if !d1.Closed() {
		t.Fatalf("descriptor must report closed")
	}

	if err := d1.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on double close, got %v", err)
	}
	if f.Refs() != 1 {
		t.Fatalf("double close must not touch the refcount")
	}
}

func TestRemove_WhileOpen_KeepsDescriptorAlive(t *testing.T) {
	fsys := NewFileSystem()
	dir, _ := fsys.MkdirAll("/swap")
	f, _ := dir.NewFile("0", 64)
	d := f.Open(&listOwner{})

	if err := dir.Remove("0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Unlinked() {
		t.Fatalf("file must report unlinked")
	}
	// The descriptor still references the file and can be closed normally.
	if d.File() != f {
		t.Fatalf("descriptor lost its file")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Refs() != 0 {
		t.Fatalf("expected 0 refs, got %d", f.Refs())
	}
}
