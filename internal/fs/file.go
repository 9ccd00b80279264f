package fs

import "github.com/google/uuid"

// DescriptorOwner is the party a descriptor was opened on behalf of.
// Closing a descriptor deregisters it from its owner, which is why teardown
// code must not iterate an owner's descriptor collection forward while
// closing.
type DescriptorOwner interface {
	RemoveOpenFile(*OpenFileDescriptor)
}

// File is a named, sized file. Content is out of scope for the simulator;
// only identity, size and open-reference bookkeeping matter here.
type File struct {
	name     string
	size     int64
	refs     int
	unlinked bool
}

// Name returns the file's directory-entry name.
func (f *File) Name() string { return f.name }

// Size returns the file's size in bytes.
func (f *File) Size() int64 { return f.size }

// Refs returns the number of open descriptors on the file.
func (f *File) Refs() int { return f.refs }

// Unlinked reports whether the file's directory entry has been removed.
func (f *File) Unlinked() bool { return f.unlinked }

// Open returns a fresh descriptor on the file for the given owner and bumps
// the reference count. The same file may be open several times; each
// descriptor has its own handle.
func (f *File) Open(owner DescriptorOwner) *OpenFileDescriptor {
	f.refs++
	return &OpenFileDescriptor{
		handle: uuid.New(),
		file:   f,
		owner:  owner,
	}
}

// OpenFileDescriptor is an open handle on a File.
type OpenFileDescriptor struct {
	handle uuid.UUID
	file   *File
	owner  DescriptorOwner
	closed bool
}

// Handle returns the descriptor's unique handle.
func (d *OpenFileDescriptor) Handle() uuid.UUID { return d.handle }

// File returns the underlying file.
func (d *OpenFileDescriptor) File() *File { return d.file }

// Closed reports whether the descriptor has been closed.
func (d *OpenFileDescriptor) Closed() bool { return d.closed }

// Close releases the descriptor: it drops the file's reference count and
// removes the descriptor from its owner's open-file collection. Closing an
// already-closed descriptor is an error.
func (d *OpenFileDescriptor) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	d.file.refs--
	if d.owner != nil {
		d.owner.RemoveOpenFile(d)
	}
	return nil
}
