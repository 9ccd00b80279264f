package fs

import "errors"

var (
	ErrNotFound     = errors.New("no such entry")
	ErrExists       = errors.New("entry already exists")
	ErrNotDirectory = errors.New("not a directory")
	ErrClosed       = errors.New("descriptor already closed")
)
