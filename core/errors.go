package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when an object does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when an object already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed
	// reader or writer. Re-exported from io/fs for convenience.
	ErrClosed = fs.ErrClosed

	// ErrUnsupported is returned when an operation is not supported by
	// the backend. For example, rename on a backend that does not
	// implement the Renamer capability.
	ErrUnsupported = errors.New("operation not supported")
)
