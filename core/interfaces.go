package core

import (
	"context"
	"io"
	"time"
)

// BackendType represents the underlying type of backend implementation.
type BackendType int

const (
	// BackendTypeUnknown indicates the backend type is unknown or unspecified.
	BackendTypeUnknown BackendType = iota
	// BackendTypeLocal indicates a local filesystem backend.
	BackendTypeLocal
	// BackendTypeMemory indicates an in-memory backend.
	BackendTypeMemory
	// BackendTypeRemote indicates a remote object store (e.g., S3, GCS).
	BackendTypeRemote
)

// String returns a string representation of the BackendType.
func (t BackendType) String() string {
	switch t {
	case BackendTypeLocal:
		return "local"
	case BackendTypeMemory:
		return "memory"
	case BackendTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ObjectInfo describes a stored object or a listing prefix.
type ObjectInfo struct {
	// Key is the full object key, or the prefix (without trailing slash)
	// for entries that represent virtual directories.
	Key string

	// Size is the object size in bytes. Zero for virtual directories.
	Size int64

	// ModTime is the last modification time. May be the zero value for
	// virtual directories on stores that do not track prefix metadata.
	ModTime time.Time

	// IsDir reports whether the entry is a prefix (virtual directory)
	// rather than an object.
	IsDir bool
}

// Backend is the primary storage capability interface combining all core
// operations.
//
// All storage providers MUST implement this interface, which is composed
// of three sub-interfaces representing different categories of operations:
// ReadBackend, WriteBackend, and ManageBackend.
type Backend interface {
	ReadBackend
	WriteBackend
	ManageBackend

	// Type returns the underlying backend type.
	// This allows callers to introspect whether the backend is backed by
	// a real disk, in-memory storage, or remote storage.
	Type() BackendType
}

// ReadBackend defines read-only operations.
// All backends MUST support this interface.
type ReadBackend interface {
	// OpenRead opens the object at key for streaming reads.
	// The returned reader must be closed when no longer needed.
	// If the object does not exist, the error wraps fs.ErrNotExist.
	OpenRead(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns metadata for the object at key.
	// If the key does not exist as an object, the error wraps
	// fs.ErrNotExist; stores with virtual directories do not report
	// prefixes through Stat.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// List returns the entries under prefix. With recursive false it
	// returns immediate children only, reporting sub-prefixes as
	// directory entries; with recursive true it returns every object
	// under the prefix. Entries are sorted by key. An empty prefix
	// lists from the container root.
	List(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, error)
}

// WriteBackend defines write operations.
type WriteBackend interface {
	// OpenWrite opens the object at key for writing, creating or
	// replacing it. The object content is not guaranteed to be visible
	// until the returned writer is closed; Close reports any upload
	// error.
	OpenWrite(ctx context.Context, key string) (io.WriteCloser, error)
}

// ManageBackend defines object removal operations.
type ManageBackend interface {
	// Delete removes the object at key.
	// If the object does not exist, the error wraps fs.ErrNotExist;
	// object stores with idempotent deletes may return nil instead.
	Delete(ctx context.Context, key string) error
}

// Optional Backend capabilities (use type assertions):
//
// - Renamer: server-side or emulated rename of objects and prefixes
// - PrefixDeleter: bulk removal of every object under a prefix
// - Mkdirer: explicit directory creation on stores with real directories

// Renamer allows renaming (moving) objects or whole prefixes.
//
// Not all backends support rename. Callers should use type assertion to
// check if this capability is available:
//
//	if r, ok := backend.(Renamer); ok {
//	    err := r.Rename(ctx, oldKey, newKey)
//	}
//
// Note: object stores implement rename as copy+delete, which is not
// atomic and can be expensive for large prefixes.
type Renamer interface {
	// Rename moves the object at oldKey to newKey. If oldKey is a
	// prefix, every object under it is moved.
	Rename(ctx context.Context, oldKey, newKey string) error
}

// PrefixDeleter allows removing every object under a prefix in one call.
//
// Backends without this capability require the caller to list and delete
// objects individually.
type PrefixDeleter interface {
	// DeletePrefix removes all objects whose key starts with prefix.
	// Removing a prefix with no objects is not an error.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Mkdirer allows explicit directory creation on backends with real
// directories (local filesystems). Object stores have virtual
// directories and do not implement this capability.
type Mkdirer interface {
	// Mkdir creates the directory at key, along with any necessary
	// parents. Creating an existing directory is not an error.
	Mkdir(ctx context.Context, key string) error
}
