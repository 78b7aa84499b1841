package cloudpath

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/joshicola/cloud-path/core"
)

// Object binds a Path to a storage backend and forwards path-style
// operations to it. Object holds no open resources; every method issues
// independent backend calls keyed by the bound path.
type Object struct {
	path    Path
	backend core.Backend
}

// Bind attaches a Path to a backend.
func Bind(p Path, b core.Backend) *Object {
	return &Object{path: p, backend: b}
}

// Path returns the bound path value.
func (o *Object) Path() Path { return o.path }

// Backend returns the bound backend.
func (o *Object) Backend() core.Backend { return o.backend }

// String returns the URI form of the bound path.
func (o *Object) String() string { return o.path.String() }

// Join returns a new Object for the path with the given segments
// appended, bound to the same backend.
func (o *Object) Join(segments ...string) (*Object, error) {
	p, err := o.path.Join(segments...)
	if err != nil {
		return nil, err
	}
	return &Object{path: p, backend: o.backend}, nil
}

// Parent returns a new Object for the parent path, bound to the same
// backend.
func (o *Object) Parent() (*Object, error) {
	p, err := o.path.Parent()
	if err != nil {
		return nil, err
	}
	return &Object{path: p, backend: o.backend}, nil
}

// Stat returns metadata for the object at the bound key.
func (o *Object) Stat(ctx context.Context) (core.ObjectInfo, error) {
	return o.backend.Stat(ctx, o.path.Key())
}

// Exists reports whether the path exists as an object or as a non-empty
// prefix (virtual directory). The container root always exists.
func (o *Object) Exists(ctx context.Context) (bool, error) {
	if o.path.IsRoot() {
		return true, nil
	}
	_, err := o.backend.Stat(ctx, o.path.Key())
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	return o.hasChildren(ctx)
}

// IsFile reports whether the path exists as a regular object. The
// container root is never a file.
func (o *Object) IsFile(ctx context.Context) (bool, error) {
	if o.path.IsRoot() {
		return false, nil
	}
	info, err := o.backend.Stat(ctx, o.path.Key())
	if err == nil {
		return !info.IsDir, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether the path is a directory: either a real
// directory on backends that have them, or a prefix with at least one
// object under it. The container root is always a directory.
//
// Object stores reject stat on the empty key outright, so the root is
// answered without a backend call.
func (o *Object) IsDir(ctx context.Context) (bool, error) {
	if o.path.IsRoot() {
		return true, nil
	}
	info, err := o.backend.Stat(ctx, o.path.Key())
	if err == nil {
		return info.IsDir, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	return o.hasChildren(ctx)
}

// hasChildren reports whether any entry exists under the path's prefix.
func (o *Object) hasChildren(ctx context.Context) (bool, error) {
	entries, err := o.backend.List(ctx, o.path.Prefix(), false)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return len(entries) > 0, nil
}

// ReadDir lists the immediate children of the path, returning Objects
// bound to the same backend, sorted by key.
func (o *Object) ReadDir(ctx context.Context) ([]*Object, error) {
	entries, err := o.backend.List(ctx, o.path.Prefix(), false)
	if err != nil {
		return nil, err
	}
	return o.bindEntries(entries)
}

// Glob returns the objects under the path whose keys match pattern.
// The pattern applies to keys relative to the path, using path.Match
// syntax: "*" and "?" do not cross "/" boundaries. A pattern without a
// separator matches immediate children (objects and prefixes); a
// pattern with separators matches objects at that depth.
func (o *Object) Glob(ctx context.Context, pattern string) ([]*Object, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	prefix := o.path.Prefix()
	entries, err := o.backend.List(ctx, prefix, pathDepth(pattern) > 1)
	if err != nil {
		return nil, err
	}

	var matched []core.ObjectInfo
	for _, entry := range entries {
		rel := relKey(entry.Key, prefix)
		ok, err := path.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, entry)
		}
	}

	return o.bindEntries(matched)
}

// Open opens the object for streaming reads.
func (o *Object) Open(ctx context.Context) (io.ReadCloser, error) {
	return o.backend.OpenRead(ctx, o.path.Key())
}

// Create opens the object for writing, creating or replacing it. The
// content becomes visible when the returned writer is closed.
func (o *Object) Create(ctx context.Context) (io.WriteCloser, error) {
	return o.backend.OpenWrite(ctx, o.path.Key())
}

// ReadFile reads the entire object and returns its contents.
func (o *Object) ReadFile(ctx context.Context) ([]byte, error) {
	r, err := o.backend.OpenRead(ctx, o.path.Key())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: o.path.String(), Err: err}
	}
	return data, nil
}

// WriteFile writes data to the object, replacing any existing content.
func (o *Object) WriteFile(ctx context.Context, data []byte) error {
	w, err := o.backend.OpenWrite(ctx, o.path.Key())
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return &fs.PathError{Op: "writefile", Path: o.path.String(), Err: err}
	}

	if err := w.Close(); err != nil {
		return &fs.PathError{Op: "writefile", Path: o.path.String(), Err: err}
	}
	return nil
}

// Mkdir creates the directory at the path on backends with real
// directories. On object stores directories are virtual and Mkdir is a
// no-op that always succeeds.
func (o *Object) Mkdir(ctx context.Context) error {
	if m, ok := o.backend.(core.Mkdirer); ok {
		return m.Mkdir(ctx, o.path.Key())
	}
	return nil
}

// Remove removes the object at the path. Removing a prefix requires
// RemoveAll.
func (o *Object) Remove(ctx context.Context) error {
	return o.backend.Delete(ctx, o.path.Key())
}

// RemoveAll removes every object under the path's prefix and then the
// object at the path itself, if any. Unlike Remove, a missing path is
// not an error.
func (o *Object) RemoveAll(ctx context.Context) error {
	if err := o.removePrefix(ctx); err != nil {
		return err
	}
	if o.path.IsRoot() {
		return nil
	}
	if err := o.backend.Delete(ctx, o.path.Key()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// removePrefix removes everything under the path's prefix, using the
// PrefixDeleter capability when available and falling back to a
// list-and-delete loop otherwise.
func (o *Object) removePrefix(ctx context.Context) error {
	if pd, ok := o.backend.(core.PrefixDeleter); ok {
		return pd.DeletePrefix(ctx, o.path.Prefix())
	}

	entries, err := o.backend.List(ctx, o.path.Prefix(), true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		if err := o.backend.Delete(ctx, entry.Key); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Rename moves the object (or prefix) to target, which must share the
// bound path's scheme and container. It returns a new Object for the
// target. Backends without the Renamer capability fail with
// core.ErrUnsupported.
func (o *Object) Rename(ctx context.Context, target Path) (*Object, error) {
	if target.Scheme() != o.path.Scheme() || target.Container() != o.path.Container() {
		return nil, &fs.PathError{
			Op:   "rename",
			Path: o.path.String(),
			Err:  fmt.Errorf("%w: rename across containers", core.ErrUnsupported),
		}
	}

	r, ok := o.backend.(core.Renamer)
	if !ok {
		return nil, &fs.PathError{Op: "rename", Path: o.path.String(), Err: core.ErrUnsupported}
	}

	if err := r.Rename(ctx, o.path.Key(), target.Key()); err != nil {
		return nil, err
	}
	return &Object{path: target, backend: o.backend}, nil
}

// bindEntries converts listing entries to Objects bound to the same
// backend.
func (o *Object) bindEntries(entries []core.ObjectInfo) ([]*Object, error) {
	objects := make([]*Object, 0, len(entries))
	for _, entry := range entries {
		p, err := FromKey(o.path.Scheme(), o.path.Container(), entry.Key)
		if err != nil {
			return nil, fmt.Errorf("listing returned unusable key %q: %w", entry.Key, err)
		}
		objects = append(objects, &Object{path: p, backend: o.backend})
	}
	return objects, nil
}

// relKey returns key relative to prefix, for glob matching.
func relKey(key, prefix string) string {
	if prefix == "" {
		return key
	}
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}

// pathDepth counts the segments in a glob pattern.
func pathDepth(pattern string) int {
	depth := 1
	for _, r := range pattern {
		if r == '/' {
			depth++
		}
	}
	return depth
}
