package billy

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/joshicola/cloud-path/core"
)

// Backend maps object keys onto a billy.Filesystem. Keys are
// slash-separated paths relative to the filesystem root; directories are
// real, so listings report them even when empty.
type Backend struct {
	bfs   billy.Filesystem
	btype core.BackendType
}

// NewLocal creates a backend over the local filesystem rooted at root.
// Keys resolve to paths under root and cannot escape it (billy chroots
// the filesystem).
func NewLocal(root string) *Backend {
	return &Backend{
		bfs:   osfs.New(root),
		btype: core.BackendTypeLocal,
	}
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Backend {
	return &Backend{
		bfs:   memfs.New(),
		btype: core.BackendTypeMemory,
	}
}

// Unwrap returns the underlying billy.Filesystem for go-git integration.
func (b *Backend) Unwrap() billy.Filesystem {
	return b.bfs
}

// Type returns the underlying backend type.
func (b *Backend) Type() core.BackendType {
	return b.btype
}

// fsPath converts a key to a billy path. The empty key addresses the
// filesystem root.
func fsPath(key string) string {
	key = strings.TrimSuffix(key, "/")
	if key == "" {
		return "."
	}
	return key
}

// OpenRead opens the object at key for reading.
func (b *Backend) OpenRead(_ context.Context, key string) (io.ReadCloser, error) {
	return b.bfs.Open(fsPath(key))
}

// OpenWrite opens the object at key for writing, creating parent
// directories as needed.
func (b *Backend) OpenWrite(_ context.Context, key string) (io.WriteCloser, error) {
	p := fsPath(key)
	if dir := path.Dir(p); dir != "." {
		if err := b.bfs.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return b.bfs.Create(p)
}

// Stat returns metadata for the object or directory at key.
func (b *Backend) Stat(_ context.Context, key string) (core.ObjectInfo, error) {
	info, err := b.bfs.Stat(fsPath(key))
	if err != nil {
		return core.ObjectInfo{}, err
	}
	return core.ObjectInfo{
		Key:     strings.TrimSuffix(key, "/"),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// List returns the entries under prefix, sorted by key. With recursive
// true, only objects (files) are returned; with recursive false,
// subdirectories appear as directory entries.
func (b *Backend) List(ctx context.Context, prefix string, recursive bool) ([]core.ObjectInfo, error) {
	dirKey := strings.TrimSuffix(prefix, "/")

	var entries []core.ObjectInfo
	var err error
	if recursive {
		entries, err = b.listRecursive(ctx, dirKey)
	} else {
		entries, err = b.listShallow(dirKey)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

func (b *Backend) listShallow(dirKey string) ([]core.ObjectInfo, error) {
	infos, err := b.bfs.ReadDir(fsPath(dirKey))
	if err != nil {
		return nil, err
	}

	entries := make([]core.ObjectInfo, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, core.ObjectInfo{
			Key:     childKey(dirKey, info.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		})
	}
	return entries, nil
}

func (b *Backend) listRecursive(ctx context.Context, dirKey string) ([]core.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := b.bfs.ReadDir(fsPath(dirKey))
	if err != nil {
		return nil, err
	}

	var entries []core.ObjectInfo
	for _, info := range infos {
		key := childKey(dirKey, info.Name())
		if info.IsDir() {
			children, err := b.listRecursive(ctx, key)
			if err != nil {
				return nil, err
			}
			entries = append(entries, children...)
			continue
		}
		entries = append(entries, core.ObjectInfo{
			Key:     key,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   false,
		})
	}
	return entries, nil
}

// Delete removes the object or empty directory at key.
func (b *Backend) Delete(_ context.Context, key string) error {
	return b.bfs.Remove(fsPath(key))
}

// DeletePrefix removes every entry under prefix. A missing prefix is
// not an error.
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	dirKey := strings.TrimSuffix(prefix, "/")
	return b.removeAll(ctx, fsPath(dirKey))
}

// removeAll removes p and any children it contains. Billy has no
// RemoveAll, so this recurses manually.
func (b *Backend) removeAll(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := b.bfs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return b.bfs.Remove(p)
	}

	children, err := b.bfs.ReadDir(p)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := b.removeAll(ctx, path.Join(p, child.Name())); err != nil {
			return err
		}
	}

	if p == "." {
		return nil
	}
	return b.bfs.Remove(p)
}

// Rename moves oldKey to newKey, creating parent directories of the
// destination as needed.
func (b *Backend) Rename(_ context.Context, oldKey, newKey string) error {
	dst := fsPath(newKey)
	if dir := path.Dir(dst); dir != "." {
		if err := b.bfs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return b.bfs.Rename(fsPath(oldKey), dst)
}

// Mkdir creates the directory at key, along with any necessary parents.
func (b *Backend) Mkdir(_ context.Context, key string) error {
	return b.bfs.MkdirAll(fsPath(key), 0o755)
}

// childKey joins a directory key with an entry name.
func childKey(dirKey, name string) string {
	if dirKey == "" {
		return name
	}
	return dirKey + "/" + name
}

// Compile-time capability checks.
var (
	_ core.Backend       = (*Backend)(nil)
	_ core.Renamer       = (*Backend)(nil)
	_ core.PrefixDeleter = (*Backend)(nil)
	_ core.Mkdirer       = (*Backend)(nil)
)
