// Package gcs provides a Google Cloud Storage implementation of the
// core.Backend interface.
//
// Credentials are resolved through Application Default Credentials; see
// the cloud.google.com/go/storage documentation for the lookup order.
// Directories are virtual (prefixes), as on all object stores.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"path"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/joshicola/cloud-path/core"
)

// Backend implements core.Backend for Google Cloud Storage.
type Backend struct {
	client *storage.Client
	bucket string
	logger *slog.Logger
}

// New creates a GCS-backed storage backend for the given bucket.
// The client is built from Application Default Credentials.
func New(ctx context.Context, bucket string) (*Backend, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &Backend{
		client: client,
		bucket: bucket,
		logger: slog.Default(),
	}, nil
}

// NewWithClient creates a backend over a pre-configured client.
// Useful for tests and for sharing one client across buckets.
func NewWithClient(client *storage.Client, bucket string) (*Backend, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &Backend{
		client: client,
		bucket: bucket,
		logger: slog.Default(),
	}, nil
}

// Close closes the underlying client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Type returns the underlying backend type.
func (b *Backend) Type() core.BackendType {
	return core.BackendTypeRemote
}

// OpenRead opens the object at key for streaming reads.
func (b *Backend) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := b.client.Bucket(b.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, pathError("open", key, translate(err))
	}
	return r, nil
}

// OpenWrite opens the object at key for writing. The content type is
// derived from the key's extension; the object becomes visible when the
// returned writer is closed.
func (b *Backend) OpenWrite(ctx context.Context, key string) (io.WriteCloser, error) {
	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType(key)
	return w, nil
}

// Stat returns object metadata. Bare prefixes fail with fs.ErrNotExist.
func (b *Backend) Stat(ctx context.Context, key string) (core.ObjectInfo, error) {
	attrs, err := b.client.Bucket(b.bucket).Object(key).Attrs(ctx)
	if err != nil {
		return core.ObjectInfo{}, pathError("stat", key, translate(err))
	}

	return core.ObjectInfo{
		Key:     key,
		Size:    attrs.Size,
		ModTime: attrs.Updated,
		IsDir:   false,
	}, nil
}

// List returns the entries under prefix, sorted by key. Shallow
// listings use a delimiter query so sub-prefixes come back as
// directory entries.
func (b *Backend) List(ctx context.Context, prefix string, recursive bool) ([]core.ObjectInfo, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	var entries []core.ObjectInfo
	it := b.client.Bucket(b.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pathError("list", prefix, translate(err))
		}

		if entry, ok := listEntry(attrs, prefix, recursive); ok {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}

// listEntry converts an iterator result to a listing entry. It reports
// false for results the listing drops: the marker for the listed prefix
// itself, and zero-byte directory-marker objects (keys ending in "/")
// in recursive mode, so markers never surface as regular objects.
func listEntry(attrs *storage.ObjectAttrs, prefix string, recursive bool) (core.ObjectInfo, bool) {
	// Delimiter listings report sub-prefixes through Prefix.
	if attrs.Prefix != "" {
		return core.ObjectInfo{
			Key:   strings.TrimSuffix(attrs.Prefix, "/"),
			IsDir: true,
		}, true
	}

	if attrs.Name == prefix {
		return core.ObjectInfo{}, false
	}

	if strings.HasSuffix(attrs.Name, "/") {
		if recursive {
			return core.ObjectInfo{}, false
		}
		key := strings.TrimSuffix(attrs.Name, "/")
		if key == "" {
			return core.ObjectInfo{}, false
		}
		return core.ObjectInfo{Key: key, IsDir: true}, true
	}

	return core.ObjectInfo{
		Key:     attrs.Name,
		Size:    attrs.Size,
		ModTime: attrs.Updated,
		IsDir:   false,
	}, true
}

// Delete removes the object at key.
func (b *Backend) Delete(ctx context.Context, key string) error {
	err := b.client.Bucket(b.bucket).Object(key).Delete(ctx)
	if err != nil {
		return pathError("delete", key, translate(err))
	}
	return nil
}

// DeletePrefix removes every object under prefix.
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	b.logger.DebugContext(ctx, "deleting prefix",
		slog.String("bucket", b.bucket),
		slog.String("prefix", prefix),
	)

	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return pathError("deleteprefix", prefix, translate(err))
		}

		err = b.client.Bucket(b.bucket).Object(attrs.Name).Delete(ctx)
		if err != nil && !errors.Is(translate(err), fs.ErrNotExist) {
			return pathError("deleteprefix", attrs.Name, translate(err))
		}
	}

	return nil
}

// Rename moves oldKey to newKey using server-side copy + delete. When
// oldKey has no object, every object under it is moved as a prefix.
//
// This operation is not atomic; a failure mid-way leaves objects at
// both keys.
func (b *Backend) Rename(ctx context.Context, oldKey, newKey string) error {
	bucket := b.client.Bucket(b.bucket)

	if _, err := bucket.Object(oldKey).Attrs(ctx); err == nil {
		return b.renameObject(ctx, oldKey, newKey)
	}

	oldPrefix := oldKey
	if oldPrefix != "" && !strings.HasSuffix(oldPrefix, "/") {
		oldPrefix += "/"
	}
	newPrefix := newKey
	if newPrefix != "" && !strings.HasSuffix(newPrefix, "/") {
		newPrefix += "/"
	}

	b.logger.DebugContext(ctx, "renaming prefix",
		slog.String("bucket", b.bucket),
		slog.String("from", oldPrefix),
		slog.String("to", newPrefix),
	)

	moved := 0
	it := bucket.Objects(ctx, &storage.Query{Prefix: oldPrefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return pathError("rename", oldKey, translate(err))
		}

		rel := strings.TrimPrefix(attrs.Name, oldPrefix)
		if err := b.renameObject(ctx, attrs.Name, newPrefix+rel); err != nil {
			return err
		}
		moved++
	}

	if moved == 0 {
		return pathError("rename", oldKey, fs.ErrNotExist)
	}
	return nil
}

// renameObject moves a single object via server-side copy + delete.
func (b *Backend) renameObject(ctx context.Context, oldKey, newKey string) error {
	bucket := b.client.Bucket(b.bucket)
	src := bucket.Object(oldKey)
	dst := bucket.Object(newKey)

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return pathError("rename", oldKey, translate(err))
	}
	if err := src.Delete(ctx); err != nil {
		return pathError("rename", oldKey, translate(err))
	}
	return nil
}

// translate converts GCS errors to stdlib fs errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fs.ErrNotExist
	}
	return fmt.Errorf("gcs: %w", err)
}

// pathError wraps an error in a fs.PathError for the given operation
// and key. If the error is nil, returns nil.
func pathError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: key, Err: err}
}

// contentType determines the MIME content type from the key's
// extension, defaulting to application/octet-stream.
func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Compile-time capability checks.
var (
	_ core.Backend       = (*Backend)(nil)
	_ core.Renamer       = (*Backend)(nil)
	_ core.PrefixDeleter = (*Backend)(nil)
)
