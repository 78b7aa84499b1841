package s3

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/joshicola/cloud-path/core"
)

// Backend implements core.Backend for MinIO/S3-compatible storage.
// Keys map directly to object keys within the configured bucket;
// directories are virtual (prefixes).
type Backend struct {
	client            *minio.Client
	bucket            string
	partThreshold     int64
	renameConcurrency int
}

// New creates an S3-backed storage backend.
// Returns an error if the configuration is invalid or the client cannot
// be constructed.
func New(cfg Config) (*Backend, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
	}

	partThreshold := cfg.PartThreshold
	if partThreshold == 0 {
		partThreshold = 5 * 1024 * 1024
	}

	renameConcurrency := cfg.RenameConcurrency
	if renameConcurrency == 0 {
		renameConcurrency = 10
	}

	return &Backend{
		client:            client,
		bucket:            cfg.Bucket,
		partThreshold:     partThreshold,
		renameConcurrency: renameConcurrency,
	}, nil
}

// Type returns the underlying backend type.
func (b *Backend) Type() core.BackendType {
	return core.BackendTypeRemote
}

// OpenRead opens the object at key for streaming reads. The object is
// stat'd first so a missing key fails here rather than on first read.
func (b *Backend) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	_, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, pathError("open", key, translate(err))
	}

	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, pathError("open", key, translate(err))
	}
	return obj, nil
}

// Stat returns object metadata. Virtual directories are not reported;
// stat on a bare prefix fails with fs.ErrNotExist.
func (b *Backend) Stat(ctx context.Context, key string) (core.ObjectInfo, error) {
	info, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return core.ObjectInfo{}, pathError("stat", key, translate(err))
	}

	return core.ObjectInfo{
		Key:     key,
		Size:    info.Size,
		ModTime: info.LastModified,
		IsDir:   false,
	}, nil
}

// List returns the entries under prefix, sorted by key. With recursive
// false, sub-prefixes are reported as directory entries via delimiter
// listing.
func (b *Backend) List(ctx context.Context, prefix string, recursive bool) ([]core.ObjectInfo, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []core.ObjectInfo
	for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: recursive,
	}) {
		if object.Err != nil {
			return nil, pathError("list", prefix, translate(object.Err))
		}

		// Skip the directory marker for the prefix itself.
		if object.Key == prefix {
			continue
		}

		isDir := strings.HasSuffix(object.Key, "/")
		if isDir && recursive {
			continue
		}

		key := strings.TrimSuffix(object.Key, "/")
		if key == "" {
			continue
		}

		entries = append(entries, core.ObjectInfo{
			Key:     key,
			Size:    object.Size,
			ModTime: object.LastModified,
			IsDir:   isDir,
		})
	}

	// MinIO typically returns results sorted by key, but the List
	// contract requires it.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}

// Delete removes the object at key. S3 deletes are idempotent: removing
// a missing key is not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return pathError("delete", key, translate(err))
	}
	return nil
}

// DeletePrefix removes every object under prefix using the batch
// removal API.
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	objectsCh := make(chan minio.ObjectInfo, 100)

	var listErr error
	go func() {
		defer close(objectsCh)
		for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			objectsCh <- object
		}
	}()

	errorCh := b.client.RemoveObjects(ctx, b.bucket, objectsCh, minio.RemoveObjectsOptions{})

	var errList []error
	for err := range errorCh {
		if err.Err != nil {
			errList = append(errList, err.Err)
		}
	}

	if listErr != nil {
		return pathError("deleteprefix", prefix, translate(listErr))
	}
	if len(errList) > 0 {
		return pathError("deleteprefix", prefix, translate(errList[0]))
	}

	return nil
}

// Rename moves oldKey to newKey. A single object is copied server-side
// and removed; a prefix is moved with a bounded worker pool of parallel
// copies followed by batch deletion.
//
// IMPORTANT: This operation is NOT atomic. If an error occurs during
// the copy phase, some objects may have been copied. If an error occurs
// during the delete phase, objects will exist at both old and new keys.
func (b *Backend) Rename(ctx context.Context, oldKey, newKey string) error {
	_, err := b.client.StatObject(ctx, b.bucket, oldKey, minio.StatObjectOptions{})
	if err == nil {
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

	copied, err := b.parallelCopy(ctx, oldPrefix, newPrefix)
	if err != nil {
		return pathError("rename", oldKey, translate(err))
	}
	if len(copied) == 0 {
		return pathError("rename", oldKey, fs.ErrNotExist)
	}

	toDelete := make(chan minio.ObjectInfo, len(copied))
	go func() {
		defer close(toDelete)
		for _, key := range copied {
			toDelete <- minio.ObjectInfo{Key: key}
		}
	}()

	errorCh := b.client.RemoveObjects(ctx, b.bucket, toDelete, minio.RemoveObjectsOptions{})
	for err := range errorCh {
		if err.Err != nil {
			// Copy succeeded but delete failed - partial state.
			return pathError("rename", oldKey, translate(err.Err))
		}
	}

	return nil
}

// renameObject moves a single object via server-side copy + delete.
func (b *Backend) renameObject(ctx context.Context, oldKey, newKey string) error {
	src := minio.CopySrcOptions{Bucket: b.bucket, Object: oldKey}
	dst := minio.CopyDestOptions{Bucket: b.bucket, Object: newKey}

	if _, err := b.client.CopyObject(ctx, dst, src); err != nil {
		return pathError("rename", oldKey, translate(err))
	}

	if err := b.client.RemoveObject(ctx, b.bucket, oldKey, minio.RemoveObjectOptions{}); err != nil {
		return pathError("rename", oldKey, translate(err))
	}
	return nil
}

// parallelCopy copies objects from oldPrefix to newPrefix using a
// bounded worker pool. Returns the list of successfully copied source
// keys for cleanup.
func (b *Backend) parallelCopy(ctx context.Context, oldPrefix, newPrefix string) ([]string, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.renameConcurrency)

	var copiedMu sync.Mutex
	var copied []string

	for object := range b.client.ListObjects(egCtx, b.bucket, minio.ListObjectsOptions{
		Prefix:    oldPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return copied, object.Err
		}

		objectKey := object.Key
		eg.Go(func() error {
			relKey := strings.TrimPrefix(objectKey, oldPrefix)
			newObjectKey := newPrefix + relKey

			src := minio.CopySrcOptions{Bucket: b.bucket, Object: objectKey}
			dst := minio.CopyDestOptions{Bucket: b.bucket, Object: newObjectKey}

			if _, err := b.client.CopyObject(egCtx, dst, src); err != nil {
				return fmt.Errorf("copy object %s to %s: %w", objectKey, newObjectKey, err)
			}

			copiedMu.Lock()
			copied = append(copied, objectKey)
			copiedMu.Unlock()

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return copied, fmt.Errorf("parallel copy failed: %w", err)
	}

	return copied, nil
}

// Compile-time capability checks.
var (
	_ core.Backend       = (*Backend)(nil)
	_ core.Renamer       = (*Backend)(nil)
	_ core.PrefixDeleter = (*Backend)(nil)
)
