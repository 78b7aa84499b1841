package core

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Copy copies every object under srcPrefix in src to dst, preserving key
// structure below the prefix. Use an empty srcPrefix to copy the entire
// container. Destination keys are formed by replacing srcPrefix with
// dstPrefix.
//
// Copy streams each object individually; it does not use server-side
// copy even when source and destination share a backend. Partial
// failures leave already-copied objects in place.
//
// Example:
//
//	mem := billy.NewMemory()
//	err := core.Copy(ctx, remote, mem, "reports/2026", "snapshots/2026")
func Copy(ctx context.Context, src ReadBackend, dst WriteBackend, srcPrefix, dstPrefix string) error {
	entries, err := src.List(ctx, srcPrefix, true)
	if err != nil {
		return fmt.Errorf("copy: list %q: %w", srcPrefix, err)
	}

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}

		rel := strings.TrimPrefix(entry.Key, srcPrefix)
		rel = strings.TrimPrefix(rel, "/")

		dstKey := rel
		if dstPrefix != "" {
			dstKey = dstPrefix + "/" + rel
		}

		if err := copyObject(ctx, src, dst, entry.Key, dstKey); err != nil {
			return err
		}
	}

	return nil
}

// copyObject streams a single object from src to dst.
func copyObject(ctx context.Context, src ReadBackend, dst WriteBackend, srcKey, dstKey string) error {
	r, err := src.OpenRead(ctx, srcKey)
	if err != nil {
		return fmt.Errorf("copy: open %q: %w", srcKey, err)
	}
	defer func() {
		_ = r.Close()
	}()

	w, err := dst.OpenWrite(ctx, dstKey)
	if err != nil {
		return fmt.Errorf("copy: create %q: %w", dstKey, err)
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy: write %q: %w", dstKey, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("copy: close %q: %w", dstKey, err)
	}

	return nil
}
