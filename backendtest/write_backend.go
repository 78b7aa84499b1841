package backendtest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/joshicola/cloud-path/core"
)

// readObject reads the full content at key, failing the test on error.
func readObject(t *testing.T, backend core.Backend, key string) []byte {
	t.Helper()

	r, err := backend.OpenRead(context.Background(), key)
	if err != nil {
		t.Fatalf("OpenRead(%q): got error %v, want nil", key, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll(%q): got error %v, want nil", key, err)
	}
	return data
}

// runWriteTests exercises the WriteBackend contract.
func runWriteTests(t *testing.T, newBackend func() core.Backend, config Config, shouldSkip func(string) bool) {
	t.Run("CreateNew", func(t *testing.T) {
		if shouldSkip("Write/CreateNew") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		content := []byte("new object")
		seedObject(t, backend, "created.txt", content)

		if got := readObject(t, backend, "created.txt"); !bytes.Equal(got, content) {
			t.Errorf("read after create: got %q, want %q", got, content)
		}
	})

	t.Run("OverwriteReplaces", func(t *testing.T) {
		if shouldSkip("Write/OverwriteReplaces") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "file.txt", []byte("first version, longer"))
		seedObject(t, backend, "file.txt", []byte("second"))

		if got := readObject(t, backend, "file.txt"); !bytes.Equal(got, []byte("second")) {
			t.Errorf("read after overwrite: got %q, want %q", got, "second")
		}
	})

	t.Run("ImplicitParents", func(t *testing.T) {
		if shouldSkip("Write/ImplicitParents") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		content := []byte("deep")
		seedObject(t, backend, "a/b/c/deep.txt", content)

		if got := readObject(t, backend, "a/b/c/deep.txt"); !bytes.Equal(got, content) {
			t.Errorf("read after deep create: got %q, want %q", got, content)
		}
	})

	t.Run("EmptyObject", func(t *testing.T) {
		if shouldSkip("Write/EmptyObject") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "empty.txt", nil)

		info, err := backend.Stat(context.Background(), "empty.txt")
		if err != nil {
			t.Fatalf("Stat(empty): got error %v, want nil", err)
		}
		if info.Size != 0 {
			t.Errorf("Stat(empty): Size = %d, want 0", info.Size)
		}
	})
}

// runManageTests exercises the ManageBackend contract.
func runManageTests(t *testing.T, newBackend func() core.Backend, config Config, shouldSkip func(string) bool) {
	t.Run("DeleteRemoves", func(t *testing.T) {
		if shouldSkip("Manage/DeleteRemoves") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "doomed.txt", []byte("x"))

		if err := backend.Delete(context.Background(), "doomed.txt"); err != nil {
			t.Fatalf("Delete: got error %v, want nil", err)
		}
		if _, err := backend.Stat(context.Background(), "doomed.txt"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat after delete: got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("DeleteNotExist", func(t *testing.T) {
		if shouldSkip("Manage/DeleteNotExist") {
			t.Skip("skipped by config")
		}
		if config.IdempotentDelete {
			t.Skip("backend has idempotent deletes")
		}
		backend := newBackend()

		err := backend.Delete(context.Background(), "nonexistent")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Delete(nonexistent): got error %v, want fs.ErrNotExist", err)
		}
	})
}

// runCapabilityTests exercises the optional capability interfaces, when
// implemented.
func runCapabilityTests(t *testing.T, newBackend func() core.Backend, config Config, shouldSkip func(string) bool) {
	t.Run("RenameFile", func(t *testing.T) {
		if shouldSkip("Capabilities/RenameFile") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		renamer, ok := backend.(core.Renamer)
		if !ok {
			t.Skip("backend does not implement Renamer")
		}
		content := []byte("moving target")
		seedObject(t, backend, "old/name.txt", content)

		if err := renamer.Rename(context.Background(), "old/name.txt", "new/name.txt"); err != nil {
			t.Fatalf("Rename: got error %v, want nil", err)
		}
		if got := readObject(t, backend, "new/name.txt"); !bytes.Equal(got, content) {
			t.Errorf("read after rename: got %q, want %q", got, content)
		}
		if _, err := backend.Stat(context.Background(), "old/name.txt"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat(old) after rename: got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("DeletePrefix", func(t *testing.T) {
		if shouldSkip("Capabilities/DeletePrefix") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		deleter, ok := backend.(core.PrefixDeleter)
		if !ok {
			t.Skip("backend does not implement PrefixDeleter")
		}
		seedObject(t, backend, "batch/a.txt", []byte("a"))
		seedObject(t, backend, "batch/sub/b.txt", []byte("b"))
		seedObject(t, backend, "keep.txt", []byte("keep"))

		if err := deleter.DeletePrefix(context.Background(), "batch/"); err != nil {
			t.Fatalf("DeletePrefix: got error %v, want nil", err)
		}
		for _, key := range []string{"batch/a.txt", "batch/sub/b.txt"} {
			if _, err := backend.Stat(context.Background(), key); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Stat(%q) after DeletePrefix: got error %v, want fs.ErrNotExist", key, err)
			}
		}
		if _, err := backend.Stat(context.Background(), "keep.txt"); err != nil {
			t.Errorf("Stat(keep.txt): got error %v, want nil (outside prefix)", err)
		}
	})

	t.Run("DeletePrefixMissing", func(t *testing.T) {
		if shouldSkip("Capabilities/DeletePrefixMissing") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		deleter, ok := backend.(core.PrefixDeleter)
		if !ok {
			t.Skip("backend does not implement PrefixDeleter")
		}

		if err := deleter.DeletePrefix(context.Background(), "never-existed/"); err != nil {
			t.Errorf("DeletePrefix(missing): got error %v, want nil", err)
		}
	})
}
