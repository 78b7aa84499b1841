package backendtest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"testing"

	"github.com/joshicola/cloud-path/core"
)

// seedObject writes content to key, failing the test on error.
func seedObject(t *testing.T, backend core.Backend, key string, content []byte) {
	t.Helper()

	w, err := backend.OpenWrite(context.Background(), key)
	if err != nil {
		t.Fatalf("OpenWrite(%q): got error %v, want nil", key, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("Write(%q): got error %v, want nil", key, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%q): got error %v, want nil", key, err)
	}
}

// runReadTests exercises the ReadBackend contract.
func runReadTests(t *testing.T, newBackend func() core.Backend, config Config, shouldSkip func(string) bool) {
	testContent := []byte("conformance test content")

	t.Run("OpenReadRoundTrip", func(t *testing.T) {
		if shouldSkip("Read/OpenReadRoundTrip") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "testdir/testfile.txt", testContent)

		r, err := backend.OpenRead(context.Background(), "testdir/testfile.txt")
		if err != nil {
			t.Fatalf("OpenRead: got error %v, want nil", err)
		}
		defer func() { _ = r.Close() }()

		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll: got error %v, want nil", err)
		}
		if !bytes.Equal(data, testContent) {
			t.Errorf("OpenRead: got %q, want %q", data, testContent)
		}
	})

	t.Run("OpenReadNotExist", func(t *testing.T) {
		if shouldSkip("Read/OpenReadNotExist") {
			t.Skip("skipped by config")
		}
		backend := newBackend()

		r, err := backend.OpenRead(context.Background(), "nonexistent")
		if err == nil {
			// Some stores only surface the error on first read.
			_, err = io.ReadAll(r)
			_ = r.Close()
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("OpenRead(nonexistent): got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("StatFile", func(t *testing.T) {
		if shouldSkip("Read/StatFile") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "testdir/testfile.txt", testContent)

		info, err := backend.Stat(context.Background(), "testdir/testfile.txt")
		if err != nil {
			t.Fatalf("Stat: got error %v, want nil", err)
		}
		if info.IsDir {
			t.Error("Stat: IsDir = true, want false")
		}
		if info.Size != int64(len(testContent)) {
			t.Errorf("Stat: Size = %d, want %d", info.Size, len(testContent))
		}
		if info.Key != "testdir/testfile.txt" {
			t.Errorf("Stat: Key = %q, want %q", info.Key, "testdir/testfile.txt")
		}
	})

	t.Run("StatNotExist", func(t *testing.T) {
		if shouldSkip("Read/StatNotExist") {
			t.Skip("skipped by config")
		}
		backend := newBackend()

		_, err := backend.Stat(context.Background(), "nonexistent")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat(nonexistent): got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("ListShallow", func(t *testing.T) {
		if shouldSkip("Read/ListShallow") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "testdir/a.txt", testContent)
		seedObject(t, backend, "testdir/sub/b.txt", testContent)

		entries, err := backend.List(context.Background(), "testdir/", false)
		if err != nil {
			t.Fatalf("List: got error %v, want nil", err)
		}
		if len(entries) != 2 {
			t.Fatalf("List: got %d entries, want 2", len(entries))
		}
		if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key }) {
			t.Error("List: entries not sorted by key")
		}
		if entries[0].Key != "testdir/a.txt" || entries[0].IsDir {
			t.Errorf("List: entry 0 = %+v, want object testdir/a.txt", entries[0])
		}
		if entries[1].Key != "testdir/sub" || !entries[1].IsDir {
			t.Errorf("List: entry 1 = %+v, want directory testdir/sub", entries[1])
		}
	})

	t.Run("ListRecursive", func(t *testing.T) {
		if shouldSkip("Read/ListRecursive") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "testdir/a.txt", testContent)
		seedObject(t, backend, "testdir/sub/b.txt", testContent)

		entries, err := backend.List(context.Background(), "testdir/", true)
		if err != nil {
			t.Fatalf("List: got error %v, want nil", err)
		}

		var keys []string
		for _, entry := range entries {
			if entry.IsDir {
				t.Errorf("List recursive: got directory entry %q, want objects only", entry.Key)
				continue
			}
			keys = append(keys, entry.Key)
		}
		want := []string{"testdir/a.txt", "testdir/sub/b.txt"}
		if len(keys) != len(want) {
			t.Fatalf("List recursive: got keys %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("List recursive: key %d = %q, want %q", i, keys[i], want[i])
			}
		}
	})

	t.Run("ListEmptyPrefix", func(t *testing.T) {
		if shouldSkip("Read/ListEmptyPrefix") {
			t.Skip("skipped by config")
		}
		backend := newBackend()
		seedObject(t, backend, "root.txt", testContent)

		entries, err := backend.List(context.Background(), "", false)
		if err != nil {
			t.Fatalf("List(root): got error %v, want nil", err)
		}
		found := false
		for _, entry := range entries {
			if entry.Key == "root.txt" {
				found = true
			}
		}
		if !found {
			t.Error("List(root): root.txt not listed")
		}
	})
}
