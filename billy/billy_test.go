package billy_test

import (
	"context"
	"testing"

	"github.com/joshicola/cloud-path/backendtest"
	"github.com/joshicola/cloud-path/billy"
	"github.com/joshicola/cloud-path/core"
)

// TestMemoryBackend_Conformance runs the backend conformance suite
// against the in-memory backend.
func TestMemoryBackend_Conformance(t *testing.T) {
	backendtest.Run(t, func() core.Backend {
		return billy.NewMemory()
	})
}

// TestLocalBackend_Conformance runs the backend conformance suite
// against the local backend rooted in a fresh temp directory.
func TestLocalBackend_Conformance(t *testing.T) {
	backendtest.Run(t, func() core.Backend {
		return billy.NewLocal(t.TempDir())
	})
}

// TestBackendType verifies Type reporting for both constructors.
func TestBackendType(t *testing.T) {
	if got := billy.NewMemory().Type(); got != core.BackendTypeMemory {
		t.Errorf("NewMemory().Type() = %v, want memory", got)
	}
	if got := billy.NewLocal(t.TempDir()).Type(); got != core.BackendTypeLocal {
		t.Errorf("NewLocal().Type() = %v, want local", got)
	}
}

// TestUnwrap verifies the underlying billy.Filesystem stays reachable.
func TestUnwrap(t *testing.T) {
	backend := billy.NewMemory()
	if backend.Unwrap() == nil {
		t.Fatal("Unwrap() = nil, want billy.Filesystem")
	}
}

// TestMkdir verifies explicit directory creation shows up in listings
// and stats.
func TestMkdir(t *testing.T) {
	ctx := context.Background()
	backend := billy.NewMemory()

	if err := backend.Mkdir(ctx, "a/b"); err != nil {
		t.Fatalf("Mkdir: got error %v, want nil", err)
	}
	// Creating an existing directory is not an error.
	if err := backend.Mkdir(ctx, "a/b"); err != nil {
		t.Fatalf("Mkdir (exists): got error %v, want nil", err)
	}

	info, err := backend.Stat(ctx, "a/b")
	if err != nil {
		t.Fatalf("Stat: got error %v, want nil", err)
	}
	if !info.IsDir {
		t.Error("Stat: IsDir = false, want true")
	}
}

// TestRenamePrefixKeys verifies renames land under the destination key
// even when its parents do not exist yet.
func TestRenamePrefixKeys(t *testing.T) {
	ctx := context.Background()
	backend := billy.NewMemory()

	w, err := backend.OpenWrite(ctx, "src/file.txt")
	if err != nil {
		t.Fatalf("OpenWrite: got error %v, want nil", err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Write: got error %v, want nil", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: got error %v, want nil", err)
	}

	if err := backend.Rename(ctx, "src/file.txt", "dst/nested/file.txt"); err != nil {
		t.Fatalf("Rename: got error %v, want nil", err)
	}
	if _, err := backend.Stat(ctx, "dst/nested/file.txt"); err != nil {
		t.Errorf("Stat(dst): got error %v, want nil", err)
	}
}
