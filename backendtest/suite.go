// Package backendtest provides a conformance test suite for validating
// storage backend implementations against the core.Backend contracts.
//
// This package contains test functions that can be imported and executed
// by backend packages to verify they correctly implement core.Backend and
// its optional capabilities (Renamer, PrefixDeleter).
//
// The suite validates interface contracts, not backend-specific behavior.
// Object stores and real filesystems differ in documented ways (virtual
// directories, idempotent deletes); the Config adapts the tests to those
// differences.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    backendtest.Run(t, func() core.Backend {
//	        return mybackend.New()
//	    })
//	}
package backendtest

import (
	"testing"

	"github.com/joshicola/cloud-path/core"
)

// Config adapts the suite to backend behavior characteristics.
type Config struct {
	// VirtualDirectories indicates directories are prefixes (S3-like).
	// When true, directories exist only while objects live under them
	// and cannot be stat'd directly.
	VirtualDirectories bool

	// IdempotentDelete indicates Delete succeeds on non-existent keys.
	// When true, Delete on a missing key returns nil instead of an
	// error wrapping fs.ErrNotExist.
	IdempotentDelete bool

	// SkipTests lists specific test names to skip.
	// Format: "Group/SubTest" (e.g., "Manage/DeleteNotExist").
	SkipTests []string
}

// POSIXConfig returns configuration for filesystem-backed backends
// (local, memory).
func POSIXConfig() Config {
	return Config{
		VirtualDirectories: false,
		IdempotentDelete:   false,
	}
}

// ObjectStoreConfig returns configuration for object-store backends
// (S3, GCS).
func ObjectStoreConfig() Config {
	return Config{
		VirtualDirectories: true,
		IdempotentDelete:   true,
	}
}

// Run executes all applicable conformance tests against a backend.
// The newBackend function should return a fresh, empty backend for each
// test; tests create and delete objects, so each invocation must start
// clean. Uses POSIXConfig by default.
func Run(t *testing.T, newBackend func() core.Backend) {
	RunWithConfig(t, newBackend, POSIXConfig())
}

// RunWithConfig executes the conformance tests with behavior
// configuration.
func RunWithConfig(t *testing.T, newBackend func() core.Backend, config Config) {
	shouldSkip := func(testName string) bool {
		for _, skip := range config.SkipTests {
			if skip == testName {
				return true
			}
		}
		return false
	}

	t.Run("Read", func(t *testing.T) {
		runReadTests(t, newBackend, config, shouldSkip)
	})
	t.Run("Write", func(t *testing.T) {
		runWriteTests(t, newBackend, config, shouldSkip)
	})
	t.Run("Manage", func(t *testing.T) {
		runManageTests(t, newBackend, config, shouldSkip)
	})
	t.Run("Capabilities", func(t *testing.T) {
		runCapabilityTests(t, newBackend, config, shouldSkip)
	})
}
