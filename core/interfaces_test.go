package core_test

import (
	"testing"

	"github.com/joshicola/cloud-path/core"
)

// TestBackendType_String verifies BackendType.String() returns correct
// string representations.
func TestBackendType_String(t *testing.T) {
	tests := []struct {
		name        string
		backendType core.BackendType
		expected    string
	}{
		{
			name:        "Unknown",
			backendType: core.BackendTypeUnknown,
			expected:    "unknown",
		},
		{
			name:        "Local",
			backendType: core.BackendTypeLocal,
			expected:    "local",
		},
		{
			name:        "Memory",
			backendType: core.BackendTypeMemory,
			expected:    "memory",
		},
		{
			name:        "Remote",
			backendType: core.BackendTypeRemote,
			expected:    "remote",
		},
		{
			name:        "Invalid",
			backendType: core.BackendType(999),
			expected:    "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.backendType.String()
			if result != tt.expected {
				t.Errorf("BackendType(%d).String() = %q, want %q", tt.backendType, result, tt.expected)
			}
		})
	}
}

// TestBackendType_Constants verifies BackendType constants have expected values.
func TestBackendType_Constants(t *testing.T) {
	if core.BackendTypeUnknown != 0 {
		t.Errorf("BackendTypeUnknown = %d, want 0 (zero value)", core.BackendTypeUnknown)
	}

	distinct := map[core.BackendType]string{
		core.BackendTypeLocal:  "local",
		core.BackendTypeMemory: "memory",
		core.BackendTypeRemote: "remote",
	}
	if len(distinct) != 3 {
		t.Error("BackendType constants are not distinct")
	}
	for bt := range distinct {
		if bt == core.BackendTypeUnknown {
			t.Errorf("BackendType %q collides with BackendTypeUnknown", distinct[bt])
		}
	}
}
