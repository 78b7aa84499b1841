package gcs

import (
	"io/fs"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshicola/cloud-path/core"
)

// TestContentType tests MIME type derivation from object keys.
func TestContentType(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"reports/summary.json", "application/json"},
		{"site/index.html", "text/html; charset=utf-8"},
		{"images/logo.png", "image/png"},
		{"data/blob", "application/octet-stream"},
		{"archive.unknown-ext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, contentType(tt.key))
		})
	}
}

// TestTranslate tests GCS error translation to fs sentinels.
func TestTranslate(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, translate(nil))
	})

	t.Run("object not exist maps to ErrNotExist", func(t *testing.T) {
		err := translate(storage.ErrObjectNotExist)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("bucket not exist maps to ErrNotExist", func(t *testing.T) {
		err := translate(storage.ErrBucketNotExist)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		err := translate(assert.AnError)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gcs:")
	})
}

// TestNewWithClient_RequiresBucket verifies construction fails without
// a bucket.
func TestNewWithClient_RequiresBucket(t *testing.T) {
	_, err := NewWithClient(&storage.Client{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

// TestPathError tests the fs.PathError wrapping helper.
func TestPathError(t *testing.T) {
	assert.Nil(t, pathError("stat", "a/b", nil))

	err := pathError("stat", "a/b", fs.ErrNotExist)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pe *fs.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "stat", pe.Op)
}

// TestListEntry tests listing entry conversion, in particular that
// zero-byte directory-marker objects (keys ending in "/", creatable
// through the console) never surface as regular objects.
func TestListEntry(t *testing.T) {
	tests := []struct {
		name      string
		attrs     *storage.ObjectAttrs
		prefix    string
		recursive bool
		wantOK    bool
		wantEntry core.ObjectInfo
	}{
		{
			name:      "Object",
			attrs:     &storage.ObjectAttrs{Name: "dir/a.txt", Size: 4},
			prefix:    "dir/",
			wantOK:    true,
			wantEntry: core.ObjectInfo{Key: "dir/a.txt", Size: 4},
		},
		{
			name:      "SubPrefix",
			attrs:     &storage.ObjectAttrs{Prefix: "dir/sub/"},
			prefix:    "dir/",
			wantOK:    true,
			wantEntry: core.ObjectInfo{Key: "dir/sub", IsDir: true},
		},
		{
			name:   "OwnMarkerSkipped",
			attrs:  &storage.ObjectAttrs{Name: "dir/"},
			prefix: "dir/",
			wantOK: false,
		},
		{
			name:      "MarkerSkippedRecursive",
			attrs:     &storage.ObjectAttrs{Name: "dir/sub/"},
			prefix:    "dir/",
			recursive: true,
			wantOK:    false,
		},
		{
			name:      "MarkerAsDirectoryShallow",
			attrs:     &storage.ObjectAttrs{Name: "dir/sub/"},
			prefix:    "dir/",
			wantOK:    true,
			wantEntry: core.ObjectInfo{Key: "dir/sub", IsDir: true},
		},
		{
			name:      "RootMarkerSkipped",
			attrs:     &storage.ObjectAttrs{Name: "/"},
			prefix:    "",
			recursive: true,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := listEntry(tt.attrs, tt.prefix, tt.recursive)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantEntry, entry)
			}
		})
	}
}
