package cloudpath_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshicola/cloud-path/billy"
	"github.com/joshicola/cloud-path/cloudpath"
	"github.com/joshicola/cloud-path/core"
)

// newTestObject binds a parsed path to a fresh in-memory backend.
func newTestObject(t *testing.T, uri string) *cloudpath.Object {
	t.Helper()
	p, err := cloudpath.Parse(uri)
	require.NoError(t, err)
	return cloudpath.Bind(p, billy.NewMemory())
}

func TestObject_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/path/to/resource.txt")

	content := []byte("file content")
	require.NoError(t, obj.WriteFile(ctx, content))

	got, err := obj.ReadFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestObject_OpenStreams(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/stream.txt")

	w, err := obj.Create(ctx)
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := obj.Open(ctx)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("streamed"), data)
}

func TestObject_Exists(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/path/to/resource.txt")

	exists, err := obj.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, obj.WriteFile(ctx, []byte("x")))

	exists, err = obj.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	// The parent exists as a directory once a child object does.
	parent, err := obj.Parent()
	require.NoError(t, err)
	exists, err = parent.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestObject_IsDirIsFile(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/dir/file.txt")
	require.NoError(t, obj.WriteFile(ctx, []byte("x")))

	isFile, err := obj.IsFile(ctx)
	require.NoError(t, err)
	assert.True(t, isFile)

	isDir, err := obj.IsDir(ctx)
	require.NoError(t, err)
	assert.False(t, isDir)

	parent, err := obj.Parent()
	require.NoError(t, err)

	isFile, err = parent.IsFile(ctx)
	require.NoError(t, err)
	assert.False(t, isFile)

	isDir, err = parent.IsDir(ctx)
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestObject_Stat(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/file.txt")
	require.NoError(t, obj.WriteFile(ctx, []byte("12345")))

	info, err := obj.Stat(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.IsDir)
}

func TestObject_ReadDir(t *testing.T) {
	ctx := context.Background()
	root := newTestObject(t, "mem://bucket/dir")
	backend := root.Backend()

	for _, key := range []string{"dir/file1", "dir/file2", "dir/sub/nested"} {
		p, err := cloudpath.FromKey("mem", "bucket", key)
		require.NoError(t, err)
		require.NoError(t, cloudpath.Bind(p, backend).WriteFile(ctx, []byte("x")))
	}

	children, err := root.ReadDir(ctx)
	require.NoError(t, err)
	require.Len(t, children, 3)

	var uris []string
	for _, child := range children {
		uris = append(uris, child.String())
	}
	assert.Equal(t, []string{
		"mem://bucket/dir/file1",
		"mem://bucket/dir/file2",
		"mem://bucket/dir/sub",
	}, uris)
}

func TestObject_Glob(t *testing.T) {
	ctx := context.Background()
	root := newTestObject(t, "mem://bucket/data")
	backend := root.Backend()

	for _, key := range []string{
		"data/a.txt",
		"data/b.txt",
		"data/c.json",
		"data/sub/d.txt",
	} {
		p, err := cloudpath.FromKey("mem", "bucket", key)
		require.NoError(t, err)
		require.NoError(t, cloudpath.Bind(p, backend).WriteFile(ctx, []byte("x")))
	}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "shallow extension match",
			pattern: "*.txt",
			want:    []string{"data/a.txt", "data/b.txt"},
		},
		{
			name:    "nested match",
			pattern: "sub/*.txt",
			want:    []string{"data/sub/d.txt"},
		},
		{
			name:    "no matches",
			pattern: "*.csv",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := root.Glob(ctx, tt.pattern)
			require.NoError(t, err)

			var keys []string
			for _, m := range matches {
				keys = append(keys, m.Path().Key())
			}
			assert.Equal(t, tt.want, keys)
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := root.Glob(ctx, "[")
		assert.Error(t, err)
	})
}

func TestObject_Remove(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/doomed.txt")
	require.NoError(t, obj.WriteFile(ctx, []byte("x")))

	require.NoError(t, obj.Remove(ctx))

	exists, err := obj.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	// Removing again surfaces the backend's not-exist error.
	err = obj.Remove(ctx)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestObject_RemoveAll(t *testing.T) {
	ctx := context.Background()
	root := newTestObject(t, "mem://bucket/tree")
	backend := root.Backend()

	for _, key := range []string{"tree/a", "tree/sub/b", "outside"} {
		p, err := cloudpath.FromKey("mem", "bucket", key)
		require.NoError(t, err)
		require.NoError(t, cloudpath.Bind(p, backend).WriteFile(ctx, []byte("x")))
	}

	require.NoError(t, root.RemoveAll(ctx))

	exists, err := root.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	outside, err := cloudpath.Parse("mem://bucket/outside")
	require.NoError(t, err)
	exists, err = cloudpath.Bind(outside, backend).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	// RemoveAll on a missing path is not an error.
	require.NoError(t, root.RemoveAll(ctx))
}

func TestObject_Rename(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/old/name.txt")
	content := []byte("moving")
	require.NoError(t, obj.WriteFile(ctx, content))

	target, err := cloudpath.Parse("mem://bucket/new/name.txt")
	require.NoError(t, err)

	renamed, err := obj.Rename(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, "mem://bucket/new/name.txt", renamed.String())

	got, err := renamed.ReadFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	exists, err := obj.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestObject_RenameAcrossContainers(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/file.txt")
	require.NoError(t, obj.WriteFile(ctx, []byte("x")))

	target, err := cloudpath.Parse("mem://other/file.txt")
	require.NoError(t, err)

	_, err = obj.Rename(ctx, target)
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

func TestObject_JoinParentBinding(t *testing.T) {
	obj := newTestObject(t, "mem://bucket/a")

	child, err := obj.Join("b", "c.txt")
	require.NoError(t, err)
	assert.Equal(t, "mem://bucket/a/b/c.txt", child.String())
	assert.Same(t, obj.Backend(), child.Backend())

	_, err = obj.Join("")
	assert.ErrorIs(t, err, cloudpath.ErrInvalidSegment)

	parent, err := child.Parent()
	require.NoError(t, err)
	assert.Equal(t, "mem://bucket/a/b", parent.String())

	root := newTestObject(t, "mem://bucket")
	_, err = root.Parent()
	assert.ErrorIs(t, err, cloudpath.ErrRootHasNoParent)
}

func TestObject_Mkdir(t *testing.T) {
	ctx := context.Background()
	obj := newTestObject(t, "mem://bucket/made/dir")

	require.NoError(t, obj.Mkdir(ctx))

	isDir, err := obj.IsDir(ctx)
	require.NoError(t, err)
	assert.True(t, isDir)
}

// noEmptyKeyStat mimics remote object-store clients, which reject a
// stat on the empty object name with a generic client-side error
// rather than fs.ErrNotExist.
type noEmptyKeyStat struct {
	core.Backend
}

func (b noEmptyKeyStat) Stat(ctx context.Context, key string) (core.ObjectInfo, error) {
	if key == "" {
		return core.ObjectInfo{}, errors.New("object name cannot be empty")
	}
	return b.Backend.Stat(ctx, key)
}

func TestObject_ContainerRoot(t *testing.T) {
	ctx := context.Background()

	p, err := cloudpath.Parse("mem://bucket")
	require.NoError(t, err)
	root := cloudpath.Bind(p, noEmptyKeyStat{Backend: billy.NewMemory()})

	// The root is answered without a stat call, so backends that
	// reject the empty key still report it correctly.
	exists, err := root.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	isDir, err := root.IsDir(ctx)
	require.NoError(t, err)
	assert.True(t, isDir)

	isFile, err := root.IsFile(ctx)
	require.NoError(t, err)
	assert.False(t, isFile)

	// Same answers once the container holds objects.
	child, err := root.Join("a.txt")
	require.NoError(t, err)
	require.NoError(t, child.WriteFile(ctx, []byte("x")))

	exists, err = root.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	isDir, err = root.IsDir(ctx)
	require.NoError(t, err)
	assert.True(t, isDir)
}
