package fstree

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDepth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, calculateDepth("."))
	assert.Equal(t, 0, calculateDepth(""))
	assert.Equal(t, 1, calculateDepth("a.txt"))
	assert.Equal(t, 2, calculateDepth("sub/b.txt"))
	assert.Equal(t, 3, calculateDepth("sub/deeper/c.txt/"))
}

func TestFilterSkip(t *testing.T) {
	t.Parallel()

	f, err := newFilter([]string{"*.map"}, []string{`.*\.git/.*`}, 0)
	require.NoError(t, err)

	testCases := []struct {
		path  string
		isDir bool
		skip  bool
	}{
		{path: "index.mjs", skip: false},
		{path: "index.mjs.map", skip: true},
		{path: "chunks/app.js.map", skip: true},
		{path: "maps", isDir: true, skip: false},
		{path: "site.map", isDir: true, skip: false},
		{path: "site.map/index.html", skip: false},
		{path: "site.map/app.js.map", skip: true},
		{path: ".git", isDir: true, skip: true},
		{path: "repo/.git/HEAD", skip: true},
		{path: "node_modules/dep/index.js", skip: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.skip, f.skip(tc.path, tc.isDir) != "")
		})
	}
}

func TestFilterSkipDepth(t *testing.T) {
	t.Parallel()

	f, err := newFilter(nil, nil, 1)
	require.NoError(t, err)

	assert.Empty(t, f.skip("a.txt", false))
	assert.Empty(t, f.skip("sub", true))
	assert.Equal(t, "beyond depth 1", f.skip("sub/b.txt", false))
}

func TestFilterDirectoryPatternCoversSubtree(t *testing.T) {
	t.Parallel()

	f, err := newFilter([]string{"dist/"}, nil, 0)
	require.NoError(t, err)

	assert.NotEmpty(t, f.skip("dist", true))
	assert.NotEmpty(t, f.skip("dist/app.js", false))
	assert.NotEmpty(t, f.skip("dist/nested/app.js", false))
	assert.Empty(t, f.skip("src/app.js", false))
}

func TestListFilesMissingRoot(t *testing.T) {
	t.Parallel()

	f, err := newFilter(nil, nil, 0)
	require.NoError(t, err)

	log := zerolog.Nop()

	paths, err := listFiles(context.Background(), filepath.Join(t.TempDir(), "gone"), f, &log)

	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, paths)
}

func TestListFilesUnreadableDirectory(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "a.txt"), []byte("a"), 0o600))
	require.NoError(t, os.Chmod(locked, 0o000))

	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	f, err := newFilter(nil, nil, 0)
	require.NoError(t, err)

	log := zerolog.Nop()

	paths, err := listFiles(context.Background(), root, f, &log)

	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Nil(t, paths)
}

func TestMeasureReadFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	present := filepath.Join(root, "present.txt")
	removed := filepath.Join(root, "removed.txt")

	require.NoError(t, os.WriteFile(present, []byte("abc"), 0o600))
	require.NoError(t, os.WriteFile(removed, []byte("abc"), 0o600))
	require.NoError(t, os.Remove(removed))

	for _, concurrency := range []int{1, 2} {
		opt := Options{Concurrency: concurrency}.withDefaults()

		entries, err := measure(context.Background(), root, []string{present, removed}, opt, &progress{})

		require.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, err.Error(), "removed.txt")
		assert.Nil(t, entries)
	}
}

func TestMeasureFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "sub", "a.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	entry, err := measureFile(context.Background(), root, path, false, nil)
	require.NoError(t, err)

	assert.Equal(t, Entry{RelativePath: "sub/a.txt", AbsolutePath: path, Size: 5}, entry)
}
