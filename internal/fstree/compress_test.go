package fstree_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/fstree/internal/fstree"
)

func TestGzipSizeMatchesEncodedLength(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("fstree "), 1000)

	size, err := fstree.GzipSize(data)
	require.NoError(t, err)

	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	require.NoError(t, err)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	assert.Equal(t, int64(buf.Len()), size)
	assert.Less(t, size, int64(len(data)))
}

func TestGzipSizeEmptyInput(t *testing.T) {
	t.Parallel()

	size, err := fstree.GzipSize(nil)
	require.NoError(t, err)

	assert.Positive(t, size, "gzip header and trailer are always written")
}
