package fstree

import (
	"github.com/klauspost/compress/gzip"
)

// Compressor reports the compressed size of a file's contents.
type Compressor interface {
	CompressedSize(data []byte) (int64, error)
}

// CompressorFunc adapts a function to the Compressor interface.
type CompressorFunc func(data []byte) (int64, error)

// CompressedSize calls f(data).
func (f CompressorFunc) CompressedSize(data []byte) (int64, error) {
	return f(data)
}

// countingWriter discards everything written to it and counts the bytes.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))

	return len(p), nil
}

// GzipSize returns the size of data after gzip compression at the best compression level.
func GzipSize(data []byte) (int64, error) {
	var counter countingWriter

	zw, err := gzip.NewWriterLevel(&counter, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	if _, err := zw.Write(data); err != nil {
		return 0, err
	}

	if err := zw.Close(); err != nil {
		return 0, err
	}

	return counter.n, nil
}
