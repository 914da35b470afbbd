package fstree

import "errors"

var (
	// ErrNotFound is returned when the root directory is missing or inaccessible.
	ErrNotFound = errors.New("root directory not found")
	// ErrNotDirectory is returned when the root exists but is not a directory.
	ErrNotDirectory = errors.New("root is not a directory")
	// ErrIO is returned when a path cannot be listed or a file cannot be read.
	ErrIO = errors.New("i/o failure")
	// ErrCompression is returned when the compressed size of a file cannot be computed.
	ErrCompression = errors.New("compression failure")
)
