// Package fstree builds human-readable directory size reports.
//
// It enumerates a directory tree using fastwalk for parallel traversal,
// measures every file's raw and optionally gzip-compressed size with a
// bounded number of concurrent reads, and renders a sorted ASCII tree with a
// grand total. Files matching an aggregation predicate (dependency
// directories by default) are hidden from the tree but still counted.
package fstree
