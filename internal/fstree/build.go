package fstree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Build scans opt.Path and returns the classified size tree.
// It walks the directory tree, skips files matched by opt.Ignore, opt.Excludes
// or opt.Depth, reads every remaining file with at most opt.Concurrency reads
// in flight, and sorts and partitions the results.
//
// When opt.Disabled is set Build returns a nil tree and a nil error without
// touching the filesystem. Any listing, read or compression failure aborts the
// whole build; no partial tree is returned.
//
// Progress updates are sent to progressHook if provided.
//
//nolint:nilnil // A disabled build has no tree and no error.
func Build(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Tree, error) {
	if opt.Disabled {
		return nil, nil
	}

	opt = opt.withDefaults()
	log := opt.Logger

	root, err := resolveRoot(opt.Path)
	if err != nil {
		return nil, err
	}

	f, err := newFilter(opt.Ignore, opt.Excludes, opt.Depth)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("root", root).
		Strs("ignore", opt.Ignore).
		Strs("exclude", opt.Excludes).
		Int("depth", opt.Depth).
		Int("concurrency", opt.Concurrency).
		Bool("compressed", opt.Compressed).
		Msg("scanning")

	start := time.Now()

	paths, err := listFiles(ctx, root, f, log)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("files", len(paths)).Dur("elapsed", time.Since(start)).Msg("listed files")

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	counter := &progress{}
	startProgressReporter(ctx, counter, progressHook, opt.ProgressInterval)

	entries, err := measure(ctx, root, paths, opt, counter)
	if err != nil {
		return nil, err
	}

	tree := NewTree(entries, TreeOptions{
		Compressed: opt.Compressed,
		Aggregate:  opt.Aggregate,
		Locale:     opt.Locale,
		WorkingDir: opt.WorkingDir,
	})

	log.Debug().
		Int("reported", len(tree.Reported)).
		Int("aggregated", len(tree.Aggregated)).
		Int64("bytes", tree.Total().Size).
		Dur("elapsed", time.Since(start)).
		Msg("measured files")

	return tree, nil
}

// resolveRoot returns the absolute, cleaned root and validates that it is a directory.
func resolveRoot(path string) (string, error) {
	// filepath.Clean handles both separators and converts to native format
	root, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: accessing path %q: %w", ErrNotFound, path, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrNotDirectory, path)
	}

	return root, nil
}
