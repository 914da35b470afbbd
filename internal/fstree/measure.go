package fstree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// progress counts measured files and bytes. Pool workers update it concurrently.
type progress struct {
	files atomic.Int64
	bytes atomic.Int64
}

func (p *progress) add(size int64) {
	p.files.Add(1)
	p.bytes.Add(size)
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, p *progress, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.files.Load(), p.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// measureFile reads a whole file and returns its entry.
func measureFile(ctx context.Context, root, path string, compressed bool, compressor Compressor) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: resolving %q: %w", ErrIO, path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: reading %q: %w", ErrIO, path, err)
	}

	entry := Entry{
		RelativePath: filepath.ToSlash(rel),
		AbsolutePath: path,
		Size:         int64(len(data)),
	}

	if compressed {
		size, err := compressor.CompressedSize(data)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %q: %w", ErrCompression, path, err)
		}

		entry.CompressedSize = size
	}

	return entry, nil
}

// measure computes entries for all paths with at most opt.Concurrency files
// held in memory at once. The first failure cancels the remaining reads.
func measure(ctx context.Context, root string, paths []string, opt Options, counter *progress) ([]Entry, error) {
	p := pool.NewWithResults[Entry]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(opt.Concurrency)

	for _, path := range paths {
		path := path
		p.Go(func(ctx context.Context) (Entry, error) {
			entry, err := measureFile(ctx, root, path, opt.Compressed, opt.Compressor)
			if err != nil {
				return Entry{}, err
			}

			counter.add(entry.Size)

			return entry, nil
		})
	}

	entries, err := p.Wait()
	if err != nil {
		return nil, err
	}

	return entries, nil
}
