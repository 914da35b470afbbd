package fstree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
)

// pathCollector gathers file paths from concurrent fastwalk callbacks using a mutex.
type pathCollector struct {
	mu    sync.Mutex // Protect concurrent access
	paths []string
}

// add records a file path.
func (c *pathCollector) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paths = append(c.paths, path)
}

// sorted returns the collected paths in byte order, so measurement tasks are
// submitted deterministically regardless of walk scheduling.
func (c *pathCollector) sorted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	paths := make([]string, len(c.paths))
	copy(paths, c.paths)
	sort.Strings(paths)

	return paths
}

// filter decides which walked paths are skipped.
type filter struct {
	dirIgnore  *ignore.GitIgnore // patterns ending in "/"
	fileIgnore *ignore.GitIgnore
	excludes   []*regexp.Regexp
	depth      int
}

// newFilter compiles the ignore globs and exclusion regexes.
func newFilter(ignorePatterns, excludes []string, depth int) (*filter, error) {
	excludeRegexes := make([]*regexp.Regexp, 0, len(excludes))

	for _, p := range excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	var dirPatterns, filePatterns []string

	for _, p := range ignorePatterns {
		if strings.HasSuffix(p, "/") {
			dirPatterns = append(dirPatterns, p)
		} else {
			filePatterns = append(filePatterns, p)
		}
	}

	return &filter{
		dirIgnore:  ignore.CompileIgnoreLines(dirPatterns...),
		fileIgnore: ignore.CompileIgnoreLines(filePatterns...),
		excludes:   excludeRegexes,
		depth:      depth,
	}, nil
}

// calculateDepth returns the depth of a slash-separated path relative to the root.
func calculateDepth(relPath string) int {
	relPath = strings.Trim(relPath, "/")
	if relPath == "" || relPath == "." {
		return 0
	}

	return strings.Count(relPath, "/") + 1
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	for _, re := range patterns {
		if re.MatchString(path) {
			return re
		}
	}

	return nil
}

// skip returns a non-empty reason when relPath must not be reported.
// Directories are matched with a trailing slash so whole subtrees are pruned.
// Only ignore patterns ending in "/" prune directories.
func (f *filter) skip(relPath string, isDir bool) string {
	if f.depth > 0 && calculateDepth(relPath) > f.depth {
		return fmt.Sprintf("beyond depth %d", f.depth)
	}

	candidate := relPath
	if isDir {
		candidate += "/"
	}

	if re := shouldExcludeByPattern(candidate, f.excludes); re != nil {
		return "matched regex " + re.String()
	}

	if isDir && f.dirIgnore.MatchesPath(candidate) {
		return "matched ignore pattern"
	}

	if !isDir && f.ignored(relPath) {
		return "matched ignore pattern"
	}

	return ""
}

// ignored reports whether the ignore patterns match a file. A file pattern
// matching only an ancestor directory name does not count: with "*.map",
// "site.map/index.html" is kept while "site.map/app.js.map" is skipped.
// Directory patterns ("dist/") cover every file below them.
func (f *filter) ignored(relPath string) bool {
	if f.dirIgnore.MatchesPath(relPath) {
		return true
	}

	if !f.fileIgnore.MatchesPath(relPath) {
		return false
	}

	for dir := path.Dir(relPath); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if f.fileIgnore.MatchesPath(dir) {
			return f.fileIgnore.MatchesPath(path.Base(relPath))
		}
	}

	return true
}

// listFiles walks root and returns the absolute paths of all regular files that pass the filter.
//
//nolint:varnamelen // d is standard for DirEntry
func listFiles(ctx context.Context, root string, f *filter, log *zerolog.Logger) ([]string, error) {
	collector := &pathCollector{}

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: accessing %q: %w", ErrIO, path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("%w: resolving %q: %w", ErrIO, path, err)
		}

		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if reason := f.skip(rel, d.IsDir()); reason != "" {
			if d.IsDir() {
				log.Debug().Str("path", rel).Str("reason", reason).Msg("skipping directory")

				return filepath.SkipDir
			}

			log.Debug().Str("path", rel).Str("reason", reason).Msg("skipping file")

			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		collector.add(path)

		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, ErrIO) || errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}

		return nil, fmt.Errorf("%w: walking %q: %w", ErrIO, root, walkErr)
	}

	return collector.sorted(), nil
}
