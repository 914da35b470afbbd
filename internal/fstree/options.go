package fstree

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultAggregateMarker is the path fragment whose files are folded into the total.
	DefaultAggregateMarker = "node_modules"
	// DefaultLocale is the collation locale used to sort entries.
	DefaultLocale = "en"
	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond
)

// DefaultIgnore contains the gitignore-style patterns skipped when none are configured.
//
//nolint:gochecknoglobals // Config constant
var DefaultIgnore = []string{"*.map"}

// Options configures a report build.
type Options struct {
	// Path is the directory to scan.
	Path string
	// Compressed enables gzip size measurement for every file.
	Compressed bool
	// Disabled short-circuits Build so it returns no report.
	Disabled bool
	// Aggregate reports whether a slash-separated relative path is folded into
	// the total instead of being listed. Nil selects ContainsAny(DefaultAggregateMarker).
	Aggregate func(relPath string) bool
	// Ignore contains gitignore-style patterns to skip. Nil selects DefaultIgnore.
	Ignore []string
	// Excludes contains regex patterns matched against the relative slash path.
	Excludes []string
	// Depth is the maximum traversal depth (0=unlimited).
	Depth int
	// Concurrency caps the number of files read at the same time.
	// Every in-flight read holds a whole file in memory.
	Concurrency int
	// Compressor measures compressed sizes. Nil selects gzip.
	Compressor Compressor
	// Locale is the BCP 47 tag used for collation.
	Locale string
	// WorkingDir is the base for displayed paths. Empty selects the process working directory.
	WorkingDir string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug output. Nil disables logging.
	Logger *zerolog.Logger
}

// withDefaults returns a copy of the options with unset fields filled in.
func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = "."
	}

	if o.Aggregate == nil {
		o.Aggregate = ContainsAny(DefaultAggregateMarker)
	}

	if o.Ignore == nil {
		o.Ignore = DefaultIgnore
	}

	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}

	if o.Compressor == nil {
		o.Compressor = CompressorFunc(GzipSize)
	}

	if o.Locale == "" {
		o.Locale = DefaultLocale
	}

	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}

	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}

	return o
}

// ContainsAny returns a predicate matching paths that contain any of the markers
// as a plain substring. "node_modules_backup/x.js" therefore matches "node_modules".
// Empty markers are ignored.
func ContainsAny(markers ...string) func(string) bool {
	kept := make([]string, 0, len(markers))

	for _, m := range markers {
		if m != "" {
			kept = append(kept, m)
		}
	}

	return func(relPath string) bool {
		for _, m := range kept {
			if strings.Contains(relPath, m) {
				return true
			}
		}

		return false
	}
}
