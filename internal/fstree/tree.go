package fstree

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/colorstring"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	branchGlyph = "├─"
	lastGlyph   = "└─"
	totalLabel  = "Σ Total size:"
)

// Entry represents a single measured file.
type Entry struct {
	// RelativePath is the slash-separated path relative to the scanned root.
	RelativePath string
	// AbsolutePath is the resolved path of the file.
	AbsolutePath string
	// Size is the raw size in bytes.
	Size int64
	// CompressedSize is the compressed size in bytes, 0 when not measured.
	CompressedSize int64
}

// Totals accumulates raw and compressed sizes.
type Totals struct {
	// Size is the cumulative raw size in bytes.
	Size int64 `json:"size"`
	// CompressedSize is the cumulative compressed size in bytes.
	CompressedSize int64 `json:"compressed_size"`
}

func (t *Totals) add(e Entry) {
	t.Size += e.Size
	t.CompressedSize += e.CompressedSize
}

// Plus returns the sum of both totals.
func (t Totals) Plus(other Totals) Totals {
	return Totals{
		Size:           t.Size + other.Size,
		CompressedSize: t.CompressedSize + other.CompressedSize,
	}
}

// TreeOptions configures how entries are classified and displayed.
type TreeOptions struct {
	// Compressed indicates whether compressed sizes are shown.
	Compressed bool
	// Aggregate selects entries that are folded into the total. Nil aggregates nothing.
	Aggregate func(relPath string) bool
	// Locale is the collation locale. Empty selects DefaultLocale.
	Locale string
	// WorkingDir is the base for displayed paths. Empty selects the process working directory.
	WorkingDir string
}

// Tree is a sorted, classified set of entries ready to be rendered.
type Tree struct {
	// Reported holds the entries rendered as tree lines, in collation order.
	Reported []Entry
	// Aggregated holds the entries hidden from the tree, in collation order.
	Aggregated []Entry
	// ReportedTotals is the sum over Reported.
	ReportedTotals Totals
	// AggregatedTotals is the sum over Aggregated.
	AggregatedTotals Totals
	// Compressed indicates whether compressed sizes are shown.
	Compressed bool
	// Color enables terminal colors in String.
	Color bool

	workingDir string
}

// SortEntries sorts entries in place by absolute path using locale-aware collation.
// Paths that collate equal fall back to byte order so the result is total.
func SortEntries(entries []Entry, locale string) {
	if locale == "" {
		locale = DefaultLocale
	}

	collator := collate.New(language.Make(locale))

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := collator.CompareString(a.AbsolutePath, b.AbsolutePath); c != 0 {
			return c
		}

		return strings.Compare(a.AbsolutePath, b.AbsolutePath)
	})
}

// NewTree sorts a copy of entries and splits them into reported and aggregated groups.
func NewTree(entries []Entry, opt TreeOptions) *Tree {
	sorted := slices.Clone(entries)
	SortEntries(sorted, opt.Locale)

	workingDir := opt.WorkingDir
	if workingDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			workingDir = cwd
		}
	}

	tree := &Tree{
		Reported:   make([]Entry, 0, len(sorted)),
		Aggregated: make([]Entry, 0),
		Compressed: opt.Compressed,
		workingDir: workingDir,
	}

	for _, e := range sorted {
		if opt.Aggregate != nil && opt.Aggregate(e.RelativePath) {
			tree.Aggregated = append(tree.Aggregated, e)
			tree.AggregatedTotals.add(e)

			continue
		}

		tree.Reported = append(tree.Reported, e)
		tree.ReportedTotals.add(e)
	}

	return tree
}

// Total returns the combined totals of reported and aggregated entries.
func (t *Tree) Total() Totals {
	return t.ReportedTotals.Plus(t.AggregatedTotals)
}

// DisplayPath returns the entry path relative to the working directory,
// or the absolute path when no relative path exists.
func (t *Tree) DisplayPath(e Entry) string {
	if t.workingDir == "" {
		return filepath.ToSlash(e.AbsolutePath)
	}

	rel, err := filepath.Rel(t.workingDir, e.AbsolutePath)
	if err != nil {
		return filepath.ToSlash(e.AbsolutePath)
	}

	return filepath.ToSlash(rel)
}

// String renders the tree lines followed by the total line.
// The last reported entry gets the terminal glyph, even when aggregated
// entries sort after it.
func (t *Tree) String() string {
	var b strings.Builder

	for i, e := range t.Reported {
		glyph := branchGlyph
		if i == len(t.Reported)-1 {
			glyph = lastGlyph
		}

		line := "  " + glyph + " " + t.DisplayPath(e) + " (" + FormatBytes(e.Size) + ")"
		if t.Compressed {
			line += " (" + FormatBytes(e.CompressedSize) + " gzip)"
		}

		b.WriteString(t.paint("dark_gray", line))
		b.WriteString("\n")
	}

	total := t.Total()

	b.WriteString(t.paint("cyan", totalLabel))
	b.WriteString(" " + FormatBytes(total.Size))

	if t.Compressed {
		b.WriteString(" (" + FormatBytes(total.CompressedSize) + " gzip)")
	}

	b.WriteString("\n")

	return b.String()
}

// paint wraps s in the named color when colors are enabled.
func (t *Tree) paint(color, s string) string {
	if !t.Color {
		return s
	}

	c := colorstring.Colorize{Colors: colorstring.DefaultColors}

	return c.Color("["+color+"]") + s + c.Color("[reset]")
}

// FormatBytes renders a byte count with SI units, e.g. "30 B" or "1.5 kB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}

	return humanize.Bytes(uint64(n))
}
