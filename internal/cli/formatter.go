package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/idelchi/fstree/internal/fstree"
)

// fileReport is the JSON form of a reported entry.
type fileReport struct {
	Path           string `json:"path"`
	RelativePath   string `json:"relative_path"`
	Size           int64  `json:"size"`
	CompressedSize int64  `json:"compressed_size,omitempty"`
}

// groupReport is the JSON form of an aggregated group.
type groupReport struct {
	Files int `json:"files"`
	fstree.Totals
}

// report is the JSON document printed by PrintJSON.
type report struct {
	Files      []fileReport  `json:"files"`
	Aggregated groupReport   `json:"aggregated"`
	Total      fstree.Totals `json:"total"`
	Compressed bool          `json:"compressed"`
}

// PrintJSON outputs the tree in JSON format.
func PrintJSON(tree *fstree.Tree, writer io.Writer) error {
	doc := report{
		Files:      make([]fileReport, 0, len(tree.Reported)),
		Aggregated: groupReport{Files: len(tree.Aggregated), Totals: tree.AggregatedTotals},
		Total:      tree.Total(),
		Compressed: tree.Compressed,
	}

	for _, e := range tree.Reported {
		doc.Files = append(doc.Files, fileReport{
			Path:           tree.DisplayPath(e),
			RelativePath:   e.RelativePath,
			Size:           e.Size,
			CompressedSize: e.CompressedSize,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintText outputs the tree in its human-readable form.
func PrintText(tree *fstree.Tree, writer io.Writer) error {
	_, err := io.WriteString(writer, tree.String())

	return err
}
