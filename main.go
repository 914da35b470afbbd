// Command fstree prints a size-annotated tree of the files in a directory.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/fstree/internal/cli"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fstree:", err)
		os.Exit(1)
	}
}
