package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/fstree/internal/fstree"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func logic(cmd *cobra.Command, s settings) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	log := newLogger(stderr, s.debug)
	s.options.Logger = &log

	enableProgress := s.output != "json" &&
		!s.debug &&
		stderr == os.Stderr &&
		isTerminal(os.Stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Measuring… %d files, %s", files, fstree.FormatBytes(bytes))
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	tree, err := fstree.Build(cmd.Context(), s.options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if tree == nil {
		log.Debug().Msg("report disabled")

		return nil
	}

	switch s.output {
	case "json":
		return PrintJSON(tree, stdout)
	default:
		tree.Color = s.color == "always" || (s.color == "auto" && stdout == os.Stdout && isTerminal(os.Stdout))

		return PrintText(tree, stdout)
	}
}
