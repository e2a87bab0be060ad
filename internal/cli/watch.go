package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hirewire/hirewire/internal/tui"
)

var flagUI string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live view",
	Long: `Open the live view of the workflow: agents, the progress feed and the job search.

With --ui auto (the default) the live view is used when stdout is a terminal;
otherwise the feed is printed line by line as with 'hirewire tail'.`,
	RunE: runWatch,
}

func init() {
	addUIFlag(watchCmd)
}

func addUIFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagUI, "ui", "auto", "output mode: auto, live or plain")
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

func defaultIsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

// useLiveView resolves the --ui flag against the output writer.
func useLiveView(mode string, stdout io.Writer) (bool, string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(stdout), "", nil
	case "live":
		if isTerminal(stdout) {
			return true, "", nil
		}
		return false, "Live view requested but stdout is not a terminal; falling back to plain output.", nil
	case "plain":
		return false, "", nil
	}
	return false, "", fmt.Errorf("invalid ui mode %q (expected auto, live or plain)", mode)
}

func runWatch(cmd *cobra.Command, args []string) error {
	live, warning, err := useLiveView(flagUI, os.Stdout)
	if err != nil {
		return err
	}
	if warning != "" {
		fmt.Fprintln(os.Stderr, styleWarning.Render(warning))
	}
	if !live {
		return runTail(cmd, args)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := openSession(connectOptions{notify: true, watch: true})
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(ctx, s)
}
