package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/channel"
	"github.com/hirewire/hirewire/internal/models"
)

var flagTailNotify bool

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the progress feed as it arrives",
	RunE:  runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&flagTailNotify, "notify", false, "raise desktop notifications for approval requests")
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := &syncWriter{w: cmd.OutOrStdout()}
	s, cleanup, err := openSession(connectOptions{
		notify: flagTailNotify,
		watch:  true,
		onState: func(st channel.State) {
			if ctx.Err() != nil {
				return
			}
			if line := stateLine(st); line != "" {
				fmt.Fprintln(out, line)
			}
		},
	})
	if err != nil {
		return err
	}
	defer cleanup()

	printer := newFeedPrinter(out)
	changes := s.Store.Subscribe("tail")
	defer s.Store.Unsubscribe("tail")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()

	fmt.Fprintln(out, styleHint.Render("Streaming "+s.Settings().Server.URL+" (Ctrl+C to stop)"))
	for {
		select {
		case <-changes:
			printer.Print(s.Store.Feed())
		case err := <-errCh:
			printer.Print(s.Store.Feed())
			return err
		}
	}
}

// stateLine describes the channel transitions worth showing in a plain stream.
func stateLine(st channel.State) string {
	switch st {
	case channel.Connected:
		return styleSuccess.Render("● connected")
	case channel.Closed:
		return styleWarning.Render("⚠ disconnected, reconnecting")
	case channel.Idle:
		return styleHint.Render("○ no credential; run 'hirewire token set'")
	}
	return ""
}

// syncWriter serializes writes from the dispatch loop and the printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// feedPrinter writes feed entries once each, oldest first, and reports status changes
// of entries it already printed.
type feedPrinter struct {
	w    io.Writer
	seen map[string]models.LogStatus
}

func newFeedPrinter(w io.Writer) *feedPrinter {
	return &feedPrinter{w: w, seen: make(map[string]models.LogStatus)}
}

// Print takes the feed newest first, as the store returns it.
func (p *feedPrinter) Print(feed []models.LogEntry) {
	current := make(map[string]bool, len(feed))
	for i := len(feed) - 1; i >= 0; i-- {
		e := feed[i]
		current[e.ID] = true
		prev, ok := p.seen[e.ID]
		switch {
		case !ok:
			fmt.Fprintln(p.w, formatFeedLine(e))
		case prev != e.Status:
			fmt.Fprintf(p.w, "%s %s %s\n",
				styleHint.Render("         ↳"),
				e.Title,
				statusStyle(e.Status).Render(string(e.Status)))
		}
		p.seen[e.ID] = e.Status
	}
	for id := range p.seen {
		if !current[id] {
			delete(p.seen, id)
		}
	}
}

func formatFeedLine(e models.LogEntry) string {
	var sb strings.Builder
	sb.WriteString(styleHint.Render(e.Timestamp.Local().Format("15:04:05")))
	sb.WriteString(" ")
	if e.Icon != "" {
		sb.WriteString(e.Icon + " ")
	}
	sb.WriteString(styleLabel.Render("[" + string(e.Agent) + "]"))
	sb.WriteString(" " + styleCommand.Render(e.Title))
	if e.Description != "" {
		sb.WriteString(" " + e.Description)
	}
	sb.WriteString(" " + statusStyle(e.Status).Render(string(e.Status)))

	var extras []string
	if e.Duration != "" {
		extras = append(extras, e.Duration)
	}
	if e.Tokens != "" {
		extras = append(extras, e.Tokens)
	}
	if len(extras) > 0 {
		sb.WriteString(styleHint.Render(" (" + strings.Join(extras, ", ") + ")"))
	}
	return sb.String()
}
