package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/state"
)

var (
	flagStatusTimeout time.Duration
	flagStatusSettle  time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Connect once and print the agent status table",
	Long: `Connect to the event channel, wait for the server to acknowledge the session,
collect events for a short settle period and print the agent status table.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&flagStatusTimeout, "timeout", 5*time.Second, "how long to wait for the server to acknowledge")
	statusCmd.Flags().DurationVar(&flagStatusSettle, "settle", 500*time.Millisecond, "how long to collect events after connecting")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := openSession(connectOptions{noJournal: true})
	if err != nil {
		return err
	}
	defer cleanup()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(runCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	connected := waitConnected(ctx, s.Store, flagStatusTimeout)
	if connected && flagStatusSettle > 0 {
		select {
		case <-time.After(flagStatusSettle):
		case <-ctx.Done():
		}
	}

	out := cmd.OutOrStdout()
	printStatus(out, s.Settings().Server.URL, connected, s.Store)
	if !connected {
		return fmt.Errorf("server did not acknowledge within %s (channel %s)", flagStatusTimeout, s.ChannelState())
	}
	return nil
}

// waitConnected blocks until the store reports an acknowledged session or the timeout passes.
func waitConnected(ctx context.Context, store *state.Store, timeout time.Duration) bool {
	changes := store.Subscribe("status")
	defer store.Unsubscribe("status")

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for !store.Connected() {
		select {
		case <-changes:
		case <-deadline.C:
			return store.Connected()
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func printStatus(w io.Writer, url string, connected bool, store *state.Store) {
	conn := styleWarning.Render("not connected")
	if connected {
		conn = styleSuccess.Render("connected")
	}
	fmt.Fprintf(w, "  %s %s %s\n\n", styleBrand.Render("hirewire"), styleHint.Render(url), conn)

	active := store.ActiveAgent()
	for _, rec := range store.Agents() {
		marker := " "
		if rec.Name == active {
			marker = "●"
		}
		line := fmt.Sprintf("  %s %-15s %s", marker, rec.Name.DisplayName(), agentStyle(rec.Status).Render(fmt.Sprintf("%-10s", rec.Status)))
		if detail := agentDetail(rec); detail != "" {
			line += " " + styleHint.Render(detail)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n  %s %d", styleLabel.Render("Feed entries"), store.FeedLen())
	if js := store.JobStream(); js != nil {
		fmt.Fprintf(w, "   %s %d results, %d unique", styleLabel.Render("Job search"), js.TotalJobs(), len(js.UniqueJobs))
	}
	fmt.Fprintln(w)
}

func agentDetail(rec models.AgentStatusRecord) string {
	detail := ""
	if rec.CurrentStep != nil && rec.TotalSteps != nil {
		detail = fmt.Sprintf("[%d/%d] ", *rec.CurrentStep, *rec.TotalSteps)
	}
	if rec.CurrentAction != nil {
		detail += *rec.CurrentAction
	}
	if !rec.Drafts.Empty() {
		detail += " (drafts ready)"
	}
	return detail
}
