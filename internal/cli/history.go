package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/config"
	"github.com/hirewire/hirewire/internal/journal"
	"github.com/hirewire/hirewire/internal/models"
)

var (
	flagHistoryLimit    int
	flagHistorySession  string
	flagHistorySessions bool
	flagHistoryExport   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recorded feed history",
	Long: `Show log entries recorded in the history journal across sessions.

The journal keeps entries after the live view resets or exits. Use --sessions
to list recorded sessions and --session to show one of them.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyExportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List exported feed files",
	Args:  cobra.NoArgs,
	RunE:  runHistoryExports,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 50, "maximum number of entries or sessions")
	historyCmd.Flags().StringVar(&flagHistorySession, "session", "", "show only this session")
	historyCmd.Flags().BoolVar(&flagHistorySessions, "sessions", false, "list recorded sessions")
	historyCmd.Flags().BoolVar(&flagHistoryExport, "export", false, "write the selected entries to an export file")

	historyCmd.AddCommand(historyExportsCmd)
}

func openJournal() (*journal.Journal, error) {
	path, err := config.JournalFile()
	if err != nil {
		return nil, err
	}
	if !config.FileExists(path) {
		return nil, nil
	}
	j, err := journal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	j, err := openJournal()
	if err != nil {
		return err
	}
	if j == nil {
		fmt.Fprintln(out, styleHint.Render("No history recorded yet."))
		return nil
	}
	defer j.Close()

	if flagHistorySessions {
		sessions, err := j.Sessions(flagHistoryLimit)
		if err != nil {
			return err
		}
		printSessions(out, sessions)
		return nil
	}

	var entries []journal.Entry
	if flagHistorySession != "" {
		entries, err = j.SessionEntries(flagHistorySession)
	} else {
		entries, err = j.Recent(flagHistoryLimit)
	}
	if err != nil {
		return err
	}
	if flagHistoryLimit > 0 && len(entries) > flagHistoryLimit {
		entries = entries[:flagHistoryLimit]
	}

	if flagHistoryExport {
		if len(entries) == 0 {
			return fmt.Errorf("nothing to export")
		}
		_, path, err := config.ExportFeed(flagHistorySession, logEntries(entries))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s Exported %d entries to %s\n", styleSuccess.Render("✓"), len(entries), path)
		return nil
	}

	printHistory(out, entries)
	return nil
}

func logEntries(entries []journal.Entry) []models.LogEntry {
	out := make([]models.LogEntry, len(entries))
	for i, e := range entries {
		out[i] = e.LogEntry
	}
	return out
}

// printHistory prints entries oldest first, marking session boundaries.
func printHistory(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, styleHint.Render("No entries."))
		return
	}
	current := ""
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.SessionID != current {
			current = e.SessionID
			fmt.Fprintf(w, "%s %s\n", styleLabel.Render("── session"), styleHint.Render(current))
		}
		fmt.Fprintln(w, formatFeedLine(e.LogEntry))
	}
}

func printSessions(w io.Writer, sessions []journal.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, styleHint.Render("No sessions recorded."))
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			styleValue.Render(s.ID),
			styleLabel.Render(humanize.Time(s.StartedAt)),
			styleHint.Render(s.ServerURL),
			fmt.Sprintf("%s entries", humanize.Comma(int64(s.Entries))),
		)
	}
}

func runHistoryExports(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	exports, err := config.ListExports()
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Fprintln(out, styleHint.Render("No exports."))
		return nil
	}
	dir, err := config.ExportsDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  %s %s\n\n", styleBrand.Render("Exports"), styleHint.Render(dir))
	for _, e := range exports {
		fmt.Fprintf(out, "    %s  %s entries  %s\n",
			styleValue.Render(e.ExportID),
			humanize.Comma(int64(e.Entries)),
			styleHint.Render(e.SessionID),
		)
	}
	return nil
}
