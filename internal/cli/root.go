// Package cli implements the hirewire CLI commands.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/config"
)

var (
	flagURL       string
	flagReplay    bool
	flagNoJournal bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "hirewire",
	Short: "Watch an AI job-application workflow live",
	Long: `hirewire connects to the job-application workflow server over its event
channel and shows what every agent is doing: the agent status table, the
progress feed and the live job search.

Run without a subcommand to open the live view.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runWatch,
}

// Execute runs the CLI and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styleError.Render("Error:"), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "event channel URL (overrides settings and "+config.URLEnv+")")
	rootCmd.PersistentFlags().BoolVar(&flagReplay, "replay", false, "connect to the local hirewire-replay server")
	rootCmd.PersistentFlags().BoolVar(&flagNoJournal, "no-journal", false, "do not record the feed in the history journal")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log to stderr instead of the log file")
	addUIFlag(rootCmd)

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}

var logFile io.Closer

// setupLogging sends component logs to ~/.hirewire/hirewire.log so they never
// interleave with the live view or the tail stream.
func setupLogging(cmd *cobra.Command, args []string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if flagVerbose {
		log.SetOutput(os.Stderr)
		return nil
	}

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	path, err := config.LogFile()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	logFile = f
	return nil
}

// Close releases the log file opened for the command.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
