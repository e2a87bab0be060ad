package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/buildinfo"
	"github.com/hirewire/hirewire/internal/updater"
)

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		printVersion(out, "hirewire")
		if !flagVersionCheck {
			return nil
		}
		result, err := updater.NewChecker().Check(cmd.Context())
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		printUpdate(out, result)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check GitHub Releases for a newer version")
}

func printUpdate(w io.Writer, r *updater.UpdateResult) {
	fmt.Fprintln(w)
	switch {
	case r.LatestVersion == "":
		fmt.Fprintf(w, "  %s\n", styleHint.Render("No releases published yet."))
	case r.Available:
		fmt.Fprintf(w, "  %s %s → %s %s\n",
			styleWarning.Render("Update available:"),
			r.CurrentVersion,
			styleVersion.Render(r.LatestVersion),
			styleHint.Render("("+humanize.Time(r.PublishedAt)+")"))
		fmt.Fprintf(w, "  %s\n", styleHint.Render(r.ReleaseURL))
	default:
		fmt.Fprintf(w, "  %s\n", styleSuccess.Render("✓ Up to date"))
	}
}

// printVersion writes the build metadata injected via ldflags.
func printVersion(w io.Writer, binary string) {
	fmt.Fprintf(w, "  %s %s %s\n",
		styleBrand.Render(binary),
		styleVersion.Render(buildinfo.Version),
		styleHint.Render("("+buildinfo.Codename+")"),
	)
	fmt.Fprintf(w, "    %s  %s\n", styleLabel.Render("Commit"), styleValue.Render(buildinfo.CommitHash))
	fmt.Fprintf(w, "    %s   %s\n", styleLabel.Render("Built"), styleValue.Render(buildinfo.BuildDate))
	fmt.Fprintf(w, "    %s %s\n", styleLabel.Render("OS/Arch"), styleValue.Render(runtime.GOOS+"/"+runtime.GOARCH))
	fmt.Fprintf(w, "    %s      %s\n", styleLabel.Render("Go"), styleValue.Render(runtime.Version()))
}
