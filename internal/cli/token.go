package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/config"
)

var (
	flagTokenStdin  bool
	flagTokenReveal bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the bearer credential",
	Long: `Manage the bearer credential sent to the server when the channel opens.

The credential is read from ` + config.TokenEnv + ` when set, otherwise from
~/.hirewire/` + config.CredentialFileName + `. A running live view picks up changes to the file
and reconnects with the new credential.`,
	RunE: runTokenShow,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store a bearer credential",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokenSet,
}

var tokenClearCmd = &cobra.Command{
	Use:     "clear",
	Aliases: []string{"rm"},
	Short:   "Remove the stored credential",
	Args:    cobra.NoArgs,
	RunE:    runTokenClear,
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the credential in use",
	Args:  cobra.NoArgs,
	RunE:  runTokenShow,
}

func init() {
	tokenSetCmd.Flags().BoolVar(&flagTokenStdin, "stdin", false, "read the token from stdin")
	tokenShowCmd.Flags().BoolVar(&flagTokenReveal, "reveal", false, "print the token unmasked")

	tokenCmd.AddCommand(tokenClearCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	var token string
	switch {
	case flagTokenStdin:
		t, err := readToken(cmd.InOrStdin())
		if err != nil {
			return err
		}
		token = t
	case len(args) == 1:
		token = args[0]
	default:
		return fmt.Errorf("provide a token argument or use --stdin")
	}

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	if err := config.SaveCredential(token); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s Credential saved %s\n", styleSuccess.Render("✓"), styleHint.Render(config.MaskToken(strings.TrimSpace(token))))
	if os.Getenv(config.TokenEnv) != "" {
		fmt.Fprintf(out, "  %s\n", styleWarning.Render(config.TokenEnv+" is set and takes precedence over the saved credential."))
	}
	return nil
}

func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("no token on stdin")
	}
	return token, nil
}

func runTokenClear(cmd *cobra.Command, args []string) error {
	if err := config.RemoveCredential(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s Credential removed\n", styleSuccess.Render("✓"))
	return nil
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	token, err := config.LoadCredential()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if token == "" {
		fmt.Fprintf(out, "  %s No credential. Run %s\n", styleWarning.Render("○"), styleCommand.Render("hirewire token set"))
		return nil
	}

	source := config.TokenEnv
	if os.Getenv(config.TokenEnv) == "" {
		if source, err = config.CredentialFile(); err != nil {
			return err
		}
	}
	shown := config.MaskToken(token)
	if flagTokenReveal {
		shown = token
	}
	fmt.Fprintf(out, "    %s  %s\n", styleLabel.Render("Token"), styleValue.Render(shown))
	fmt.Fprintf(out, "    %s %s\n", styleLabel.Render("Source"), styleHint.Render(source))
	return nil
}
