package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hirewire/hirewire/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change global settings",
	Long: `Show or change the global settings stored in ~/.hirewire/settings.yaml.

Values set through ` + config.URLEnv + ` or --url are shown as they apply to this run
but are never written back.`,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := loadEffectiveSettings()
	if err != nil {
		return err
	}
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s %s\n\n", styleBrand.Render("Settings"), styleHint.Render(path))
	for _, key := range config.SettingKeys {
		value, err := config.GetSetting(settings, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %s %s\n", styleLabel.Render(fmt.Sprintf("%-27s", key)), styleValue.Render(value))
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	settings, err := loadEffectiveSettings()
	if err != nil {
		return err
	}
	value, err := config.GetSetting(settings, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	settings, err := config.LoadStoredSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	key, value := args[0], args[1]
	if err := config.SetSetting(settings, key, value); err != nil {
		return err
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s %s = %s\n", styleSuccess.Render("✓"), key, styleValue.Render(value))
	return nil
}
