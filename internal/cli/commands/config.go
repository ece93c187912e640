package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/client"
	"github.com/tingxin/ai-customer-assistant/internal/cli/config"
	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
)

// configCmd groups configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "view or change kbctl configuration",
	Long: `View or change the kbctl configuration stored in ~/.kbctl/config.yaml.

Every key can also be overridden with a KBCTL_ environment variable,
e.g. KBCTL_SERVER or KBCTL_WAIT_TIMEOUT.`,
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server <url>",
	Short: "set the backend address",
	Example: `  $ kbctl config set-server http://localhost:8000
  $ kbctl config set-server 10.0.0.2:8000`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetServer,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

func init() {
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configViewCmd)

	configSetServerCmd.SilenceUsage = true
	configViewCmd.SilenceUsage = true
}

func runConfigSetServer(cmd *cobra.Command, args []string) error {
	// only the file is updated, so flag and env overrides are not applied here
	cfg, err := config.Load(configFlag)
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	// reuse the client's normalization so the stored value is what requests will use
	api, err := client.NewAPIClient(args[0])
	if err != nil {
		ui.PrintError("invalid server address %q: %v", args[0], err)
		return fmt.Errorf("invalid server")
	}

	cfg.Server = api.Server()
	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	ui.PrintSuccess("Server set to %s", cfg.Server)
	ui.PrintInfo("Saved to %s", cfg.Path())
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	view := map[string]interface{}{
		"server":  cfg.Server,
		"timeout": cfg.Timeout.String(),
		"log": map[string]interface{}{
			"level":  cfg.Log.Level,
			"format": cfg.Log.Format,
			"output": cfg.Log.Output,
		},
		"wait": map[string]interface{}{
			"interval": cfg.Wait.Interval.String(),
			"timeout":  cfg.Wait.Timeout.String(),
		},
	}
	ui.PrintBold("# %s", cfg.Path())
	return ui.WriteYAML(cmd.OutOrStdout(), view)
}
