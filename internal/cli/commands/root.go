package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
)

const version = "0.1.0"

var (
	serverFlag   string
	logLevelFlag string
	configFlag   string
)

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "kbctl",
	Short:   "Knowledge base and customer-service chat CLI",
	Version: version,
	Long: `A command-line tool for the AI customer assistant backend.
Manage knowledge bases and their documents, and chat with the assistant
from your terminal.`,
	Example: `  # Point kbctl at a backend
  $ kbctl config set-server http://localhost:8000

  # List knowledge bases
  $ kbctl kb list

  # Upload a document and wait until it is indexed
  $ kbctl doc upload <kb-id> ./manual.pdf
  $ kbctl doc process <doc-id>
  $ kbctl doc wait <doc-id>

  # Start interactive chat
  $ kbctl chat`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.Out = cmd.OutOrStdout()
		return nil
	},
}

// Execute executes the root command
func Execute(ctx context.Context) error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Backend address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.kbctl/config.yaml)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(kbCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(chatCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("kbctl version %s\n", version)
}
