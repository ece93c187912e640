package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
)

// listOutput describes one rendering of a list for every --output format
type listOutput struct {
	value       interface{}
	table       func() string
	xlsx        func(io.Writer) error
	defaultFile string
}

// addOutputFlags registers -o/--output and --file on a list command
func addOutputFlags(cmd *cobra.Command, format, file *string) {
	cmd.Flags().StringVarP(format, "output", "o", "table", "Output format: table, json, yaml, xlsx")
	cmd.Flags().StringVar(file, "file", "", "Destination file for xlsx output")
}

// emit writes out in the requested format
func emit(cmd *cobra.Command, format, file string, out listOutput) error {
	f, err := ui.ParseFormat(format)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid output format")
	}

	w := cmd.OutOrStdout()
	switch f {
	case ui.FormatJSON:
		return ui.WriteJSON(w, out.value)
	case ui.FormatYAML:
		return ui.WriteYAML(w, out.value)
	case ui.FormatXLSX:
		if file == "" {
			file = out.defaultFile
		}
		fh, err := os.Create(file)
		if err != nil {
			ui.PrintError("failed to create %s: %v", file, err)
			return fmt.Errorf("export failed")
		}
		if err := out.xlsx(fh); err != nil {
			fh.Close()
			ui.PrintError("failed to export: %v", err)
			return fmt.Errorf("export failed")
		}
		if err := fh.Close(); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		ui.PrintSuccess("Exported to %s", file)
		return nil
	default:
		ui.Println(out.table())
		return nil
	}
}
