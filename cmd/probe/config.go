package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"probe/internal/config"
)

var configFormat string

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "pretty", "output format (pretty|json)")
}

var configCmd = &cobra.Command{
	Use:   "config [dir]",
	Short: "Show the effective analysis settings",
	Long:  "Show the analysis settings probe would use, merging the nearest probe.toml above the given directory with built-in defaults.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startDir := "."
		if len(args) > 0 && args[0] != "" {
			startDir = args[0]
		}
		m, err := config.LoadOrDefault(startDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch configFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Manifest string          `json:"manifest,omitempty"`
				Analysis config.Settings `json:"analysis"`
			}{Manifest: m.Path, Analysis: m.Analysis})
		case "pretty":
			if m.Path != "" {
				fmt.Fprintf(out, "manifest: %s\n", m.Path)
			} else {
				fmt.Fprintln(out, "manifest: (defaults, no probe.toml found)")
			}
			fmt.Fprintf(out, "max_diagnostics:         %d\n", m.Analysis.MaxDiagnostics)
			fmt.Fprintf(out, "suppress_debug_warnings: %t\n", m.Analysis.SuppressDebugWarnings)
			fmt.Fprintf(out, "preliminary_pass:        %t\n", m.Analysis.PreliminaryPass)
			return nil
		default:
			return fmt.Errorf("invalid --format value %q (want pretty|json)", configFormat)
		}
	},
}
