package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"probe/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show probe build fingerprints",
	RunE: func(cmd *cobra.Command, _ []string) error {
		showHash := versionShowHash || versionShowFull
		showDate := versionShowDate || versionShowFull
		return printVersion(cmd.OutOrStdout(), strings.ToLower(versionFormat), showHash, showDate)
	},
}

func printVersion(out io.Writer, format string, showHash, showDate bool) error {
	payload := versionPayload{Tool: "probe", Version: version.Version}
	if showHash && version.GitCommit != "" {
		payload.GitCommit = version.GitCommit
	}
	if showDate && version.BuildDate != "" {
		payload.BuildDate = version.BuildDate
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		if _, err := fmt.Fprintf(out, "probe %s\n", payload.Version); err != nil {
			return err
		}
		if payload.GitCommit != "" {
			if _, err := fmt.Fprintf(out, "commit: %s\n", payload.GitCommit); err != nil {
				return err
			}
		}
		if payload.BuildDate != "" {
			if _, err := fmt.Fprintf(out, "built:  %s\n", payload.BuildDate); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid --format value %q (want pretty|json)", format)
	}
}
