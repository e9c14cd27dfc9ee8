package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordseq/internal/output"
	"github.com/Aman-CERP/wordseq/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput, shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show which wordseq build is running",
		Long: `Show the wordseq release, the commit it was built from, the build
date, and the Go toolchain and platform. Use --short in scripts that only
need the release string, or --json for bug reports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			switch {
			case shortOutput:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			case jsonOutput:
				return writeJSON(cmd.OutOrStdout(), info)
			}

			out := output.NewStyled(cmd.OutOrStdout(), noColor(cmd))
			out.Header("wordseq " + info.Version)
			out.KeyValue("Commit", 9, info.Commit)
			out.KeyValue("Built", 9, info.Date)
			out.KeyValue("Go", 9, info.GoVersion)
			out.KeyValue("Platform", 9, info.OS+"/"+info.Arch)
			return nil
		},
	}

	cmd.Flags().BoolVar(&shortOutput, "short", false, "Print only the release string (wins over --json)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print build info as JSON")

	return cmd
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
