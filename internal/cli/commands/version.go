package commands

import (
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/spf13/cobra"
)

// VersionInfo carries the build identity stamped in at link time.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info VersionInfo) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display Sentinelle version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			mode := output.Mode(cfg.Format)
			if format != "" {
				mode = output.Mode(format)
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}

			r.Printf("Sentinelle v%s\n", info.Version)
			if info.GitCommit != "" {
				r.Printf("Commit: %s\n", info.GitCommit)
			}
			if info.BuildDate != "" {
				r.Printf("Built: %s\n", info.BuildDate)
			}
			r.Println("Directory tree naming auditor")
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json")

	return cmd
}
