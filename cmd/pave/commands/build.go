package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pave/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the given targets, or every target the build script registers",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			jobs, _ := cmd.Flags().GetInt("jobs")
			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				NoCache: noCache,
				Jobs:    jobs,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force execution")
	cmd.Flags().IntP("jobs", "j", 0, "Number of targets to build in parallel (defaults to the project setting)")
	return cmd
}
