package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pave/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pave version %s (toolchain %s)\n", build.Version, build.ToolchainVersion)
			return err
		},
	}
}
