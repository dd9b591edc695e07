package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/pave/internal/core/domain"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the targets registered by the build script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := c.app.Targets(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, info := range infos {
				line := fmt.Sprintf("%s %s", info.Name, info.Kind)
				switch {
				case info.Kind == domain.KindLibrary:
					line += " [" + strings.Join(info.Exports, ", ") + "]"
				case info.UpToDate:
					line += " (up to date)"
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
