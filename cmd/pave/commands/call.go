package commands

import "github.com/spf13/cobra"

func (c *CLI) newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <library> <function> [args...]",
		Short: "Call a library export registered by the build script",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Call(cmd.Context(), args[0], args[1], args[2:])
		},
	}
}
