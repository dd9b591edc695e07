package commands

import (
	"io"

	"github.com/spf13/cobra"
)

func (c *CLI) newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit <file.pv>",
		Short: "Compile a source file to x86-64 assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			asm, err := c.app.Emit(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), asm)
			}
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the assembly to this file instead of stdout")
	return cmd
}
