package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pave/internal/core/domain"
)

func (c *CLI) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <file.pv>",
		Short: "Evaluate a function of a source file at compile time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, _ := cmd.Flags().GetString("entry")
			artifact, err := c.app.Eval(cmd.Context(), args[0], entry)
			if err != nil {
				return err
			}

			if !artifact.Evaluated {
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "%s is not known at compile time\n", entry)
				return err
			}
			if artifact.Value != nil {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", artifact.Value)
			}
			return err
		},
	}
	cmd.Flags().String("entry", domain.EntryPoint, "Function to evaluate")
	return cmd
}
