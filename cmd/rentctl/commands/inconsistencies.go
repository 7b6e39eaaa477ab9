package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"cloudrent/cmd/rentctl/wire"

	"github.com/spf13/cobra"
)

// Inconsistencies returns the command listing sagas whose rollback failed.
func Inconsistencies() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "inconsistencies",
		Aliases: []string{"inc"},
		Short:   "List provisionings that may have leaked cloud resources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConsole(func(c *wire.Console) error {
				list, err := c.Inconsistencies.List(cmd.Context(), all)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSAGA\tRENTAL\tNODE\tFAILED STEP\tRESOLVED\tCAUSE")
				for _, inc := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\t%s\n",
						inc.Id, inc.SagaID, inc.RentalName, inc.NodeName, inc.FailedStep, inc.Resolved == 1, inc.Cause)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include resolved records")

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve ID",
		Short: "Mark an inconsistency as cleaned up by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return withConsole(func(c *wire.Console) error {
				if err := c.Inconsistencies.Resolve(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "resolved %d\n", id)
				return nil
			})
		},
	})
	return cmd
}
