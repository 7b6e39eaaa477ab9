package commands

import (
	"fmt"

	"cloudrent/cmd/rentctl/wire"
	"cloudrent/internal/model"

	"github.com/spf13/cobra"
)

// Reclaim returns the command that tears one rental down regardless of its end date.
func Reclaim() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "reclaim NAME",
		Short: "Delete a rental and release the shared infrastructure it used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", model.RentalKindServer, model.RentalKindContainer:
			default:
				return fmt.Errorf("--kind must be %q or %q", model.RentalKindServer, model.RentalKindContainer)
			}
			return withConsole(func(c *wire.Console) error {
				if err := c.Rentals.Reclaim(cmd.Context(), kind, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reclaimed %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only reclaim a rental of this kind (server or container)")
	return cmd
}
