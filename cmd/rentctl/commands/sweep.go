package commands

import (
	"fmt"
	"strings"
	"time"

	v1 "cloudrent/api/v1"
	"cloudrent/cmd/rentctl/wire"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Sweep returns the command that reclaims every expired rental once.
func Sweep() *cobra.Command {
	var now string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Reclaim every rental whose end date has passed",
		Long: `Run one expiry sweep outside the schedule.

A rental is expired when its end date lies strictly before the day of --now.
Failures are reported and left for the next sweep. The sweep takes the same lock
as the server's scheduled one and is refused while that is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at := time.Now()
			if now != "" {
				t, err := time.Parse(v1.DateLayout, now)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				at = t
			}
			return withConsole(func(c *wire.Console) error {
				result, err := c.Expiry.SweepAt(cmd.Context(), at)
				if err != nil {
					return err
				}
				c.Logger.Info("manual sweep finished",
					zap.Int("reclaimed", len(result.Reclaimed)), zap.Int("failed", len(result.Failed)))
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "reclaimed: %s\n", strings.Join(result.Reclaimed, ", "))
				if len(result.Failed) > 0 {
					fmt.Fprintf(out, "failed:    %s\n", strings.Join(result.Failed, ", "))
					return fmt.Errorf("%d rentals could not be reclaimed", len(result.Failed))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "sweep as of this day (YYYY-MM-DD, default: today)")
	return cmd
}
