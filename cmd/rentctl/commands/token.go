package commands

import (
	"fmt"
	"time"

	"cloudrent/pkg/jwt"

	"github.com/spf13/cobra"
)

// Token returns the command that signs an admin bearer token.
func Token() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token OPERATOR",
		Short: "Sign a bearer token for the admin API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}
			token, err := jwt.NewJwt(loadConfig(confPath)).GenToken(args[0], time.Now().Add(ttl))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
