// Package commands holds the rentctl cobra commands.
package commands

import (
	"cloudrent/cmd/rentctl/wire"
	"cloudrent/pkg/config"
	"cloudrent/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var confPath string

// loadConfig and openConsole are replaced in tests.
var (
	loadConfig  = config.NewConfig
	openConsole = func(conf *viper.Viper) (*wire.Console, func(), error) {
		return wire.NewWire(conf, log.NewLog(conf))
	}
)

// Root returns the rentctl command tree.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rentctl",
		Short:         "Operate the CloudRent rental service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&confPath, "conf", "config/local.yml", "config path, eg: --conf ./config/prod.yml")

	cmd.AddCommand(Sweep())
	cmd.AddCommand(Reclaim())
	cmd.AddCommand(Inconsistencies())
	cmd.AddCommand(Token())
	return cmd
}

// withConsole runs fn against a freshly wired console and closes it afterwards.
func withConsole(fn func(c *wire.Console) error) error {
	console, cleanup, err := openConsole(loadConfig(confPath))
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(console)
}
