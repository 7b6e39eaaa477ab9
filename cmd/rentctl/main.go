// Command rentctl is the operator console for CloudRent: it runs expiry sweeps,
// reclaims single rentals and works through recorded inconsistencies.
package main

import (
	"fmt"
	"os"

	"cloudrent/cmd/rentctl/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
