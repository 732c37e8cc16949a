// Command umactl drives the roster store from a terminal.
package main

import (
	"os"

	"github.com/latoulicious/umaroster/internal/bootstrap"
)

func main() {
	if err := newRootCmd(bootstrap.New).Execute(); err != nil {
		os.Exit(1)
	}
}
