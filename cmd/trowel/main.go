// Package main is the entry point for the trowel command.
package main

import (
	"os"

	"github.com/dshills/trowel/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(cli.NewRootCmd(version, commit, date)); err != nil {
		os.Exit(1)
	}
}
