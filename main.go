// Package main is the entry point for the Omegasync CLI application.
// It replicates a fixed set of source database tables into the web
// application backend over HTTP.
package main

import (
	"omegasync/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
