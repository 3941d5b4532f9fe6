// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Omegasync CLI application.
// It implements subcommands for running the sync, configuring credentials, and
// checking connectivity using the Cobra CLI framework. The package handles command
// parsing, execution, and provides a terminal UI with spinners and progress
// indicators.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Omegasync CLI application.
var rootCmd = &cobra.Command{
	Use:           "omegasync",
	Short:         "Replicate source database tables to the web application",
	Long:          `Omegasync replicates a fixed set of tables from the source database into the web application over HTTP, replacing the remote copies on every run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("omegasync %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
// Any unrecoverable failure exits with a non-zero status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
