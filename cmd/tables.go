// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"omegasync/cli/internal/tablespec"
)

// tablesCmd represents the tables command for displaying the synchronized
// table set: logical names, remote names, endpoints, and field renames.
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Show the configured table set",
	Long: `The tables command lists every table the sync replicates, with its remote
name, the clear and chunk endpoints it uses, and any field renames applied
on the way out. Table-specific behavior is data, not code; this is that data.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		rows := pterm.TableData{
			{"Table", "Remote name", "Clear endpoint", "Chunk endpoint", "Renames"},
		}
		for _, spec := range tablespec.All() {
			renames := "-"
			for from, to := range spec.Renames {
				if renames == "-" {
					renames = ""
				} else {
					renames += ", "
				}
				renames += from + " → " + to
			}
			rows = append(rows, []string{spec.Name, spec.RemoteName, spec.ClearPath, spec.ChunkPath, renames})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
