// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"time"

	"omegasync/cli/internal/config"
	"omegasync/cli/internal/dsn"
	"omegasync/cli/internal/httperrors"
	"omegasync/cli/internal/logging"
	"omegasync/cli/internal/transfer"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkConfigPath string

// checkCmd represents the check command, a connectivity probe run before a
// real sync: it verifies the source database answers a ping and the sync API
// answers its version endpoint. Nothing is cleared or uploaded.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify database and API connectivity without syncing",
	Long: `The check command verifies both legs of a sync without transferring data:
it loads the configuration, pings the source database, and probes the sync
API. The configured connection is displayed with credentials masked.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		path, err := config.Resolve(checkConfigPath)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			pterm.Error.Println(logging.PresentError("configuration", err))
			return err
		}

		rawDSN, err := resolveDSN(cfg)
		if err != nil {
			pterm.Println("⚠️  " + err.Error())
			return err
		}
		normalizedDSN, err := dsn.Parse(rawDSN)
		if err != nil {
			pterm.Println("❌ " + err.Error())
			return err
		}
		apiKey, err := resolveAPIKey(cfg)
		if err != nil {
			pterm.Println("⚠️  " + err.Error())
			return err
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Configured Connection")).
			WithPadding(1).
			Println("Database: " + logging.Mask(normalizedDSN) + "\nAPI:      " + cfg.API.URL)
		pterm.Println()

		stopSpin := startInlineSpinner(os.Stdout, "Pinging database...", spinnerFrames, 120*time.Millisecond)
		pool, err := pgxpool.New(ctx, normalizedDSN)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
		}
		stopSpin()
		if err != nil {
			pterm.Error.Println("Database is unreachable: " + logging.Mask(err.Error()))
			return err
		}
		pterm.Success.Println("Database reachable")

		stopSpin = startInlineSpinner(os.Stdout, "Probing API server...", spinnerFrames, 120*time.Millisecond)
		pingErr := transfer.New(cfg.API.URL, apiKey, cfg.RetryPolicy()).Ping(ctx)
		stopSpin()
		if pingErr != nil {
			return httperrors.FormatNetworkError(pingErr, "probing "+httperrors.ExtractHostFromURL(cfg.API.URL))
		}
		pterm.Success.Println("API server reachable")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to config.json (default: $OMEGASYNC_CONFIG, XDG config dir, working directory)")
}
