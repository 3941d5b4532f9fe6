// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"omegasync/cli/internal/config"
	"omegasync/cli/internal/dsn"
	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/extract"
	"omegasync/cli/internal/httperrors"
	"omegasync/cli/internal/logging"
	"omegasync/cli/internal/syncing"
	"omegasync/cli/internal/tablespec"
	"omegasync/cli/internal/transfer"

	"atomicgo.dev/cursor"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	syncConfigPath string
	syncDryRun     bool
	verboseSync    bool
)

// syncCmd represents the sync command that runs the full clear-and-upload
// pipeline: extract every configured table from the source database, clear
// the remote copies, then upload fresh data in chunks.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replicate all configured tables to the web application",
	Long: `The sync command extracts the configured tables from the source database,
clears their remote copies, and uploads fresh data in bounded chunks with
retry. Tables are processed strictly in order; a clear failure aborts the
run before any upload, and a chunk failure aborts the remainder of the run.

Use --dry-run to extract and chunk without touching the remote store.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseSync {
			os.Setenv("OMEGASYNC_VERBOSE", "1")
		}

		startAt := time.Now()

		path, err := config.Resolve(syncConfigPath)
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
		apiKey, err := resolveAPIKey(cfg)
		if err != nil {
			pterm.Println("⚠️  " + err.Error())
			return err
		}

		normalizedDSN, err := dsn.Parse(rawDSN)
		if err != nil {
			pterm.Error.Println("Invalid database connection string.")
			pterm.Println("   " + err.Error())
			return err
		}

		// Cancellation closes the pool and exits non-zero; clears and
		// uploads already committed remotely cannot be rolled back.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Database:   ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(deriveDBName(normalizedDSN)))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Connection: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(logging.Mask(normalizedDSN)))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ API Server: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(cfg.API.URL))
		pterm.Println()

		stopSpin := startInlineSpinner(os.Stdout, "Connecting to database...", spinnerFrames, 120*time.Millisecond)
		pool, err := pgxpool.New(ctx, normalizedDSN)
		if err == nil {
			err = pool.Ping(ctx)
		}
		stopSpin()
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			connErr := errors.Wrap(errors.DBUnreachable, "database connection failed", err)
			pterm.Error.Println(logging.PresentError("database", connErr))
			pterm.Println("   Please check that the database server is running and the")
			pterm.Println("   connection string and credentials are correct.")
			return connErr
		}
		defer pool.Close()
		pterm.Success.Println("Database connection successful")

		var runLog *logging.RunLog
		if cfg.LogFile != "" {
			runLog = logging.NewRunLog(cfg.LogFile)
			defer runLog.Close()
		}
		runLog.Printf("sync started (dry_run=%v)", syncDryRun)

		client := transfer.New(cfg.API.URL, apiKey, cfg.RetryPolicy())

		cursor.Hide()
		defer cursor.Show()

		orch := syncing.New(
			extract.New(pool),
			client,
			newRenderer(runLog),
			syncing.Options{
				ChunkSize:          cfg.ChunkSize,
				SkipClearWhenEmpty: cfg.SkipClearWhenEmpty,
				DryRun:             syncDryRun,
			},
		)
		res := orch.Run(ctx, tablespec.All())

		elapsed := time.Since(startAt).Round(time.Millisecond)
		pterm.Println()
		if res.State == syncing.RunSucceeded {
			notifyCompletion(elapsed, res)
			return nil
		}
		notifyFailure(elapsed, res)
		if err := res.FirstErr(); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("sync cancelled: %w", ctx.Err())
			}
			switch errors.KindOf(err) {
			case errors.ClearFailed, errors.UploadFailed, errors.TransportFailed:
				return httperrors.FormatNetworkError(err, "synchronizing data")
			}
			return err
		}
		return fmt.Errorf("sync failed")
	},
}

// notifyCompletion renders the success epilogue.
func notifyCompletion(elapsed time.Duration, res syncing.RunResult) {
	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Sync Completed")
	details := fmt.Sprintf("Duration: %s\nTables synchronized: %d\nRecords: %s",
		elapsed, len(res.Tables), groupDigits(res.TotalRecords()))
	box := pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details)
	pterm.Println(box)
}

// notifyFailure renders the failure epilogue with per-table outcomes and
// common remediations.
func notifyFailure(elapsed time.Duration, res syncing.RunResult) {
	title := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Sync Failed")
	details := fmt.Sprintf("Duration: %s", elapsed)
	for _, t := range res.Failed() {
		details += fmt.Sprintf("\n%s: %s", t.Table, logging.Mask(t.Err.Error()))
	}
	box := pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details)
	pterm.Println(box)
	pterm.Println()
	pterm.Println("Common solutions:")
	pterm.Println("  • Check the internet connection")
	pterm.Println("  • Verify the API server is running")
	pterm.Println("  • Check configuration settings and credentials")
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncConfigPath, "config", "", "Path to config.json (default: $OMEGASYNC_CONFIG, XDG config dir, working directory)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Extract and chunk without issuing remote clears or uploads")
	syncCmd.Flags().BoolVarP(&verboseSync, "verbose", "v", false, "Enable verbose debug output")
}
