// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"

	"github.com/pterm/pterm"

	"omegasync/cli/internal/logging"
	"omegasync/cli/internal/syncing"
)

// renderer turns orchestrator events into terminal output and mirrors them
// to the run log. It is a pure observer: nothing here feeds back into the
// sync's control flow.
type renderer struct {
	log *logging.RunLog
	bar *pterm.ProgressbarPrinter

	clearHeaderShown  bool
	uploadHeaderShown bool
}

func newRenderer(log *logging.RunLog) *renderer {
	return &renderer{log: log}
}

// Publish implements syncing.Reporter.
func (r *renderer) Publish(ev syncing.Event) {
	switch ev.Type {
	case syncing.EventRunStarted:
		pterm.DefaultSection.Println("Fetching data from source database")
		r.log.Printf("run started: %d tables", ev.Tables)

	case syncing.EventTableExtracted:
		pterm.Success.Printf("%s: %s records\n", ev.Table, groupDigits(ev.Records))
		r.log.Printf("extracted %s: %d records", ev.Table, ev.Records)

	case syncing.EventExtractFailed:
		pterm.Error.Printf("%s: extraction failed: %s\n", ev.Table, logging.Mask(ev.Err.Error()))
		r.log.Printf("extract failed %s: %v", ev.Table, ev.Err)

	case syncing.EventClearStarted:
		if !r.clearHeaderShown {
			pterm.DefaultSection.Println("Clearing existing remote data")
			r.clearHeaderShown = true
		}

	case syncing.EventTableCleared:
		pterm.Success.Printf("%s cleared\n", ev.Table)
		r.log.Printf("cleared %s", ev.Table)

	case syncing.EventClearSkipped:
		pterm.Info.Printf("%s: no local data, clear skipped\n", ev.Table)
		r.log.Printf("clear skipped for %s (empty source, legacy policy)", ev.Table)

	case syncing.EventClearFailed:
		pterm.Error.Printf("failed to clear %s\n", ev.Table)
		r.log.Printf("clear failed %s: %v", ev.Table, ev.Err)

	case syncing.EventUploadStarted:
		if !r.uploadHeaderShown {
			pterm.DefaultSection.Println("Uploading new data (chunked)")
			r.uploadHeaderShown = true
		}
		pterm.Printf("Uploading %s %s...\n", groupDigits(ev.Records), ev.Table)
		r.bar, _ = pterm.DefaultProgressbar.
			WithTotal(ev.ChunkTotal).
			WithTitle(ev.Table).
			WithRemoveWhenDone(true).
			Start()
		r.log.Printf("uploading %s: %d records in %d chunks", ev.Table, ev.Records, ev.ChunkTotal)

	case syncing.EventChunkUploaded:
		if r.bar != nil {
			r.bar.Increment()
		}
		r.log.Printf("uploaded chunk %d/%d of %s", ev.ChunkIndex, ev.ChunkTotal, ev.Table)

	case syncing.EventChunkFailed:
		r.stopBar()
		pterm.Error.Printf("failed to upload chunk %d/%d of %s\n", ev.ChunkIndex, ev.ChunkTotal, ev.Table)
		r.log.Printf("chunk %d/%d of %s failed: %v", ev.ChunkIndex, ev.ChunkTotal, ev.Table, ev.Err)

	case syncing.EventTableDone:
		r.stopBar()
		pterm.Success.Printf("%s uploaded successfully\n", ev.Table)
		r.log.Printf("table done: %s (%d records)", ev.Table, ev.Records)

	case syncing.EventRunFinished:
		r.stopBar()
		r.log.Printf("run finished: %s", ev.RunState)
	}
}

func (r *renderer) stopBar() {
	if r.bar != nil {
		r.bar.Stop()
		r.bar = nil
	}
}

// groupDigits renders n with thousands separators, e.g. 1250 -> "1,250".
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
