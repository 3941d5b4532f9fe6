// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import (
	"context"
	"time"

	"omegasync/cli/internal/chunk"
	"omegasync/cli/internal/record"
	"omegasync/cli/internal/tablespec"
	"omegasync/cli/internal/transform"
)

// Extractor produces a table's records from the source database.
type Extractor interface {
	Extract(ctx context.Context, spec tablespec.TableSpec) ([]record.Record, error)
}

// Transfer performs the remote clear and upload operations.
type Transfer interface {
	Clear(ctx context.Context, spec tablespec.TableSpec) error
	Upload(ctx context.Context, spec tablespec.TableSpec, chunkIndex int, records []record.Record) error
}

// Options tune a run without changing its sequencing guarantees.
type Options struct {
	// ChunkSize bounds records per upload call.
	ChunkSize int
	// SkipClearWhenEmpty restores the legacy policy of leaving a remote
	// table untouched when the source table has no rows. The default
	// (false) clears every listed table so stale remote rows cannot
	// outlive an emptied source table.
	SkipClearWhenEmpty bool
	// DryRun extracts, transforms and chunks but issues no remote calls.
	DryRun bool
}

// Orchestrator sequences one sync run. Tables are processed strictly in
// order, one at a time: the clear-before-upload guarantee is per table and
// the remote API documents no concurrency semantics, so nothing here runs
// concurrently.
type Orchestrator struct {
	extractor Extractor
	transfer  Transfer
	reporter  Reporter
	opts      Options
}

// New creates an orchestrator. A nil reporter is replaced with NopReporter.
func New(extractor Extractor, transfer Transfer, reporter Reporter, opts Options) *Orchestrator {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = chunk.DefaultSize
	}
	return &Orchestrator{
		extractor: extractor,
		transfer:  transfer,
		reporter:  reporter,
		opts:      opts,
	}
}

// tableRun carries one table's records and result through the phases.
type tableRun struct {
	spec    tablespec.TableSpec
	records []record.Record
	result  TableResult
}

// Run executes the full pipeline over the given specs and returns the
// aggregated result. Extraction failures are per-table recoverable; a clear
// failure aborts the run before any upload is issued; an upload failure
// aborts the run at the failing table, because that table's remote state is
// now an unknown mix of uploaded and missing rows.
func (o *Orchestrator) Run(ctx context.Context, specs []tablespec.TableSpec) RunResult {
	res := RunResult{State: RunRunning, Started: time.Now()}
	o.reporter.Publish(Event{Type: EventRunStarted, Tables: len(specs)})

	tables := o.extractAll(ctx, specs)

	if !o.opts.DryRun {
		if o.clearAll(ctx, tables) {
			o.uploadAll(ctx, tables)
		}
	} else {
		// Nothing to transfer: every extracted table counts as done.
		for _, t := range tables {
			if t.result.State != TableFailed {
				t.result.State = TableDone
			}
		}
	}

	res.State = RunSucceeded
	for _, t := range tables {
		if t.result.State != TableDone {
			res.State = RunFailed
		}
		res.Tables = append(res.Tables, t.result)
	}
	res.Finished = time.Now()
	o.reporter.Publish(Event{Type: EventRunFinished, RunState: res.State})
	return res
}

// extractAll runs phase 1: extract and transform every table. A failed
// extraction marks only that table; the remaining tables are still
// extracted.
func (o *Orchestrator) extractAll(ctx context.Context, specs []tablespec.TableSpec) []*tableRun {
	tables := make([]*tableRun, 0, len(specs))
	for _, spec := range specs {
		t := &tableRun{spec: spec, result: TableResult{Table: spec.Name, State: TablePending}}
		tables = append(tables, t)

		records, err := o.extractor.Extract(ctx, spec)
		if err != nil {
			t.result.State = TableFailed
			t.result.Err = err
			o.reporter.Publish(Event{Type: EventExtractFailed, Table: spec.Name, Err: err})
			continue
		}
		t.result.State = TableExtracted
		t.result.RecordsAttempted = len(records)

		transform.Apply(spec, records)
		t.records = records
		t.result.State = TableTransformed
		o.reporter.Publish(Event{Type: EventTableExtracted, Table: spec.Name, Records: len(records)})
	}
	return tables
}

// clearAll runs phase 2: clear every surviving table before any upload
// starts. A single clear failure aborts immediately; proceeding to uploads
// after a partial clear would leave the remote store mixing old and new data
// across tables. Returns false when the run must stop.
func (o *Orchestrator) clearAll(ctx context.Context, tables []*tableRun) bool {
	for _, t := range tables {
		if t.result.State == TableFailed {
			continue
		}
		if len(t.records) == 0 && o.opts.SkipClearWhenEmpty {
			o.reporter.Publish(Event{Type: EventClearSkipped, Table: t.spec.Name})
			continue
		}
		o.reporter.Publish(Event{Type: EventClearStarted, Table: t.spec.Name})
		if err := o.transfer.Clear(ctx, t.spec); err != nil {
			t.result.State = TableFailed
			t.result.Err = err
			o.reporter.Publish(Event{Type: EventClearFailed, Table: t.spec.Name, Err: err})
			return false
		}
		t.result.State = TableCleared
		t.result.Cleared = true
		o.reporter.Publish(Event{Type: EventTableCleared, Table: t.spec.Name})
	}
	return true
}

// uploadAll runs phase 3: chunked uploads, strictly in order. A chunk
// failure abandons the failing table's remaining chunks and every later
// table, mirroring the clear-phase policy of stopping at the first
// structural failure instead of leaving a mixed result silently.
func (o *Orchestrator) uploadAll(ctx context.Context, tables []*tableRun) {
	for _, t := range tables {
		if t.result.State == TableFailed {
			continue
		}
		chunks := chunk.Split(t.records, o.opts.ChunkSize)
		if len(chunks) == 0 {
			t.result.State = TableDone
			o.reporter.Publish(Event{Type: EventTableDone, Table: t.spec.Name, Records: 0})
			continue
		}

		t.result.State = TableUploading
		o.reporter.Publish(Event{Type: EventUploadStarted, Table: t.spec.Name, Records: len(t.records), ChunkTotal: len(chunks)})
		for i, ch := range chunks {
			if err := o.transfer.Upload(ctx, t.spec, i+1, ch); err != nil {
				t.result.State = TableFailed
				t.result.Err = err
				o.reporter.Publish(Event{Type: EventChunkFailed, Table: t.spec.Name, ChunkIndex: i + 1, ChunkTotal: len(chunks), Err: err})
				return
			}
			t.result.RecordsUploaded += len(ch)
			o.reporter.Publish(Event{Type: EventChunkUploaded, Table: t.spec.Name, ChunkIndex: i + 1, ChunkTotal: len(chunks)})
		}
		t.result.State = TableDone
		// Records are no longer needed once the remote store confirmed them.
		t.records = nil
		o.reporter.Publish(Event{Type: EventTableDone, Table: t.spec.Name, Records: t.result.RecordsUploaded})
	}
}
