// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import "time"

// TableState is a table's position in the per-table state machine:
// Pending → Extracted → Transformed → Cleared → Uploading → Done, with
// Failed reachable from any state.
type TableState string

const (
	TablePending     TableState = "pending"
	TableExtracted   TableState = "extracted"
	TableTransformed TableState = "transformed"
	TableCleared     TableState = "cleared"
	TableUploading   TableState = "uploading"
	TableDone        TableState = "done"
	TableFailed      TableState = "failed"
)

// RunState is the overall run outcome.
type RunState string

const (
	RunRunning   RunState = "running"
	RunSucceeded RunState = "succeeded"
	RunFailed    RunState = "failed"
)

// TableResult is the per-table outcome preserved for caller inspection.
type TableResult struct {
	Table string
	State TableState
	// RecordsAttempted is the extracted record count for the table.
	RecordsAttempted int
	// RecordsUploaded counts records in chunks the remote store confirmed.
	RecordsUploaded int
	// Cleared reports whether the remote table was emptied this run.
	Cleared bool
	Err     error
}

// RunResult aggregates the whole run.
type RunResult struct {
	State    RunState
	Tables   []TableResult
	Started  time.Time
	Finished time.Time
}

// TotalRecords sums the extracted record counts across all tables.
func (r RunResult) TotalRecords() int {
	n := 0
	for _, t := range r.Tables {
		n += t.RecordsAttempted
	}
	return n
}

// FirstErr returns the first per-table error in run order, or nil.
func (r RunResult) FirstErr() error {
	for _, t := range r.Tables {
		if t.Err != nil {
			return t.Err
		}
	}
	return nil
}

// Failed returns the tables that ended in the Failed state.
func (r RunResult) Failed() []TableResult {
	var out []TableResult
	for _, t := range r.Tables {
		if t.State == TableFailed {
			out = append(out, t)
		}
	}
	return out
}
