// Package syncing drives the end-to-end sync run: extraction, transformation,
// clearing, and chunked upload across the configured table set. It defines
// the event structures observers consume to display progress in the CLI.
//
// Observers are pure side-effect sinks. They never influence control flow or
// retry decisions; the orchestrator publishes to them and moves on.
package syncing

// EventType enumerates known sync event kinds.
type EventType string

const (
	// EventRunStarted opens a run with the number of tables in scope.
	EventRunStarted EventType = "run_started"
	// EventTableExtracted reports a table's record count after extraction.
	EventTableExtracted EventType = "table_extracted"
	// EventExtractFailed reports a failed extraction for one table.
	EventExtractFailed EventType = "extract_failed"
	// EventClearStarted announces the clear request for a table.
	EventClearStarted EventType = "clear_started"
	// EventTableCleared confirms the remote table was emptied.
	EventTableCleared EventType = "table_cleared"
	// EventClearSkipped reports a clear skipped under the legacy
	// skip-when-empty policy.
	EventClearSkipped EventType = "clear_skipped"
	// EventClearFailed reports an exhausted clear. The run aborts.
	EventClearFailed EventType = "clear_failed"
	// EventUploadStarted opens a table's upload with its chunk total.
	EventUploadStarted EventType = "upload_started"
	// EventChunkUploaded confirms one chunk.
	EventChunkUploaded EventType = "chunk_uploaded"
	// EventChunkFailed reports an exhausted chunk upload. The run aborts.
	EventChunkFailed EventType = "chunk_failed"
	// EventTableDone marks a table fully synchronized.
	EventTableDone EventType = "table_done"
	// EventRunFinished closes the run with its final state.
	EventRunFinished EventType = "run_finished"
)

// Event is a generic container for sync progress events.
// Only a subset of fields is set depending on Type.
type Event struct {
	Type  EventType
	Table string

	// Record and chunk accounting
	Records    int
	ChunkIndex int // 1-based
	ChunkTotal int
	Tables     int

	// Terminal state
	RunState RunState
	Err      error
}

// Reporter observes orchestrator events.
type Reporter interface {
	Publish(ev Event)
}

// NopReporter discards all events. Used when no UI is attached.
type NopReporter struct{}

func (NopReporter) Publish(Event) {}

// MultiReporter fans one event out to several observers, e.g. the terminal
// renderer and the run log.
type MultiReporter []Reporter

func (m MultiReporter) Publish(ev Event) {
	for _, r := range m {
		r.Publish(ev)
	}
}
