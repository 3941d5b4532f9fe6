// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transform reshapes extracted records for remote-side schema
// compatibility. The only reshaping the remote schema needs is field
// renaming, declared per table in its spec; everything here is a pure,
// per-record mapping with no side effects beyond the record itself.
package transform

import (
	"omegasync/cli/internal/record"
	"omegasync/cli/internal/tablespec"
)

// Apply renames each record's fields according to the spec's rename map.
// It is idempotent: once a field has been renamed, reapplying the map finds
// nothing to rename, so records that pass through twice are unchanged.
func Apply(spec tablespec.TableSpec, records []record.Record) {
	if len(spec.Renames) == 0 {
		return
	}
	for i := range records {
		ApplyRecord(spec, &records[i])
	}
}

// ApplyRecord renames a single record's fields in place.
func ApplyRecord(spec tablespec.TableSpec, r *record.Record) {
	for from, to := range spec.Renames {
		r.Rename(from, to)
	}
}
