// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package chunk splits record sequences into bounded batches for transfer.
package chunk

import "omegasync/cli/internal/record"

// DefaultSize is the number of records per upload chunk unless configured.
const DefaultSize = 500

// Split partitions records into batches of at most size records each,
// preserving order. Every batch except possibly the last has exactly size
// records. Empty input yields no batches; callers treat that as a successful
// no-op, not an error. size must be at least 1.
func Split(records []record.Record, size int) [][]record.Record {
	if len(records) == 0 {
		return nil
	}
	out := make([][]record.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}
