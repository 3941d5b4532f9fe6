// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chunk

import (
	"fmt"
	"testing"

	"omegasync/cli/internal/record"
)

func makeRecords(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		r := record.New("id")
		r.Set("id", i)
		out[i] = r
	}
	return out
}

func TestSplitEmpty(t *testing.T) {
	for _, size := range []int{1, 2, 500} {
		if got := Split(nil, size); len(got) != 0 {
			t.Errorf("Split(nil, %d) = %d chunks, want 0", size, len(got))
		}
		if got := Split([]record.Record{}, size); len(got) != 0 {
			t.Errorf("Split([], %d) = %d chunks, want 0", size, len(got))
		}
	}
}

func TestSplitSizes(t *testing.T) {
	tests := []struct {
		n, size    int
		wantChunks []int
	}{
		{n: 1, size: 1, wantChunks: []int{1}},
		{n: 3, size: 1, wantChunks: []int{1, 1, 1}},
		{n: 5, size: 2, wantChunks: []int{2, 2, 1}},
		{n: 500, size: 500, wantChunks: []int{500}},
		{n: 501, size: 500, wantChunks: []int{500, 1}},
		{n: 1250, size: 500, wantChunks: []int{500, 500, 250}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.n, tt.size), func(t *testing.T) {
			got := Split(makeRecords(tt.n), tt.size)
			if len(got) != len(tt.wantChunks) {
				t.Fatalf("Split() = %d chunks, want %d", len(got), len(tt.wantChunks))
			}
			for i, c := range got {
				if len(c) != tt.wantChunks[i] {
					t.Errorf("chunk %d has %d records, want %d", i, len(c), tt.wantChunks[i])
				}
			}
		})
	}
}

func TestSplitConcatenationReproducesInput(t *testing.T) {
	for _, size := range []int{1, 3, 7, 500} {
		in := makeRecords(23)
		var flat []record.Record
		for _, c := range Split(in, size) {
			flat = append(flat, c...)
		}
		if len(flat) != len(in) {
			t.Fatalf("size %d: concatenation has %d records, want %d", size, len(flat), len(in))
		}
		for i := range in {
			got, _ := flat[i].Get("id")
			want, _ := in[i].Get("id")
			if got != want {
				t.Errorf("size %d: record %d = %v, want %v", size, i, got, want)
			}
		}
	}
}
