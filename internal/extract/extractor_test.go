// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package extract

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/tablespec"
)

// fakeRows implements pgx.Rows over canned columns and values.
type fakeRows struct {
	cols   []string
	rows   [][]any
	idx    int
	rowErr error
}

func (f *fakeRows) Close()                        {}
func (f *fakeRows) Err() error                    { return f.rowErr }
func (f *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(f.cols))
	for i, c := range f.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}
func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}
func (f *fakeRows) Scan(dest ...any) error { return nil }
func (f *fakeRows) Values() ([]any, error) { return f.rows[f.idx-1], nil }
func (f *fakeRows) RawValues() [][]byte    { return nil }
func (f *fakeRows) Conn() *pgx.Conn        { return nil }

type fakeDB struct {
	rows *fakeRows
	err  error
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func TestExtractMaterializesRows(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{
		cols: []string{"code", "name"},
		rows: [][]any{
			{"P1", "First"},
			{"P2", "Second"},
		},
	}}

	recs, err := New(db).Extract(context.Background(), tablespec.TableSpec{Name: "products", Query: "SELECT 1"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Extract() = %d records, want 2", len(recs))
	}
	if got := recs[0].Fields; len(got) != 2 || got[0] != "code" || got[1] != "name" {
		t.Errorf("Fields = %v, want [code name]", got)
	}
	if v, _ := recs[1].Get("name"); v != "Second" {
		t.Errorf("record 1 name = %v, want Second", v)
	}
}

func TestExtractQueryFailure(t *testing.T) {
	db := &fakeDB{err: stderrors.New("relation does not exist")}

	recs, err := New(db).Extract(context.Background(), tablespec.TableSpec{Name: "products", Query: "SELECT 1"})
	if recs != nil {
		t.Errorf("Extract() returned %d records on failure, want none", len(recs))
	}
	if !errors.IsKind(err, errors.ExtractFailed) {
		t.Errorf("Extract() error kind = %q, want %q", errors.KindOf(err), errors.ExtractFailed)
	}
}

func TestExtractRowIterationFailure(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{
		cols:   []string{"code"},
		rowErr: stderrors.New("connection reset"),
	}}

	_, err := New(db).Extract(context.Background(), tablespec.TableSpec{Name: "products", Query: "SELECT 1"})
	if !errors.IsKind(err, errors.ExtractFailed) {
		t.Errorf("Extract() error kind = %q, want %q", errors.KindOf(err), errors.ExtractFailed)
	}
}

func TestExtractEmptyResult(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{cols: []string{"code"}}}

	recs, err := New(db).Extract(context.Background(), tablespec.TableSpec{Name: "products", Query: "SELECT 1"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Extract() = %d records, want 0", len(recs))
	}
}
