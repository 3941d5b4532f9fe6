// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package extract reads source rows through a pgx connection pool and
// materializes them as flat records. Field names are exactly the query's
// projected column names, in projection order.
//
// A failed query is reported to the caller as a typed error rather than a
// panic; one table's failure must not abort extraction of the other tables.
package extract

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"omegasync/cli/internal/errors"
	"omegasync/cli/internal/record"
	"omegasync/cli/internal/tablespec"
)

// Querier is the slice of pgxpool.Pool the extractor depends on.
// Tests substitute a fake returning canned rows.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Extractor turns a table spec's query into a slice of records.
type Extractor struct {
	db Querier
}

// New creates an extractor over the given query source.
func New(db Querier) *Extractor {
	return &Extractor{db: db}
}

// Extract runs the spec's query and materializes every row. On failure it
// returns no records and an errors.ExtractFailed error carrying the cause.
func (e *Extractor) Extract(ctx context.Context, spec tablespec.TableSpec) ([]record.Record, error) {
	rows, err := e.db.Query(ctx, spec.Query)
	if err != nil {
		return nil, errors.Wrap(errors.ExtractFailed, fmt.Sprintf("query for table %s failed", spec.Name), err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	fields := make([]string, len(descs))
	for i, d := range descs {
		fields[i] = d.Name
	}

	var out []record.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.Wrap(errors.ExtractFailed, fmt.Sprintf("reading row %d of table %s failed", len(out)+1, spec.Name), err)
		}
		r := record.New(fields...)
		for i, f := range fields {
			r.Set(f, values[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ExtractFailed, fmt.Sprintf("query for table %s failed", spec.Name), err)
	}
	return out, nil
}
