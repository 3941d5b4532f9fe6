// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package record defines the flat row representation that flows through the
// sync pipeline and its JSON encoding. A Record preserves the column order of
// the extraction query, and the encoder normalizes driver-specific values
// (arbitrary-precision numerics, byte arrays) into plain JSON scalars the
// remote API accepts.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Record is one source row as an ordered field-name-to-value mapping.
// Fields holds the column names in query projection order; Values maps each
// field to its scalar value (string, integer, float, bool, or nil).
type Record struct {
	Fields []string
	Values map[string]any
}

// New creates an empty Record that will hold the given fields in order.
func New(fields ...string) Record {
	return Record{
		Fields: fields,
		Values: make(map[string]any, len(fields)),
	}
}

// Set assigns a value to an existing field. Unknown fields are appended,
// preserving insertion order.
func (r *Record) Set(field string, value any) {
	if _, ok := r.Values[field]; !ok {
		found := false
		for _, f := range r.Fields {
			if f == field {
				found = true
				break
			}
		}
		if !found {
			r.Fields = append(r.Fields, field)
		}
	}
	r.Values[field] = value
}

// Get returns the value for field and whether the field is present.
func (r Record) Get(field string) (any, bool) {
	v, ok := r.Values[field]
	return v, ok
}

// Has reports whether the record carries the given field.
func (r Record) Has(field string) bool {
	_, ok := r.Values[field]
	return ok
}

// Rename moves the value of an existing field to a new field name, keeping
// the field's position. It is a no-op when the old field is absent or the new
// name is already present, which makes repeated application safe.
func (r *Record) Rename(from, to string) {
	if from == to {
		return
	}
	v, ok := r.Values[from]
	if !ok {
		return
	}
	if _, taken := r.Values[to]; taken {
		return
	}
	for i, f := range r.Fields {
		if f == from {
			r.Fields[i] = to
			break
		}
	}
	delete(r.Values, from)
	r.Values[to] = v
}

// MarshalJSON encodes the record as a JSON object with fields in query order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(NormalizeValue(r.Values[field]))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizeValue converts driver-level values into JSON-serializable scalars.
// NUMERIC columns surface from pgx as pgtype.Numeric; the remote store only
// accepts standard JSON numerics, so they are emitted as their nearest
// float64. UUID byte arrays become their canonical string form, other byte
// slices a hex literal.
func NormalizeValue(val any) any {
	switch v := val.(type) {
	case pgtype.Numeric:
		return numericToFloat(v)
	case *pgtype.Numeric:
		if v == nil {
			return nil
		}
		return numericToFloat(*v)
	case [16]byte:
		return formatUUID(v[:])
	case []byte:
		if len(v) == 16 {
			return formatUUID(v)
		}
		return fmt.Sprintf("\\x%x", v)
	default:
		return v
	}
}

// numericToFloat reduces an arbitrary-precision numeric to float64, which is
// the closest representation standard JSON consumers can hold.
func numericToFloat(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	return f.Float64
}

// formatUUID renders 16 raw bytes as xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func formatUUID(b []byte) string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7],
		b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15])
}
