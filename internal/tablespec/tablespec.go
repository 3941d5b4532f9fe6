// Copyright (c) 2025 Omegasync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tablespec declares the fixed set of tables the sync replicates.
// Table-specific behavior (source query, remote endpoints, field renames)
// lives here as data so the pipeline itself stays generic.
package tablespec

// TableSpec describes one synchronized table: where its rows come from, which
// remote endpoints receive them, and any field renames the remote schema
// requires. Specs are immutable and defined at startup.
type TableSpec struct {
	// Name is the logical table name shown in progress output.
	Name string
	// RemoteName is the table name the web application knows this data by.
	RemoteName string
	// Query is the read-only extraction query against the source database.
	Query string
	// ClearPath is the endpoint that deletes all existing remote rows.
	ClearPath string
	// ChunkPath is the endpoint that accepts one uploaded chunk.
	ChunkPath string
	// Renames maps source column names to remote field names.
	Renames map[string]string
}

// All returns the synchronized table set in run order. The order is fixed so
// runs are deterministic and results comparable across runs.
func All() []TableSpec {
	return []TableSpec{
		{
			Name:       "products",
			RemoteName: "products",
			Query:      "SELECT code, name, product, brand, unit, taxcode, defect, company FROM acc_product",
			ClearPath:  "/api/clear/products",
			ChunkPath:  "/api/sync/products/chunk",
		},
		{
			Name:       "batches",
			RemoteName: "productbatches",
			Query:      "SELECT productcode, cost, salesprice, bmrp, barcode, secondprice, thirdprice FROM acc_productbatch",
			ClearPath:  "/api/clear/productbatches",
			ChunkPath:  "/api/sync/productbatches/chunk",
		},
		{
			Name:       "customers",
			RemoteName: "masters",
			Query:      "SELECT code, name, super_code, address, phone, phone2 FROM acc_master WHERE super_code = 'DEBTO'",
			ClearPath:  "/api/clear/masters",
			ChunkPath:  "/api/sync/masters/chunk",
		},
		{
			Name:       "users",
			RemoteName: "users",
			Query:      "SELECT id, pass, role FROM acc_users",
			ClearPath:  "/api/clear/users",
			ChunkPath:  "/api/sync/users/chunk",
			// "pass" is a reserved word on the remote side.
			Renames: map[string]string{"pass": "pass_field"},
		},
	}
}
