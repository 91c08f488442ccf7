// Package prism provides a columnar, in-memory table engine: typed columns
// with validity bitmaps, a name/position indexing algebra over them, and
// loaders and exporters for the formats tables actually arrive in.
//
// A table is an ordered set of equal-length columns. Every column is one of
// five element types (int, float, string, bool, any) and any cell can hold
// the missing value, which surfaces as untyped nil everywhere in the API.
//
// # Quick Start
//
// Load a CSV file and print the first rows:
//
//	import (
//	    "fmt"
//
//	    "github.com/ajitpratap0/prism/pkg/render"
//	    "github.com/ajitpratap0/prism/pkg/source"
//	)
//
//	tbl, err := source.LoadCSV("people.csv")
//	if err != nil {
//	    return err
//	}
//	head, err := render.Head(tbl, 5)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(render.Format(head, render.DefaultOptions()))
//
// Build a table in code:
//
//	tbl, err := table.FromCols(
//	    table.Col{Name: "id", Values: []int64{1, 2, 3}},
//	    table.Col{Name: "name", Values: []interface{}{"ada", nil, "grace"}},
//	)
//
// # Key Packages
//
//	pkg/table    - tables, selectors, views, concatenation, comparison
//	pkg/column   - typed column storage with validity bitmaps
//	pkg/source   - CSV, JSON, record, database/sql, and pgx loaders
//	pkg/render   - fixed-width printing, CSV and JSON export
//	pkg/arrowio  - Apache Arrow record interchange
//	pkg/config   - unified configuration with YAML loading
//	pkg/errors   - structured error handling
//	pkg/logger   - structured logging
//	pkg/metrics  - Prometheus metrics collection
//
// # Missing Values
//
// NA is a property of the cell, not the column: every column type carries a
// packed validity bitmap, Get returns nil for missing cells, and Set with
// nil marks a cell missing. Comparisons involving NA resolve to the unknown
// state of a three-valued logic rather than to false. Loaders map source
// nulls (configured CSV tokens, JSON null, SQL NULL, Arrow validity) onto
// the same representation.
//
// # Concurrency
//
// Tables are not thread-safe. A table, its shallow copies, and its views
// share column storage; callers sharing them across goroutines must
// synchronize externally.
package prism
