// Package table implements the in-memory columnar table: named,
// independently typed, equal-length columns addressed by name or position.
//
// A Table owns its columns and the name index over them. Reads and writes
// go through two selector types: Selector picks columns (Name, Pos, Names,
// Positions, Mask, AllColumns) and RowSelector picks rows (RowPositions,
// RowMask, AllRows). Crossing them yields the six access shapes:
//
//	t.Column(sel)            one column, shared handle
//	t.Select(sel)            columns as a table, shared storage
//	t.At(row, sel)           one cell
//	t.RowTable(row, sel)     one row as a table, fresh storage
//	t.ColumnRows(rows, sel)  one column restricted to rows, fresh storage
//	t.Sub(rows, sel)         rows x columns, fresh storage
//
// Writes mirror the shapes: SetColumn replaces or appends whole columns
// (scalars broadcast, an empty table auto-grows to one row, assigning nil
// deletes), SetAt writes one cell, Set writes a row range into existing
// columns only. Column replacement installs a new column handle, so a
// shallow copy made earlier keeps the old data; cell writes mutate storage
// in place and are visible through shallow copies and views.
//
// Views (View, Row) are non-owning row subsets that read and write through
// to their parent. VConcat and HConcat combine tables row- and column-wise.
// Equal, Equivalent, HashTable and DuplicateRows compare tables with
// missing-value-aware semantics: Equal treats any NA comparison as
// unknown, Equivalent treats NA as identical to NA.
//
// Tables are not thread-safe. A table, its shallow copies, and its views
// share mutable storage; callers using them from multiple goroutines must
// synchronize externally.
package table
