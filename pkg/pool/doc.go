// Package pool implements a type-safe object pooling system for the hot paths
// of the table engine. It provides unified memory management for reusable
// objects, reducing garbage collection pressure under selection-heavy and
// dedup-heavy workloads.
//
// # Architecture
//
// The pool package uses Go generics to provide type-safe pooling for any
// object type. It builds on sync.Pool but adds statistics and automatic
// reset functionality.
//
// Core Types:
//
//   - Pool[T]: Generic pool implementation for any type T
//   - BufferPool: Size-bucketed byte buffers for I/O
//   - StringInternPool: Concurrent string interning for column names
//   - Global pools: Pre-configured pools for common types
//
// # Global Pools
//
// Pre-configured pools are available for the types the engine recycles most:
//
//	var (
//		PositionSlicePool = New[[]int](...)            // row/column positions
//		RowMapPool        = New[map[string]any](...)   // materialized rows
//		ValueSlicePool    = New[[]any](...)            // row value buffers
//		StringSlicePool   = New[[]string](...)         // rendered fields
//		ByteSlicePool     = New[[]byte](...)           // row-key encoding
//	)
//
// # Usage
//
// Basic pool usage:
//
//	positions := pool.GetPositions(table.RowCount())
//	defer pool.PutPositions(positions)
//
//	for i := 0; i < table.RowCount(); i++ {
//		if mask[i] {
//			positions = append(positions, i)
//		}
//	}
//
// Column name interning:
//
//	name := pool.InternString(header[i])
package pool
