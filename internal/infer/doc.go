// Package infer is the column-type inference and timestamp-parsing engine.
//
// Given raw text cells from a CSV-like source, it classifies a column's
// semantic type from a single sample value, converts textual timestamps and
// numbers into a canonical float64 (seconds since the Unix epoch, or the raw
// numeric value), and exposes a cached fast path so that once a column's type
// and format are known, every later row is parsed without re-running
// detection.
//
// # Detection and the fast path
//
// [DetectColumnType] runs once per column, typically on the first non-empty
// cell, and returns a [ColumnTypeInfo]. That value is immutable; callers keep
// it in their column descriptor and pass it to [ParseWithType] for every row:
//
//	info := infer.DetectColumnType(sample)
//	for _, cell := range column {
//	    if v, ok := infer.ParseWithType(cell, info); ok {
//	        // v is seconds since epoch, or the numeric value
//	    }
//	}
//
// [AutoParseTimestamp] is the one-shot variant for callers that do not keep a
// per-column cache, and [FormatParseTimestamp] parses against an explicit
// user-supplied format instead of the automatic format table.
//
// # Error handling
//
// Nothing in this package returns an error or panics. Every parse entry point
// follows the comma-ok convention: malformed input yields ok=false so that a
// single bad row can never abort a bulk load. Ambiguous day/month dates are
// resolved deterministically by a heuristic (see [IsDayFirstFormat]), never
// reported as failures.
//
// All functions are pure and reentrant; a ColumnTypeInfo produced on one
// goroutine may be shared read-only by any number of workers.
package infer
