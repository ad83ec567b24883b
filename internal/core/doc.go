// Package core provides the business logic for CSV time-series loading.
//
// This package sits between the transport layer and the inference engine,
// containing all domain logic independent of HTTP. It can be driven by web
// handlers, CLI tools, or tests without modification.
//
// # Load flow
//
// A load is started with [Service.StartLoad] and runs asynchronously:
//
//  1. The reader is wrapped with BOM skipping and UTF-8 sanitization.
//  2. Rows are parsed with encoding/csv; the first row is the header.
//  3. Each column's type is detected once, from its first non-empty cell,
//     via infer.DetectColumnType.
//  4. Every cell is converted through the cached fast path
//     (infer.ParseWithType) — detection never runs a second time.
//  5. Parsed values are persisted to PostgreSQL with the COPY protocol.
//
// Progress is broadcast to subscribers registered through
// [Service.SubscribeProgress], and the final [LoadResult] is retained for a
// short window after completion.
//
// # Concurrency control
//
// [LoadLimiter] bounds the number of loads processed in parallel using a
// semaphore. When all slots are busy, StartLoad waits up to a configurable
// timeout before failing with [ErrTooManyLoads]. WaitForDrain supports
// graceful shutdown by blocking until active loads finish.
package core
