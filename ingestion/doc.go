// Package ingestion feeds normalized product records into the
// relational store and the search index.
//
// The Pipeline consumes the offer stream in batches of the configured
// concurrency limit: each batch dispatches one insert and one index
// write per record concurrently, then waits for the whole batch before
// pulling more offers. That wait is the only backpressure mechanism;
// the parser can never run ahead of the stores by more than one batch.
//
// There is no cross-store transaction. A failure inside a batch fails
// the run, and sibling operations that already committed are not rolled
// back.
package ingestion
