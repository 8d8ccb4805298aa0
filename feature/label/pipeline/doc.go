// Package pipeline holds the shared plumbing of the ingestion pipeline: the
// orchestration context threaded through recursive resolution, the strategy
// flag selecting incremental vs batch execution, and the Result/error taxonomy
// every pipeline call reports through.
package pipeline
