package indexer

import "sync/atomic"

// SyncStats is a point-in-time view of synchronizer activity since start.
type SyncStats struct {
	// Enqueued is the number of operations accepted onto a worker queue.
	Enqueued uint64 `json:"enqueued"`
	// Upserted is the number of documents written successfully.
	Upserted uint64 `json:"upserted"`
	// Removed is the number of documents deleted successfully.
	Removed uint64 `json:"removed"`
	// Failed is the number of operations abandoned after all attempts.
	Failed uint64 `json:"failed"`
	// Dropped is the number of operations rejected because a queue was full
	// or the synchronizer was stopped.
	Dropped uint64 `json:"dropped"`
	// Skipped is the number of upserts not written because a newer
	// document or a removal had already been written for the note.
	Skipped uint64 `json:"skipped"`
	// Queued is the number of operations currently waiting.
	Queued int `json:"queued"`
	// Breaker is the circuit breaker state: closed, half-open or open.
	Breaker string `json:"breaker"`
}

type counters struct {
	enqueued atomic.Uint64
	upserted atomic.Uint64
	removed  atomic.Uint64
	failed   atomic.Uint64
	dropped  atomic.Uint64
	skipped  atomic.Uint64
}
