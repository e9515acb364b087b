// Package store provides SQLite-backed durable storage for schedule events.
//
// The store is the Event Store collaborator of the import reconciler. It offers
// scope queries, source-filtered deletes and batch inserts, plus the owner
// actions (manual entry, deletion) and the merged viewer query the conflict
// detector reads.
//
// # Guarantees
//
//   - Read-after-write consistency within one process: a single connection
//     serializes all statements (SetMaxOpenConns(1))
//   - InsertBatch is atomic: either every event in the batch is stored or none
//   - Deterministic results: every query ends in ORDER BY start_ms ASC, id ASC
//   - Instants are stored as UTC epoch milliseconds, the same precision the
//     fingerprint builder renders
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
