// Package reconcile replaces the imported events of a scope with a freshly
// fetched snapshot.
//
// A reconcile call runs through a fixed sequence while holding the scope's
// lock:
//
//	acquire lock → read stored imported events → classify entries
//	→ compare fingerprint sets → (equal) Unchanged
//	                           → (different) delete imported, insert new → Updated
//	→ release lock
//
// The lock is non-blocking. A second call for a scope that is already being
// reconciled returns a Busy error immediately instead of waiting. Different
// scopes never contend.
//
// Entries that fail validation are dropped and counted; they never abort the
// batch. A snapshot with no valid entries is a legitimate update that empties
// the scope.
package reconcile
