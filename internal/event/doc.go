// Package event provides the schedule data model shared by every other
// cohortcal package.
//
// This package contains type definitions and small helpers only. It imports
// nothing internal, so the fingerprint, conflict, reconcile and store layers
// can all depend on it without cycles.
//
// Key constraints:
//   - An Event occupies the closed-open interval [Start, End); End must be after Start
//   - Scope identity is a plain string (Scope.Key) so it can key locks and fingerprints
//   - Shared events normally arrive through import, but nothing here assumes it
package event
