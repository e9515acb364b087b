// Package fingerprint builds stable identity keys for event descriptions.
//
// Two descriptions that differ only in representation (whitespace, Unicode
// composition, timestamp encoding, time zone of an equivalent instant) map to
// the same key. The import reconciler diffs fingerprint Sets to decide whether
// a fresh snapshot changes anything.
//
// Keys are computed as SHA-256 over canonical JSON with domain separation:
//
//	hex(SHA256("cohortcal/fingerprint/v1" + 0x00 + canonicalJSON(fields)))
//
// Build never fails. A timestamp that cannot be parsed falls back to its raw
// string form so a key is always produced.
package fingerprint
