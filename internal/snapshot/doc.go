// Package snapshot is the parse boundary between external schedule feeds and
// the reconciler.
//
// Feeds deliver loosely-typed entries: fields may be absent, timestamps may
// be epoch millis or ISO strings, and whole entries may be garbage. Decode
// and DecodeICS turn raw payloads into Entry values without judging them;
// Classify then splits every Entry into exactly one of ValidParsedEvent or
// RejectedParsedEvent. Nothing past this package inspects raw fields.
package snapshot
