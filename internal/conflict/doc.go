// Package conflict finds overlapping events in a viewer's merged schedule.
//
// Detect runs a sweep line over the events sorted by start time (ties broken
// by id) and reports every overlapping pair that involves at least one
// personal event. Intervals are closed-open: an event ending at 10:00 does not
// conflict with one starting at 10:00.
//
// Study-vs-study overlaps are not reported. The institutional schedule is
// treated as internally authoritative.
package conflict
