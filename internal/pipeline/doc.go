// Package pipeline translates the source column of a worksheet into a
// result column.
//
// A Pipeline walks the rows through a batch.Planner, sends every distinct
// uncached text of a batch to the provider in a single call and writes the
// translation of every row back as a shared string. The document is saved
// exactly once, after the last batch; a failure before that point leaves
// the stored file untouched.
//
// States advance Idle -> Scanning -> Flushing (repeated) -> Finalizing ->
// Done. A pipeline runs once.
package pipeline
