// Package batch groups the source texts of a worksheet into bounded
// batches for translation.
//
// A Planner walks the rows of a document in ascending order and records a
// (row, text) pair per row. Once BatchSize pairs are queued it refuses
// further input until the caller drains the batch, so at most one batch is
// ever held in memory.
package batch
